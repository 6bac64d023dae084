package spatialmath

import (
	"math"
	"math/rand/v2"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

const (
	defaultStablePoseSamples = 10
	defaultMaxSampleAttempts = 1_000_000
)

// StablePoseOptions configures ComputeStablePoses.
type StablePoseOptions struct {
	// CenterOfMass is the nominal center of mass. Samples are drawn around it and the returned
	// transforms place it over the origin.
	CenterOfMass r3.Vector
	// Samples is the number of perturbed centers of mass to evaluate. Defaults to 10.
	Samples int
	// Sigma is the variance of each coordinate of the sample distribution. Zero disables
	// perturbation.
	Sigma float64
	// Rand is the random source. A fixed seed is used when nil.
	Rand *rand.Rand
	// MaxAttempts bounds the draws for one sample before the nominal center of mass is used
	// instead. Defaults to one million.
	MaxAttempts int
	// OnExhausted, if set, is called each time a sample falls back to the nominal center of mass.
	OnExhausted func(sample int)
}

// StablePose is a rigid transform that rests the object on a face of its convex hull, with the
// probability of landing that way.
type StablePose struct {
	Transform   *mat.Dense
	Probability float64
}

// Translation returns the translation column of the transform.
func (p StablePose) Translation() r3.Vector {
	return r3.Vector{X: p.Transform.At(0, 3), Y: p.Transform.At(1, 3), Z: p.Transform.At(2, 3)}
}

// ComputeStablePoses estimates the faces of the convex hull of m the object can come to rest on
// when dropped onto a plane. For each sampled center of mass every hull face gets a weight equal
// to the fraction of the sphere it covers as seen from that point. A face whose projected center
// of mass falls outside it passes its weight to the neighbor across the edge it is farthest
// beyond, until a face that holds the center of mass is reached. Resting faces that share a
// normal are grouped into one pose.
func ComputeStablePoses(m *Mesh, opts StablePoseOptions) ([]StablePose, error) {
	hull, err := m.ConvexHull()
	if err != nil {
		return nil, err
	}
	if opts.Samples <= 0 {
		opts.Samples = defaultStablePoseSamples
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxSampleAttempts
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(1, 2))
	}

	tris := hull.Triangles()
	neighbors := hullNeighbors(hull)

	var groups []*poseGroup
	groupIndex := make(map[[3]int64]int)
	for s := 0; s < opts.Samples; s++ {
		com := sampleCenterOfMass(hull, tris, opts, s)
		for fi, weight := range toppleWeights(tris, neighbors, com) {
			if weight == 0 {
				continue
			}
			k := roundedNormalKey(tris[fi].Normal())
			gi, ok := groupIndex[k]
			if !ok {
				gi = len(groups)
				groupIndex[k] = gi
				groups = append(groups, &poseGroup{normal: tris[fi].Normal()})
			}
			groups[gi].weight += weight / float64(opts.Samples)
		}
	}

	poses := make([]StablePose, 0, len(groups))
	for _, g := range groups {
		poses = append(poses, StablePose{
			Transform:   restingTransform(hull, g.normal, opts.CenterOfMass),
			Probability: g.weight,
		})
	}
	return poses, nil
}

type poseGroup struct {
	normal r3.Vector
	weight float64
}

// sampleCenterOfMass draws a point from the sampling distribution that lies inside the hull.
func sampleCenterOfMass(hull *Mesh, tris []*Triangle, opts StablePoseOptions, sample int) r3.Vector {
	if opts.Sigma <= 0 {
		return opts.CenterOfMass
	}
	std := math.Sqrt(opts.Sigma)
	eps := floatEpsilon * math.Max(1, hullDiagonal(hull))
	for i := 0; i < opts.MaxAttempts; i++ {
		candidate := opts.CenterOfMass.Add(r3.Vector{
			X: opts.Rand.NormFloat64() * std,
			Y: opts.Rand.NormFloat64() * std,
			Z: opts.Rand.NormFloat64() * std,
		})
		if insideHull(tris, candidate, eps) {
			return candidate
		}
	}
	if opts.OnExhausted != nil {
		opts.OnExhausted(sample)
	}
	return opts.CenterOfMass
}

func hullDiagonal(hull *Mesh) float64 {
	lo, hi := hull.Bounds()
	return hi.Sub(lo).Norm()
}

func insideHull(tris []*Triangle, pt r3.Vector, eps float64) bool {
	for _, tri := range tris {
		if tri.SignedDistance(pt) > eps {
			return false
		}
	}
	return true
}

// hullNeighbors returns, for each face and each of its edges in winding order, the index of the
// face on the other side of that edge.
func hullNeighbors(hull *Mesh) [][3]int {
	owner := make(map[[2]int]int, 3*len(hull.faces))
	for fi, f := range hull.faces {
		for k := 0; k < 3; k++ {
			owner[[2]int{f[k], f[(k+1)%3]}] = fi
		}
	}
	neighbors := make([][3]int, len(hull.faces))
	for fi, f := range hull.faces {
		for k := 0; k < 3; k++ {
			n, ok := owner[[2]int{f[(k+1)%3], f[k]}]
			if !ok {
				n = -1
			}
			neighbors[fi][k] = n
		}
	}
	return neighbors
}

// toppleWeights returns the probability mass that ends on each face for a single center of mass.
func toppleWeights(tris []*Triangle, neighbors [][3]int, com r3.Vector) []float64 {
	next := make([]int, len(tris))
	for fi, tri := range tris {
		next[fi] = toppleTarget(tri, neighbors[fi], com)
	}

	sinks := make([]float64, len(tris))
	for fi, tri := range tris {
		weight := tri.SolidAngle(com) / (4 * math.Pi)
		current := fi
		// Any chain longer than the face count is a cycle and its weight is dropped.
		for steps := 0; next[current] >= 0 && steps <= len(tris); steps++ {
			current = next[current]
		}
		if next[current] < 0 {
			sinks[current] += weight
		}
	}
	return sinks
}

// toppleTarget returns the face the object rolls onto when resting on tri, or -1 if tri is stable.
func toppleTarget(tri *Triangle, neighbors [3]int, com r3.Vector) int {
	projected := tri.ProjectPoint(com)
	if _, inside := tri.ClosestInsidePoint(projected); inside {
		return -1
	}
	pts := tri.Points()
	n := tri.Normal()
	target := -1
	farthest := math.Inf(-1)
	for k := 0; k < 3; k++ {
		a, b := pts[k], pts[(k+1)%3]
		outward := b.Sub(a).Cross(n).Normalize()
		if d := projected.Sub(a).Dot(outward); d > farthest {
			farthest, target = d, neighbors[k]
		}
	}
	return target
}

// restingTransform rotates normal onto -Z, moves com over the origin and lifts the hull so its
// lowest point touches z = 0.
func restingTransform(hull *Mesh, normal, com r3.Vector) *mat.Dense {
	z := normal.Mul(-1)
	x := r3.Vector{X: -z.Y, Y: z.X}
	if x.Norm2() == 0 {
		x = r3.Vector{X: 1}
	}
	x = x.Normalize()
	y := z.Cross(x)

	rows := [3]r3.Vector{x, y, z}
	var t [3]float64
	for i, r := range rows {
		t[i] = -r.Dot(com)
	}
	minZ := math.Inf(1)
	for _, v := range hull.vertices {
		minZ = math.Min(minZ, z.Dot(v)+t[2])
	}
	t[2] -= minZ

	return mat.NewDense(4, 4, []float64{
		x.X, x.Y, x.Z, t[0],
		y.X, y.Y, y.Z, t[1],
		z.X, z.Y, z.Z, t[2],
		0, 0, 0, 1,
	})
}
