package asset

import (
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/meshasset/config"
	"go.viam.com/meshasset/npy"
	"go.viam.com/meshasset/spatialmath"
)

const (
	posesFile = "stable_poses.npy"
	probFile  = "stable_prob.npy"
	logFile   = "log.txt"
	plotFile  = "stable_prob.png"
)

// SampleStablePoses samples the resting poses of m around its current center of mass and
// multiplies every translation by the configured pose translation scale.
func SampleStablePoses(engine GeometryEngine, m *spatialmath.Mesh, cfg *config.Config) ([]spatialmath.StablePose, error) {
	poses, err := engine.SampleStablePoses(m, engine.CenterOfMass(m), cfg.StablePoseSamples, cfg.StablePoseSigma)
	if err != nil {
		return nil, err
	}
	for i, pose := range poses {
		tf := mat.DenseCopyOf(pose.Transform)
		for row := 0; row < 3; row++ {
			tf.Set(row, 3, tf.At(row, 3)*cfg.PoseTranslationScale)
		}
		poses[i].Transform = tf
	}
	return poses, nil
}

// poseArrays packs poses into an (N, 4, 4) transform array and an (N,) probability array.
func poseArrays(poses []spatialmath.StablePose) (*npy.Array, *npy.Array, error) {
	transforms := make([]float64, 0, 16*len(poses))
	for _, pose := range poses {
		for row := 0; row < 4; row++ {
			transforms = append(transforms, mat.Row(nil, row, pose.Transform)...)
		}
	}
	tfArray, err := npy.NewArray([]int{len(poses), 4, 4}, transforms)
	if err != nil {
		return nil, nil, err
	}
	probArray, err := npy.NewArray([]int{len(poses)}, probabilities(poses))
	if err != nil {
		return nil, nil, err
	}
	return tfArray, probArray, nil
}

func probabilities(poses []spatialmath.StablePose) []float64 {
	return lo.Map(poses, func(p spatialmath.StablePose, _ int) float64 {
		return p.Probability
	})
}

// formatLog renders the contents of log.txt.
func formatLog(probs []float64) string {
	formatted := lo.Map(probs, func(p float64, _ int) string {
		return fmt.Sprintf("%.3f", p)
	})
	return fmt.Sprintf("num stable poses: %d\nprob: %s\n", len(probs), strings.Join(formatted, ", "))
}

func writeLog(path string, probs []float64) error {
	return os.WriteFile(path, []byte(formatLog(probs)), 0o644)
}
