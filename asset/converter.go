package asset

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"go.viam.com/meshasset/config"
	"go.viam.com/meshasset/logging"
	"go.viam.com/meshasset/spatialmath"
	"go.viam.com/meshasset/urdf"
)

// ErrNoMatches is returned when the mesh pattern matches no file.
var ErrNoMatches = errors.New("no mesh files match the pattern")

// Result describes one converted mesh.
type Result struct {
	Name      string
	Source    string
	OutputDir string
	MeshFile  string
	URDFFile  string
	// MeshReference is the filename written into the URDF.
	MeshReference string
	Watertight    bool
	Probabilities []float64
	Normalize     *NormalizeResult
}

// NumPoses returns the number of stable poses found.
func (r *Result) NumPoses() int {
	return len(r.Probabilities)
}

// Converter turns mesh files into asset directories under a target root.
type Converter struct {
	cfg        *config.Config
	logger     logging.Logger
	target     string
	outputName string
	seed       uint64
	newEngine  func(logger logging.Logger, seed uint64, maxAttempts int) GeometryEngine
}

// NewConverter returns a Converter writing under target. outputName is the file name of the
// exported mesh; when empty each source keeps its own base name.
func NewConverter(cfg *config.Config, logger logging.Logger, target, outputName string) *Converter {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Converter{
		cfg:        cfg,
		logger:     logger,
		target:     target,
		outputName: outputName,
		seed:       seed,
		newEngine:  NewEngine,
	}
}

// AssetName returns the name of the asset built from path: its base name up to the first dot.
func AssetName(path string) string {
	name, _, _ := strings.Cut(filepath.Base(path), ".")
	return name
}

// ConvertAll converts every file under root matching pattern, in lexical order. At most
// cfg.Workers meshes are converted at once. Scheduling stops at the first failure.
func (c *Converter) ConvertAll(ctx context.Context, root, pattern string) ([]*Result, error) {
	matches, err := filepath.Glob(filepath.Join(root, pattern))
	if err != nil {
		return nil, errors.Wrapf(err, "bad mesh pattern %q", pattern)
	}
	if len(matches) == 0 {
		return nil, errors.Wrapf(ErrNoMatches, "%q in %q", pattern, root)
	}
	sort.Strings(matches)

	if dups := lo.FindDuplicatesBy(matches, AssetName); len(dups) > 0 {
		return nil, errors.Errorf("meshes would share output directories: %s",
			strings.Join(lo.Uniq(lo.Map(dups, func(p string, _ int) string { return AssetName(p) })), ", "))
	}

	if err := os.MkdirAll(c.target, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create target directory %q", c.target)
	}

	results := make([]*Result, len(matches))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(c.cfg.Workers)
	for i, path := range matches {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := c.convert(path, c.seed+uint64(i))
			if err != nil {
				return errors.Wrapf(err, "failed to convert %q", path)
			}
			results[i] = res
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Convert converts a single mesh file.
func (c *Converter) Convert(ctx context.Context, meshPath string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.convert(meshPath, c.seed)
}

func (c *Converter) convert(meshPath string, seed uint64) (*Result, error) {
	name := AssetName(meshPath)
	if name == "" {
		return nil, errors.Errorf("cannot derive an asset name from %q", meshPath)
	}
	logger := c.logger.Sublogger(name)
	engine := c.newEngine(logger, seed, c.cfg.MaxSampleAttempts)

	mesh, err := engine.Load(meshPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load mesh %q", meshPath)
	}
	watertight := engine.IsWatertight(mesh)
	if !watertight {
		logger.Warnw("mesh is not watertight, volume and inertia may be wrong",
			"mesh", meshPath, "boundary_edges", mesh.BoundaryEdges())
	}

	outputFile := c.outputName
	if outputFile == "" {
		outputFile = filepath.Base(meshPath)
	}
	res := &Result{
		Name:       name,
		Source:     meshPath,
		OutputDir:  filepath.Join(c.target, name),
		Watertight: watertight,
	}
	res.MeshFile = filepath.Join(res.OutputDir, outputFile)
	res.URDFFile = filepath.Join(res.OutputDir, name+"."+urdf.Extension)
	res.MeshReference = res.MeshFile
	if c.cfg.RelativeMeshPath {
		res.MeshReference = outputFile
	}

	if err := os.MkdirAll(res.OutputDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create output directory %q", res.OutputDir)
	}

	if res.Normalize, err = Normalize(engine, mesh, c.cfg, logger); err != nil {
		return nil, err
	}
	logger.Debugw("normalized mesh", "scale", res.Normalize.Scale, "inverted", res.Normalize.Inverted,
		"volume", res.Normalize.Volume, "density", res.Normalize.Density)

	if err := engine.Export(mesh, res.MeshFile); err != nil {
		return nil, errors.Wrapf(err, "failed to export mesh to %q", res.MeshFile)
	}
	logger.Infof("name: %s", name)

	robot := urdf.NewRobot(name, res.Normalize.Mass, engine.InertiaTensor(mesh), res.MeshReference)
	if err := urdf.WriteFile(res.URDFFile, robot); err != nil {
		return nil, errors.Wrapf(err, "failed to write %q", res.URDFFile)
	}

	poses, err := SampleStablePoses(engine, mesh, c.cfg)
	switch {
	case errors.Is(err, spatialmath.ErrDegenerateHull):
		logger.Warnw("mesh has no three dimensional hull, writing no stable poses", "mesh", meshPath)
		poses = nil
	case err != nil:
		return nil, errors.Wrap(err, "failed to compute stable poses")
	}
	if err := c.writePoses(res, poses); err != nil {
		return nil, err
	}

	logger.Infof("finish %s", name)
	return res, nil
}

func (c *Converter) writePoses(res *Result, poses []spatialmath.StablePose) error {
	tfArray, probArray, err := poseArrays(poses)
	if err != nil {
		return err
	}
	if err := tfArray.WriteFile(filepath.Join(res.OutputDir, posesFile)); err != nil {
		return err
	}
	if err := probArray.WriteFile(filepath.Join(res.OutputDir, probFile)); err != nil {
		return err
	}
	res.Probabilities = probArray.Data
	if err := writeLog(filepath.Join(res.OutputDir, logFile), res.Probabilities); err != nil {
		return errors.Wrap(err, "failed to write log")
	}
	if c.cfg.PlotPoses {
		return writeProbabilityPlot(filepath.Join(res.OutputDir, plotFile), res.Name, res.Probabilities)
	}
	return nil
}
