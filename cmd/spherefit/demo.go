package main

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/thomaspinder/GeometricKernels/kern"
	"github.com/thomaspinder/GeometricKernels/mesh"
	"github.com/thomaspinder/GeometricKernels/model"
	"github.com/thomaspinder/GeometricKernels/sample"
	"github.com/thomaspinder/GeometricKernels/space"
	"github.com/thomaspinder/GeometricKernels/utils"
)

// Result carries everything a demo run computes.
type Result struct {
	Vertices int
	Faces    int

	// InitialMLL and Grad are evaluated at the initial parameters.
	InitialMLL float64
	Grad       model.Grad

	// Params are the parameters used for prediction; fitted when
	// cfg.Fit is set, the initial ones otherwise. MLL is evaluated
	// at Params.
	Params model.Params
	MLL    float64
	Fitted bool

	// Mean and Variance are the predictive moments at every vertex.
	Mean     []float64
	Variance []float64
}

func buildMesh(cfg *Config) (*mesh.Mesh, error) {
	switch cfg.Mesh {
	case "uv":
		return mesh.UVSphere(cfg.Resolution)
	case "ico":
		return mesh.IcoSphere(cfg.Resolution)
	case "sdf":
		return mesh.Sphere(1, cfg.Resolution)
	}
	return nil, fmt.Errorf("unknown mesh kind %q", cfg.Mesh)
}

// run executes the workflow: build the mesh and its kernel, draw
// synthetic observations from the prior, evaluate the marginal log
// likelihood and its gradient, optionally fit, and predict at every
// vertex.
func run(cfg *Config, logger *zap.Logger) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	res := &Result{}

	start := time.Now()
	m, err := buildMesh(cfg)
	if err != nil {
		return nil, err
	}
	res.Vertices = m.NumVertices()
	res.Faces = m.NumFaces()
	logger.Info("mesh built",
		zap.String("kind", cfg.Mesh),
		zap.Int("resolution", cfg.Resolution),
		zap.Int("vertices", res.Vertices),
		zap.Int("faces", res.Faces),
		zap.Duration("elapsed", time.Since(start)))

	start = time.Now()
	sp, err := space.NewMesh(m)
	if err != nil {
		return nil, err
	}
	k, err := kern.NewMaternKL(sp, cfg.Truncation)
	if err != nil {
		return nil, err
	}
	logger.Info("kernel built",
		zap.Int("truncation", cfg.Truncation),
		zap.Duration("elapsed", time.Since(start)))

	noise, err := model.NewPositive(cfg.Noise)
	if err != nil {
		return nil, err
	}
	params := model.DefaultParams()
	params.Noise = noise

	x, y, err := sample.Synthetic(k, params.Kernel(), cfg.NumData, cfg.Jitter, cfg.Seed)
	if err != nil {
		return nil, err
	}
	data, err := model.NewDataset(x, y)
	if err != nil {
		return nil, err
	}
	logger.Info("synthetic data drawn",
		zap.Uint64("seed", cfg.Seed),
		zap.Int("observations", data.NumData()))

	tr, err := cfg.transform()
	if err != nil {
		return nil, err
	}
	post, err := model.NewPosterior(
		model.Prior{Kernel: k, Mean: model.ConstantMean},
		model.GaussianLikelihood{},
		model.Config{Jitter: cfg.Jitter, Transform: tr},
	)
	if err != nil {
		return nil, err
	}

	start = time.Now()
	mll, grad, err := post.LogMarginalLikelihoodGrad(params, data)
	if err != nil {
		return nil, err
	}
	res.InitialMLL = mll
	res.Grad = grad
	logger.Info("marginal log likelihood",
		zap.Float64("mll", mll),
		zap.Float64("grad_variance", grad.Variance),
		zap.Float64("grad_lengthscale", grad.Lengthscale),
		zap.Float64("grad_nu", grad.Nu),
		zap.Float64("grad_noise", grad.Noise),
		zap.Float64("grad_mean", grad.Mean),
		zap.Duration("elapsed", time.Since(start)))

	res.Params = params
	res.MLL = mll
	if cfg.Fit {
		start = time.Now()
		fitted, err := post.Fit(params, data, model.FitOptions{MaxIters: cfg.MaxIters})
		if err != nil {
			return nil, err
		}
		after, err := post.LogMarginalLikelihood(fitted, data)
		if err != nil {
			return nil, err
		}
		res.Params = fitted
		res.MLL = after
		res.Fitted = true
		logger.Info("hyperparameters fitted",
			zap.Float64("mll", after),
			zap.Float64("variance", fitted.Variance.Value()),
			zap.Float64("lengthscale", fitted.Lengthscale.Value()),
			zap.Float64("nu", fitted.Nu.Value()),
			zap.Float64("noise", fitted.Noise.Value()),
			zap.Float64("mean", fitted.Mean),
			zap.Duration("elapsed", time.Since(start)))
	}

	start = time.Now()
	query := utils.Range(k.NumPoints())
	res.Mean, res.Variance, err = post.Predict(res.Params, data, query)
	if err != nil {
		return nil, err
	}
	logger.Info("predicted at all vertices",
		zap.Int("queries", len(query)),
		zap.Float64("mean_min", floats.Min(res.Mean)),
		zap.Float64("mean_max", floats.Max(res.Mean)),
		zap.Float64("variance_min", floats.Min(res.Variance)),
		zap.Float64("variance_max", floats.Max(res.Variance)),
		zap.Duration("elapsed", time.Since(start)))

	return res, nil
}
