package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/thomaspinder/GeometricKernels/model"
)

// Config holds a demo run's settings. Precedence is defaults, then the
// config file, then command line flags.
type Config struct {
	// Mesh selects the sphere generator: "uv", "ico" or "sdf".
	Mesh string `yaml:"mesh"`
	// Resolution is the UV sphere resolution, the icosphere frequency
	// or the marching cubes cell count, depending on Mesh.
	Resolution int `yaml:"resolution"`
	// Truncation is the number of Laplacian eigenpairs the kernel keeps.
	Truncation int `yaml:"truncation"`
	// NumData is the number of synthetic observations to draw.
	NumData int `yaml:"num_data"`
	// Seed feeds the random stream behind the synthetic draw.
	Seed uint64 `yaml:"seed"`
	// Noise is the observation noise variance the model starts from.
	Noise float64 `yaml:"noise"`
	// Jitter stabilizes every covariance factorization.
	Jitter float64 `yaml:"jitter"`
	// Transform names the positivity reparameterization: "softplus"
	// or "exp".
	Transform string `yaml:"transform"`
	// Fit optimizes the hyperparameters before predicting.
	Fit bool `yaml:"fit"`
	// MaxIters caps fit iterations; 0 leaves the optimizer to its own
	// convergence tests.
	MaxIters int `yaml:"max_iters"`
}

// DefaultConfig returns the reference workflow's constants: a
// resolution-40 UV sphere, 20 eigenpairs, 25 observations, seed 123.
func DefaultConfig() *Config {
	return &Config{
		Mesh:       "uv",
		Resolution: 40,
		Truncation: 20,
		NumData:    25,
		Seed:       123,
		Noise:      1,
		Jitter:     1e-6,
		Transform:  "softplus",
	}
}

// Load reads the YAML file at path over the defaults. A missing file
// is not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks every field before a run.
func (c *Config) Validate() error {
	switch c.Mesh {
	case "uv", "ico", "sdf":
	default:
		return fmt.Errorf("unknown mesh kind %q, want uv, ico or sdf", c.Mesh)
	}
	if c.Resolution < 1 {
		return fmt.Errorf("resolution %d, want at least 1", c.Resolution)
	}
	if c.Truncation < 1 {
		return fmt.Errorf("truncation %d, want at least 1", c.Truncation)
	}
	if c.NumData < 1 {
		return fmt.Errorf("num_data %d, want at least 1", c.NumData)
	}
	if !(c.Noise > 0) {
		return fmt.Errorf("noise %v, want positive", c.Noise)
	}
	if !(c.Jitter >= 0) {
		return fmt.Errorf("jitter %v, want non-negative", c.Jitter)
	}
	if _, err := c.transform(); err != nil {
		return err
	}
	return nil
}

func (c *Config) transform() (model.Transform, error) {
	switch c.Transform {
	case "softplus":
		return model.Softplus{}, nil
	case "exp":
		return model.Exp{}, nil
	}
	return nil, fmt.Errorf("unknown transform %q, want softplus or exp", c.Transform)
}
