// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/copyleftdev/dualopt/internal/optimization"
)

type Config struct {
	Environment string `env:"ENV" envDefault:"development"`
	HTTP        struct {
		Port            int           `env:"HTTP_PORT" envDefault:"8080"`
		ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
		WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
		IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
		ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	}
	Logging struct {
		Level  string `env:"LOG_LEVEL"`
		Output string `env:"LOG_OUTPUT" envDefault:"stderr"`
	}
	Solver struct {
		Method        string  `env:"SOLVER_METHOD" envDefault:"bfgs"`
		MaxIterations int     `env:"SOLVER_MAX_ITER"`
		GradTol       float64 `env:"SOLVER_GTOL"`
		C1            float64 `env:"LINESEARCH_C1"`
		C2            float64 `env:"LINESEARCH_C2"`
		AlphaMax      float64 `env:"LINESEARCH_ALPHA_MAX"`
		DeltaMax      float64 `env:"TRUST_DELTA_MAX"`
	}
	Server struct {
		HistoryLimit int `env:"SERVER_HISTORY_LIMIT" envDefault:"100"`
		// MaxDim and MaxIterations cap what a single request may ask for.
		MaxDim        int `env:"SERVER_MAX_DIM" envDefault:"100"`
		MaxIterations int `env:"SERVER_MAX_ITERATIONS" envDefault:"10000"`
	}
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
		if cfg.Environment == "development" {
			cfg.Logging.Level = "debug"
		}
	}

	if _, err := cfg.Method(); err != nil {
		return nil, fmt.Errorf("SOLVER_METHOD: %w", err)
	}
	if cfg.Server.HistoryLimit <= 0 {
		return nil, fmt.Errorf("SERVER_HISTORY_LIMIT must be positive, got %d", cfg.Server.HistoryLimit)
	}
	if cfg.Server.MaxDim <= 0 {
		return nil, fmt.Errorf("SERVER_MAX_DIM must be positive, got %d", cfg.Server.MaxDim)
	}
	if cfg.Server.MaxIterations <= 0 {
		return nil, fmt.Errorf("SERVER_MAX_ITERATIONS must be positive, got %d", cfg.Server.MaxIterations)
	}
	if cfg.Solver.MaxIterations > cfg.Server.MaxIterations {
		return nil, fmt.Errorf("SOLVER_MAX_ITER %d exceeds SERVER_MAX_ITERATIONS %d",
			cfg.Solver.MaxIterations, cfg.Server.MaxIterations)
	}

	return cfg, nil
}

// Method returns the configured default solver.
func (c *Config) Method() (optimization.Method, error) {
	return optimization.ParseMethod(c.Solver.Method)
}

// Settings returns the solver overrides. Unset values stay zero so solver
// defaults apply.
func (c *Config) Settings() optimization.Settings {
	return optimization.Settings{
		MaxIterations: c.Solver.MaxIterations,
		GradTol:       c.Solver.GradTol,
		C1:            c.Solver.C1,
		C2:            c.Solver.C2,
		AlphaMax:      c.Solver.AlphaMax,
		DeltaMax:      c.Solver.DeltaMax,
	}
}
