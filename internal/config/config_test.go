package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyleftdev/dualopt/internal/optimization"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 30*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 100, cfg.Server.HistoryLimit)
	assert.Equal(t, 100, cfg.Server.MaxDim)
	assert.Equal(t, 10000, cfg.Server.MaxIterations)

	m, err := cfg.Method()
	require.NoError(t, err)
	assert.Equal(t, optimization.BFGS, m)
	assert.Equal(t, optimization.Settings{}, cfg.Settings())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("SOLVER_METHOD", "trust")
	t.Setenv("SOLVER_MAX_ITER", "250")
	t.Setenv("SOLVER_GTOL", "1e-8")
	t.Setenv("LINESEARCH_C1", "0.001")
	t.Setenv("LINESEARCH_C2", "0.5")
	t.Setenv("LINESEARCH_ALPHA_MAX", "50")
	t.Setenv("TRUST_DELTA_MAX", "10")
	t.Setenv("SERVER_HISTORY_LIMIT", "7")
	t.Setenv("SERVER_MAX_DIM", "12")
	t.Setenv("SERVER_MAX_ITERATIONS", "500")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 7, cfg.Server.HistoryLimit)
	assert.Equal(t, 12, cfg.Server.MaxDim)
	assert.Equal(t, 500, cfg.Server.MaxIterations)

	m, err := cfg.Method()
	require.NoError(t, err)
	assert.Equal(t, optimization.TrustNCG, m)
	assert.Equal(t, optimization.Settings{
		MaxIterations: 250,
		GradTol:       1e-8,
		C1:            0.001,
		C2:            0.5,
		AlphaMax:      50,
		DeltaMax:      10,
	}, cfg.Settings())
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{name: "unknown method", key: "SOLVER_METHOD", value: "simplex"},
		{name: "history limit", key: "SERVER_HISTORY_LIMIT", value: "0"},
		{name: "malformed number", key: "SOLVER_GTOL", value: "tiny"},
		{name: "dimension cap", key: "SERVER_MAX_DIM", value: "0"},
		{name: "iteration cap", key: "SERVER_MAX_ITERATIONS", value: "-1"},
		{name: "default above cap", key: "SOLVER_MAX_ITER", value: "20000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
