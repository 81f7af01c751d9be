package optimization

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethod(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Method
		wantErr bool
	}{
		{name: "steepest", input: "steepest", want: SteepestDescent},
		{name: "steepest alias", input: "SD", want: SteepestDescent},
		{name: "ncg", input: " ncg ", want: NCG},
		{name: "bfgs", input: "BFGS", want: BFGS},
		{name: "trust", input: "trust-ncg", want: TrustNCG},
		{name: "unknown", input: "nelder-mead", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMethod(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMethodsNeedHessian(t *testing.T) {
	for _, m := range Methods() {
		assert.Equal(t, m == TrustNCG, m.NeedsHessian(), string(m))
	}
}

func TestConverged(t *testing.T) {
	tests := []struct {
		name string
		g    []float64
		tol  float64
		want bool
	}{
		{name: "zero gradient", g: []float64{0, 0}, tol: 1e-6, want: true},
		{name: "below tolerance", g: []float64{3e-7, 4e-7}, tol: 1e-6, want: true},
		{name: "at tolerance", g: []float64{6e-7, 8e-7}, tol: 1e-6, want: false},
		{name: "large gradient", g: []float64{1, 2, 3}, tol: 1e-6, want: false},
		{name: "nan gradient", g: []float64{math.NaN(), 0}, tol: 1e-6, want: false},
		{name: "inf gradient", g: []float64{math.Inf(1)}, tol: 1e-6, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Converged(tt.g, tt.tol))
		})
	}
}

func TestGradientNorm(t *testing.T) {
	assert.InDelta(t, 5.0, GradientNorm([]float64{3, 4}), 1e-12)
	assert.InDelta(t, 0.0, GradientNorm([]float64{0}), 1e-12)
}

func TestSolutionString(t *testing.T) {
	s := &Solution{X: []float64{1, 2}, F: 0.5, Success: true, Iterations: 3, FunctionEvals: 4, GradientEvals: 5}
	assert.Equal(t, "success=true iterations=3 f=0.5 x=[1 2] evals(f=4 g=5 h=0)", s.String())
}

func TestSettingsMerge(t *testing.T) {
	base := Settings{MaxIterations: 50, GradTol: 1e-8, C2: 0.5}
	got := base.Merge(Settings{MaxIterations: 10, C1: 1e-3, DeltaMax: -1})

	assert.Equal(t, Settings{MaxIterations: 10, GradTol: 1e-8, C1: 1e-3, C2: 0.5, DeltaMax: -1}, got)
	assert.Equal(t, 50, base.MaxIterations, "receiver is a copy")
	assert.Equal(t, base, base.Merge(Settings{}))
}

func TestSolutionJSONNonFinite(t *testing.T) {
	sol := &Solution{
		X:             []float64{1e100, math.NaN(), math.Inf(-1)},
		F:             math.Inf(1),
		Iterations:    3,
		FunctionEvals: 4,
	}

	data, err := json.Marshal(sol)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"x": [1e+100, "NaN", "-Inf"],
		"f": "+Inf",
		"success": false,
		"iterations": 3,
		"function_evals": 4,
		"gradient_evals": 0,
		"hessian_evals": 0
	}`, string(data))

	var back Solution
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, 1e100, back.X[0])
	assert.True(t, math.IsNaN(back.X[1]))
	assert.True(t, math.IsInf(back.X[2], -1))
	assert.True(t, math.IsInf(back.F, 1))
	assert.Equal(t, 3, back.Iterations)
	assert.Equal(t, 4, back.FunctionEvals)
}

func TestSolutionJSONFinite(t *testing.T) {
	data, err := json.Marshal(Solution{X: []float64{1, 0.5}, F: 0.25, Success: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":[1,0.5],"f":0.25,"success":true,"iterations":0,
		"function_evals":0,"gradient_evals":0,"hessian_evals":0}`, string(data))

	var bad JSONFloat
	assert.Error(t, json.Unmarshal([]byte(`"infinity"`), &bad))
}
