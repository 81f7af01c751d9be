package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/copyleftdev/dualopt/internal/optimization"
	"github.com/copyleftdev/dualopt/internal/optimization/problem"
)

func TestLookup(t *testing.T) {
	e, err := Lookup(" Trig ")
	require.NoError(t, err)
	assert.Equal(t, "trig", e.Name)
	assert.Equal(t, 3, e.Dim)

	_, err = Lookup("himmelblau")
	require.Error(t, err)
	assert.True(t, errors.Is(err, optimization.ErrInvalidInput))
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"quadratic", "rosenbrock", "sphere", "trig"}, Names())
	for i, e := range All() {
		assert.Equal(t, Names()[i], e.Name)
	}
}

func TestStartPointIsCopy(t *testing.T) {
	e, err := Lookup("rosenbrock")
	require.NoError(t, err)
	x := e.StartPoint()
	x[0] = 99
	assert.Equal(t, -1.2, e.StartPoint()[0])
}

func TestMinimizersAreStationary(t *testing.T) {
	for _, e := range All() {
		t.Run(e.Name, func(t *testing.T) {
			n := len(e.Start)
			xStar := e.Minimizer(n)
			require.Len(t, xStar, n)

			gp := e.Gradient(n)
			require.NoError(t, problem.Validate(e.StartPoint(), gp))
			gp.UpdateX(xStar)
			assert.InDelta(t, 0, gp.EvalReal(), 1e-15)
			g := make([]float64, n)
			gp.Grad(g)
			assert.InDelta(t, 0, optimization.GradientNorm(g), 1e-12)

			hp := e.Hessian(n)
			hp.UpdateX(xStar)
			hp.Grad(g)
			assert.InDelta(t, 0, optimization.GradientNorm(g), 1e-12)

			h := mat.NewSymDense(n, nil)
			hp.Hess(h)
			var eig mat.EigenSym
			require.True(t, eig.Factorize(h, false))
			for _, v := range eig.Values(nil) {
				assert.Greater(t, v, 0.0, "minimizer must be strict")
			}
		})
	}
}

func TestRosenbrockDerivatives(t *testing.T) {
	e, err := Lookup("rosenbrock")
	require.NoError(t, err)

	x := []float64{-1.2, 1}
	p := e.Hessian(2)
	p.UpdateX(x)

	// f = 24.2, ∇f = (-215.6, -88), ∇²f = [[1330, 480], [480, 200]].
	assert.InDelta(t, 24.2, p.EvalReal(), 1e-12)
	g := make([]float64, 2)
	p.Grad(g)
	assert.InDeltaSlice(t, []float64{-215.6, -88}, g, 1e-10)

	h := mat.NewSymDense(2, nil)
	p.Hess(h)
	assert.True(t, mat.EqualApprox(mat.NewSymDense(2, []float64{1330, 480, 480, 200}), h, 1e-9))
}

func TestSphereAnyDimension(t *testing.T) {
	e, err := Lookup("sphere")
	require.NoError(t, err)

	p := e.Gradient(5)
	x := []float64{1, 2, 3, 4, 5}
	p.UpdateX(x)
	assert.Equal(t, 55.0, p.EvalReal())

	g := make([]float64, 5)
	p.Grad(g)
	assert.Equal(t, []float64{2, 4, 6, 8, 10}, g)
}

func TestFixedDimensionIgnoresRequest(t *testing.T) {
	e, err := Lookup("trig")
	require.NoError(t, err)

	err = problem.Validate([]float64{1, 1}, e.Gradient(2))
	assert.True(t, errors.Is(err, optimization.ErrDimensionMismatch))
}
