package descent

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"gonum.org/v1/gonum/optimize"

	"github.com/copyleftdev/dualopt/internal/optimization"
	"github.com/copyleftdev/dualopt/internal/optimization/catalog"
	"github.com/copyleftdev/dualopt/internal/optimization/dual"
	"github.com/copyleftdev/dualopt/internal/optimization/problem"
)

type minimizer interface {
	Minimize(x0 []float64, p problem.Gradient) (*optimization.Solution, error)
}

func mustLookup(t testing.TB, name string) catalog.Entry {
	t.Helper()
	e, err := catalog.Lookup(name)
	require.NoError(t, err)
	return e
}

func TestTrigConvergence(t *testing.T) {
	trig := mustLookup(t, "trig")
	want := []float64{1.318116071652818, 0.2013579207903308, 1.6}

	tests := []struct {
		name   string
		solver minimizer
		tol    float64
	}{
		{name: "bfgs", solver: NewBFGS(), tol: 1e-6},
		{name: "ncg", solver: NewNCG(), tol: 1e-5},
		{name: "steepest", solver: NewSteepestDescent(), tol: 1e-4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sol, err := tt.solver.Minimize(trig.StartPoint(), trig.Gradient(3))
			require.NoError(t, err)
			require.True(t, sol.Success, sol.String())
			assert.InDeltaSlice(t, want, sol.X, tt.tol)
			assert.InDelta(t, 0, sol.F, 1e-10)
			assert.Greater(t, sol.Iterations, 0)
			assert.Equal(t, sol.FunctionEvals, sol.GradientEvals)
			assert.GreaterOrEqual(t, sol.FunctionEvals, sol.Iterations+1)
			assert.Zero(t, sol.HessianEvals)
		})
	}
}

func TestSteepestDescentIsSlowest(t *testing.T) {
	trig := mustLookup(t, "trig")

	sd, err := NewSteepestDescent().Minimize(trig.StartPoint(), trig.Gradient(3))
	require.NoError(t, err)
	cg, err := NewNCG().Minimize(trig.StartPoint(), trig.Gradient(3))
	require.NoError(t, err)
	bfgs, err := NewBFGS().Minimize(trig.StartPoint(), trig.Gradient(3))
	require.NoError(t, err)

	assert.Greater(t, sd.Iterations, cg.Iterations)
	assert.Greater(t, sd.Iterations, bfgs.Iterations)
}

func TestRosenbrock(t *testing.T) {
	rosen := mustLookup(t, "rosenbrock")

	for name, s := range map[string]minimizer{"bfgs": NewBFGS(), "ncg": NewNCG()} {
		t.Run(name, func(t *testing.T) {
			sol, err := s.Minimize(rosen.StartPoint(), rosen.Gradient(2))
			require.NoError(t, err)
			require.True(t, sol.Success, sol.String())
			assert.InDeltaSlice(t, []float64{1, 1}, sol.X, 1e-4)
		})
	}
}

func TestQuadraticSingleStep(t *testing.T) {
	quad := mustLookup(t, "quadratic")

	for name, s := range map[string]minimizer{
		"bfgs":     NewBFGS(),
		"ncg":      NewNCG(),
		"steepest": NewSteepestDescent(),
	} {
		t.Run(name, func(t *testing.T) {
			sol, err := s.Minimize(quad.StartPoint(), quad.Gradient(3))
			require.NoError(t, err)
			assert.True(t, sol.Success)
			assert.Equal(t, 1, sol.Iterations)
			assert.InDeltaSlice(t, []float64{10, 2, -5}, sol.X, 1e-12)
		})
	}
}

func TestStartAtMinimizer(t *testing.T) {
	quad := mustLookup(t, "quadratic")

	sol, err := NewBFGS().Minimize([]float64{10, 2, -5}, quad.Gradient(3))
	require.NoError(t, err)
	assert.True(t, sol.Success)
	assert.Zero(t, sol.Iterations)
	assert.Equal(t, 1, sol.FunctionEvals)
	assert.Equal(t, []float64{10, 2, -5}, sol.X)
}

func TestIterationBudget(t *testing.T) {
	trig := mustLookup(t, "trig")
	sd := NewSteepestDescent()
	sd.IMax = 2

	sol, err := sd.Minimize(trig.StartPoint(), trig.Gradient(3))
	require.NoError(t, err)
	assert.False(t, sol.Success)
	assert.Equal(t, 2, sol.Iterations)
}

func TestInvalidInput(t *testing.T) {
	trig := mustLookup(t, "trig")

	tests := []struct {
		name string
		x0   []float64
		want error
	}{
		{name: "empty", x0: nil, want: optimization.ErrInvalidInput},
		{name: "nan", x0: []float64{1, math.NaN(), 1}, want: optimization.ErrInvalidInput},
		{name: "dimension", x0: []float64{1, 1}, want: optimization.ErrDimensionMismatch},
	}

	for _, tt := range tests {
		for name, s := range map[string]minimizer{"bfgs": NewBFGS(), "ncg": NewNCG(), "steepest": NewSteepestDescent()} {
			t.Run(tt.name+"/"+name, func(t *testing.T) {
				sol, err := s.Minimize(tt.x0, trig.Gradient(3))
				require.Error(t, err)
				assert.Nil(t, sol)
				assert.True(t, errors.Is(err, tt.want))
			})
		}
	}
}

func TestNaNObjectiveStops(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	p := problem.NewScalar(2, func(x []dual.DualScalar) dual.DualScalar {
		return x[0].Log().Add(x[1])
	})

	b := NewBFGS()
	b.Logger = zap.New(core)
	sol, err := b.Minimize([]float64{-1, 0}, p)
	require.NoError(t, err)
	assert.False(t, sol.Success)
	assert.Zero(t, sol.Iterations)
	assert.Equal(t, 1, logs.FilterMessage("line search failed").Len())
}

func TestBFGSSkipsFlatCurvature(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	linear := problem.NewScalar(1, func(x []dual.DualScalar) dual.DualScalar {
		return x[0].Neg()
	})

	b := NewBFGS()
	b.IMax = 5
	b.Logger = zap.New(core)
	sol, err := b.Minimize([]float64{0}, linear)
	require.NoError(t, err)
	assert.False(t, sol.Success)
	assert.Equal(t, 5, sol.Iterations)
	require.Len(t, sol.X, 1)
	assert.False(t, math.IsNaN(sol.X[0]) || math.IsInf(sol.X[0], 0), "x=%v", sol.X)
	assert.False(t, math.IsNaN(sol.F) || math.IsInf(sol.F, 0), "f=%v", sol.F)
	assert.Greater(t, sol.X[0], 0.0)

	skips := logs.FilterMessage("skipping inverse Hessian update")
	assert.Equal(t, sol.Iterations, skips.Len())
	for _, e := range skips.All() {
		assert.Equal(t, "bfgs", e.LoggerName)
	}
}

func TestNCGRosenbrockFromOrigin(t *testing.T) {
	rosen := mustLookup(t, "rosenbrock")
	cg := NewNCG()
	cg.Logger = zaptest.NewLogger(t)

	sol, err := cg.Minimize([]float64{0, 0}, rosen.Gradient(2))
	require.NoError(t, err)
	assert.True(t, sol.Success, sol.String())
	assert.InDeltaSlice(t, []float64{1, 1}, sol.X, 1e-4)
}

func TestSharedLineSearchCounters(t *testing.T) {
	trig := mustLookup(t, "trig")
	b := NewBFGS()

	first, err := b.Minimize(trig.StartPoint(), trig.Gradient(3))
	require.NoError(t, err)
	second, err := b.Minimize(trig.StartPoint(), trig.Gradient(3))
	require.NoError(t, err)

	assert.Equal(t, first.FunctionEvals, second.FunctionEvals, "counts are per run")
	assert.Equal(t, first.Iterations, second.Iterations)
}

func TestCountsMatchProblemCalls(t *testing.T) {
	trig := mustLookup(t, "trig")
	p := problem.Count(trig.Gradient(3))

	sol, err := NewNCG().Minimize(trig.StartPoint(), p)
	require.NoError(t, err)
	assert.Equal(t, p.Evals, sol.FunctionEvals)
	assert.Equal(t, p.Grads+p.Diffs, sol.GradientEvals)
}

// The gonum BFGS implementation, fed the same automatic derivatives, is the
// reference answer.
func TestAgreesWithGonum(t *testing.T) {
	for _, name := range []string{"trig", "rosenbrock"} {
		t.Run(name, func(t *testing.T) {
			e := mustLookup(t, name)
			n := len(e.Start)
			p := e.Gradient(n)

			res, err := optimize.Minimize(optimize.Problem{
				Func: func(x []float64) float64 {
					p.UpdateX(x)
					return p.EvalReal()
				},
				Grad: func(grad, x []float64) {
					p.UpdateX(x)
					p.Grad(grad)
				},
			}, e.StartPoint(), nil, &optimize.BFGS{})
			require.NotNil(t, res)
			if err != nil {
				t.Logf("gonum: %v", err)
			}

			sol, err := NewBFGS().Minimize(e.StartPoint(), e.Gradient(n))
			require.NoError(t, err)
			assert.InDeltaSlice(t, res.X, sol.X, 1e-5)
		})
	}
}

func benchmarkSolver(b *testing.B, s minimizer, name string) {
	e := mustLookup(b, name)
	for i := 0; i < b.N; i++ {
		if _, err := s.Minimize(e.StartPoint(), e.Gradient(len(e.Start))); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSteepestDescentTrig(b *testing.B) { benchmarkSolver(b, NewSteepestDescent(), "trig") }
func BenchmarkNCGTrig(b *testing.B) { benchmarkSolver(b, NewNCG(), "trig") }
func BenchmarkBFGSTrig(b *testing.B) { benchmarkSolver(b, NewBFGS(), "trig") }
func BenchmarkBFGSRosenbrock(b *testing.B) { benchmarkSolver(b, NewBFGS(), "rosenbrock") }
