// Package descent implements line-search minimizers: steepest descent,
// Polak-Ribière nonlinear conjugate gradient and BFGS. They share one loop
// and differ only in how the next search direction is chosen.
package descent

import (
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/copyleftdev/dualopt/internal/optimization"
	"github.com/copyleftdev/dualopt/internal/optimization/linesearch"
	"github.com/copyleftdev/dualopt/internal/optimization/problem"
)

// state is the per-run solver state. Every slice is allocated once at the
// start of a run.
type state struct {
	x    []float64 // current iterate
	p    []float64 // search direction
	g    []float64 // gradient at x
	gOld []float64 // gradient at the previous iterate
	s    []float64 // last step, alpha*p

	f, fOld float64
	alpha   float64
	iter    int
}

// rule chooses search directions for the shared loop.
type rule interface {
	// start sets the first direction from st.g.
	start(st *state)
	// guess returns the first trial step for the line search.
	guess(st *state) float64
	// update sets st.p after a step has been taken and st.g refreshed.
	update(st *state)
}

type driver struct {
	name       string
	iMax       int
	gTol       float64
	lineSearch *linesearch.Wolfe
	logger     *zap.Logger
}

func (d *driver) minimize(x0 []float64, p problem.Gradient, r rule) (*optimization.Solution, error) {
	if err := problem.Validate(x0, p); err != nil {
		return nil, err
	}
	logger := d.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named(d.name)

	n := len(x0)
	st := &state{
		x:    append(make([]float64, 0, n), x0...),
		p:    make([]float64, n),
		g:    make([]float64, n),
		gOld: make([]float64, n),
		s:    make([]float64, n),
	}
	ls := d.lineSearch
	lsFuncStart, lsGradStart := ls.FuncEvals, ls.GradEvals
	funcEvals, gradEvals := 0, 0

	evaluate := func() {
		p.UpdateX(st.x)
		st.f = p.EvalReal()
		p.Grad(st.g)
		funcEvals++
		gradEvals++
	}

	evaluate()
	r.start(st)

	success := false
	for {
		if optimization.Converged(st.g, d.gTol) {
			success = true
			break
		}
		if st.iter >= d.iMax {
			break
		}

		alpha, err := ls.FindAlpha(linesearch.Step{
			X: st.x, P: st.p, F: st.f, G: st.g, Alpha1: r.guess(st),
		}, p)
		if err != nil {
			logger.Warn("line search failed",
				zap.Int("iteration", st.iter),
				zap.Float64("f", st.f),
				zap.Error(err),
			)
			break
		}
		st.iter++
		st.alpha = alpha

		floats.ScaleTo(st.s, alpha, st.p)
		floats.Add(st.x, st.s)
		copy(st.gOld, st.g)
		st.fOld = st.f
		evaluate()
		r.update(st)

		logger.Debug("iteration",
			zap.Int("iteration", st.iter),
			zap.Float64("alpha", alpha),
			zap.Float64("f", st.f),
			zap.Float64("gnorm", optimization.GradientNorm(st.g)),
		)
	}

	sol := &optimization.Solution{
		X:             st.x,
		F:             st.f,
		Success:       success,
		Iterations:    st.iter,
		FunctionEvals: funcEvals + ls.FuncEvals - lsFuncStart,
		GradientEvals: gradEvals + ls.GradEvals - lsGradStart,
	}
	logger.Info("minimization finished",
		zap.Bool("success", sol.Success),
		zap.Int("iterations", sol.Iterations),
		zap.Float64("f", sol.F),
		zap.Int("function_evals", sol.FunctionEvals),
		zap.Int("gradient_evals", sol.GradientEvals),
	)
	return sol, nil
}

// steepest sets p = -g.
func steepest(st *state) {
	floats.ScaleTo(st.p, -1, st.g)
}

// decreaseGuess is the initial step 2(f_k - f_{k-1})/⟨g, p⟩, which assumes the
// first-order change of the last step repeats. When the guess is not a
// positive finite number it returns 1.
//
// The first iteration always tries the unit step. There is no f_{-1}, and
// seeding one with a constant such as 1 would tie the step to the scale of f.
func decreaseGuess(st *state) float64 {
	if st.iter == 0 {
		return 1
	}
	a := 2 * (st.f - st.fOld) / floats.Dot(st.g, st.p)
	if !(a > 0) || math.IsInf(a, 0) {
		return 1
	}
	return a
}

func lineSearchWithC2(ls *linesearch.Wolfe, c2 float64) *linesearch.Wolfe {
	if ls != nil {
		return ls
	}
	ls = linesearch.New()
	ls.C2 = c2
	return ls
}
