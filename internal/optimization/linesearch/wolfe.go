// Package linesearch finds step lengths satisfying the strong Wolfe
// conditions (Nocedal & Wright, algorithms 3.5 and 3.6).
package linesearch

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/copyleftdev/dualopt/internal/optimization"
	"github.com/copyleftdev/dualopt/internal/optimization/dual"
	"github.com/copyleftdev/dualopt/internal/optimization/problem"
)

var (
	// ErrZoomExhausted is returned when zoom runs out of iterations without
	// finding an acceptable step.
	ErrZoomExhausted = fmt.Errorf("zoom exhausted: %w", optimization.ErrLineSearch)
	// ErrNotDescent is returned when the search direction does not decrease
	// the objective at α = 0.
	ErrNotDescent = fmt.Errorf("not a descent direction: %w", optimization.ErrLineSearch)
)

// Defaults used by New.
const (
	DefaultC1       = 1e-4
	DefaultC2       = 0.9
	DefaultAlphaMax = 1e3
	DefaultIMax     = 100
)

// Step is the state a solver hands to the line search for one iteration.
type Step struct {
	// X is the current iterate and P the search direction.
	X, P []float64
	// F and G are the objective value and gradient at X.
	F float64
	G []float64
	// Alpha1 is the first trial step.
	Alpha1 float64
}

// Wolfe is a strong-Wolfe line search. The evaluation counters accumulate
// across calls; solvers read them once a run finishes.
type Wolfe struct {
	C1       float64
	C2       float64
	AlphaMax float64
	IMax     int

	FuncEvals int
	GradEvals int

	prob problem.Gradient
	s    Step
	phi0 dual.DualScalar
}

// New returns a line search with the default constants.
func New() *Wolfe {
	return &Wolfe{C1: DefaultC1, C2: DefaultC2, AlphaMax: DefaultAlphaMax, IMax: DefaultIMax}
}

// Phi0 returns φ(0) and φ'(0) cached by the last FindAlpha call.
func (w *Wolfe) Phi0() dual.DualScalar {
	return w.phi0
}

// FindAlpha returns a step length along s.P. Running out of bracketing
// trials, or nearing AlphaMax, returns the last trial without error.
func (w *Wolfe) FindAlpha(s Step, p problem.Gradient) (float64, error) {
	w.s = s
	w.prob = p
	w.phi0 = dual.DualScalar{Real: s.F, Du: floats.Dot(s.G, s.P)}
	if !(w.phi0.Du < 0) {
		return 0, optimization.WrapErrorf(ErrNotDescent, "φ'(0) = %g", w.phi0.Du).
			WithComponent("linesearch").WithOperation("FindAlpha")
	}

	alpha := s.Alpha1
	if !(alpha > 0) || math.IsInf(alpha, 0) {
		alpha = 1
	}
	alpha = math.Min(alpha, w.AlphaMax)

	prevAlpha, prev := 0.0, w.phi0
	for i := 1; ; i++ {
		cur := w.eval(alpha)

		if cur.Real > w.phi0.Real+w.C1*alpha*w.phi0.Du || (i > 1 && cur.Real >= prev.Real) {
			return w.zoom(prevAlpha, prev, alpha, cur)
		}
		if math.Abs(cur.Du) <= -w.C2*w.phi0.Du {
			return alpha, nil
		}
		if cur.Du >= 0 {
			return w.zoom(alpha, cur, prevAlpha, prev)
		}
		if i >= w.IMax || math.Abs((alpha-w.AlphaMax)/w.AlphaMax) < 1e-2 {
			return alpha, nil
		}

		prevAlpha, prev = alpha, cur
		alpha = math.Min(2*alpha, w.AlphaMax)
	}
}

// zoom narrows [lo, hi], where lo always holds the lower objective value and
// the two ends may come in either order along the line.
func (w *Wolfe) zoom(lo float64, phiLo dual.DualScalar, hi float64, phiHi dual.DualScalar) (float64, error) {
	for j := 0; j < w.IMax; j++ {
		alpha := w.trial(lo, phiLo, hi, phiHi)
		cur := w.eval(alpha)

		if cur.Real > w.phi0.Real+w.C1*alpha*w.phi0.Du || cur.Real >= phiLo.Real {
			hi, phiHi = alpha, cur
			continue
		}
		if math.Abs(cur.Du) <= -w.C2*w.phi0.Du {
			return alpha, nil
		}
		if cur.Du*(hi-lo) >= 0 {
			hi, phiHi = lo, phiLo
		}
		lo, phiLo = alpha, cur
	}
	return 0, optimization.WrapErrorf(ErrZoomExhausted, "no acceptable step after %d trials", w.IMax).
		WithComponent("linesearch").WithOperation("FindAlpha")
}

// trial interpolates between the bracket ends taken in increasing order and
// bisects when the cubic minimizer is undefined or leaves the bracket.
func (w *Wolfe) trial(lo float64, phiLo dual.DualScalar, hi float64, phiHi dual.DualScalar) float64 {
	a, b, phiA, phiB := lo, hi, phiLo, phiHi
	if a > b {
		a, b, phiA, phiB = b, a, phiB, phiA
	}
	alpha := w.CubicInterpolation(a, phiA, b, phiB)
	if math.IsNaN(alpha) || alpha <= a || alpha >= b {
		return 0.5 * (a + b)
	}
	return alpha
}

// CubicInterpolation returns the minimizer of the cubic matching φ and φ'
// at a0 < a1 (Nocedal & Wright), clamped to AlphaMax.
func (w *Wolfe) CubicInterpolation(a0 float64, phi0 dual.DualScalar, a1 float64, phi1 dual.DualScalar) float64 {
	d1 := phi0.Du + phi1.Du - 3*(phi0.Real-phi1.Real)/(a0-a1)
	d2 := math.Sqrt(d1*d1 - phi0.Du*phi1.Du)
	alpha := a1 - (a1-a0)*(phi1.Du+d2-d1)/(phi1.Du-phi0.Du+2*d2)
	return math.Min(alpha, w.AlphaMax)
}

// eval returns φ(α) and φ'(α), reusing the cached φ(0).
func (w *Wolfe) eval(alpha float64) dual.DualScalar {
	if alpha == 0 {
		return w.phi0
	}
	w.FuncEvals++
	w.GradEvals++
	w.prob.MoveStep(w.s.X, w.s.P, alpha)
	return dual.DualScalar{Real: w.prob.EvalReal(), Du: w.prob.Diff()}
}

// IsFailure reports whether err came from a line search that produced no step.
func IsFailure(err error) bool {
	return errors.Is(err, optimization.ErrLineSearch)
}
