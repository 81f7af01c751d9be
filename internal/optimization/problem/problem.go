// Package problem defines the capability contracts every minimization target
// implements, plus adapters that build them from plain closures over the
// dual number types.
//
// A problem owns a vector of dual variables mirroring the optimization
// variables. Solvers drive it through three calls:
//
//	UpdateX(x)          load x with every derivative seed cleared
//	MoveStep(x, p, α)   load x+αp with dx/dα = p seeded, for Diff
//	Grad / Hess         harvest derivatives one seed at a time
//
// Implementations are not safe for concurrent use; a problem belongs to the
// single solver driving it.
package problem

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/copyleftdev/dualopt/internal/optimization"
)

// Objective evaluates the real part of the objective at the stored state.
type Objective interface {
	// EvalReal evaluates f at the stored variables.
	EvalReal() float64
	// UpdateX overwrites the stored variables with x and clears every seed.
	UpdateX(x []float64)
	// MoveStep stores x+alpha*p with the derivative along alpha seeded.
	MoveStep(x, p []float64, alpha float64)
}

// Gradient adds first-order information.
type Gradient interface {
	Objective
	// Grad writes ∇f at the stored variables into out.
	Grad(out []float64)
	// Diff returns the derivative tagged by the last MoveStep.
	Diff() float64
}

// Hessian adds second-order information.
type Hessian interface {
	Gradient
	// Hess writes ∇²f at the stored variables into out, evaluating each
	// unordered pair (i, j) once.
	Hess(out *mat.SymDense)
}

// Dimensioned is implemented by problems that know their variable count.
// A non-positive Dim means unknown.
type Dimensioned interface {
	Dim() int
}

// Validate checks a starting point against a problem before a run.
func Validate(x0 []float64, p Objective) error {
	if p == nil {
		return optimization.WrapError(optimization.ErrInvalidInput, "nil problem").WithOperation("Validate")
	}
	if len(x0) == 0 {
		return optimization.WrapError(optimization.ErrInvalidInput, "empty starting point").WithOperation("Validate")
	}
	for i, v := range x0 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return optimization.WrapErrorf(optimization.ErrInvalidInput, "x0[%d] is %v", i, v).WithOperation("Validate")
		}
	}
	if d, ok := p.(Dimensioned); ok && d.Dim() > 0 && d.Dim() != len(x0) {
		return optimization.WrapErrorf(optimization.ErrDimensionMismatch,
			"starting point has %d entries, problem has %d", len(x0), d.Dim()).WithOperation("Validate")
	}
	return nil
}
