// Package solver maps a Method and Settings onto a configured minimizer.
package solver

import (
	"go.uber.org/zap"

	"github.com/copyleftdev/dualopt/internal/optimization"
	"github.com/copyleftdev/dualopt/internal/optimization/catalog"
	"github.com/copyleftdev/dualopt/internal/optimization/descent"
	"github.com/copyleftdev/dualopt/internal/optimization/linesearch"
	"github.com/copyleftdev/dualopt/internal/optimization/problem"
	"github.com/copyleftdev/dualopt/internal/optimization/trustregion"
)

// Run minimizes a catalogued problem. A nil x0 starts from the entry's
// default point; otherwise len(x0) selects the dimension.
func Run(method optimization.Method, e catalog.Entry, x0 []float64, s optimization.Settings, logger *zap.Logger) (*optimization.Solution, error) {
	if x0 == nil {
		x0 = e.StartPoint()
	}
	n := len(x0)
	if method.NeedsHessian() {
		return RunProblem(method, e.Hessian(n), x0, s, logger)
	}
	return RunProblem(method, e.Gradient(n), x0, s, logger)
}

// RunProblem minimizes p with the given method. TrustNCG requires p to
// implement problem.Hessian.
func RunProblem(method optimization.Method, p problem.Gradient, x0 []float64, s optimization.Settings, logger *zap.Logger) (*optimization.Solution, error) {
	if err := validate(s); err != nil {
		return nil, err
	}

	switch method {
	case optimization.SteepestDescent:
		ls, err := lineSearch(s, 0.1)
		if err != nil {
			return nil, err
		}
		sd := descent.NewSteepestDescent()
		sd.IMax = intOr(s.MaxIterations, sd.IMax)
		sd.GTol = floatOr(s.GradTol, sd.GTol)
		sd.LineSearch = ls
		sd.Logger = logger
		return sd.Minimize(x0, p)

	case optimization.NCG:
		ls, err := lineSearch(s, 0.1)
		if err != nil {
			return nil, err
		}
		cg := descent.NewNCG()
		cg.IMax = intOr(s.MaxIterations, cg.IMax)
		cg.GTol = floatOr(s.GradTol, cg.GTol)
		cg.LineSearch = ls
		cg.Logger = logger
		return cg.Minimize(x0, p)

	case optimization.BFGS:
		ls, err := lineSearch(s, linesearch.DefaultC2)
		if err != nil {
			return nil, err
		}
		b := descent.NewBFGS()
		b.IMax = intOr(s.MaxIterations, b.IMax)
		b.GTol = floatOr(s.GradTol, b.GTol)
		b.LineSearch = ls
		b.Logger = logger
		return b.Minimize(x0, p)

	case optimization.TrustNCG:
		hp, ok := p.(problem.Hessian)
		if !ok {
			return nil, optimization.WrapErrorf(optimization.ErrInvalidInput,
				"method %s needs second derivatives", method).WithComponent("solver").WithOperation("RunProblem")
		}
		tr := trustregion.NewTrustNCG()
		tr.IMax = intOr(s.MaxIterations, tr.IMax)
		tr.GTol = floatOr(s.GradTol, tr.GTol)
		tr.DeltaMax = floatOr(s.DeltaMax, tr.DeltaMax)
		tr.Logger = logger
		return tr.Minimize(x0, hp)
	}

	return nil, optimization.WrapErrorf(optimization.ErrInvalidInput, "unknown method %q", method).
		WithComponent("solver").WithOperation("RunProblem")
}

// validate rejects negative or NaN settings. Zero keeps the solver default.
func validate(s optimization.Settings) error {
	fields := []struct {
		name string
		v    float64
	}{
		{"max_iterations", float64(s.MaxIterations)},
		{"gtol", s.GradTol},
		{"c1", s.C1},
		{"c2", s.C2},
		{"alpha_max", s.AlphaMax},
		{"delta_max", s.DeltaMax},
	}
	for _, f := range fields {
		if !(f.v >= 0) {
			return optimization.WrapErrorf(optimization.ErrInvalidInput, "%s must not be negative, got %g", f.name, f.v).
				WithComponent("solver").WithOperation("RunProblem")
		}
	}
	return nil
}

// lineSearch builds a strong-Wolfe search from s, with c2 as the method's
// default curvature constant, and checks that the effective constants
// satisfy 0 < c1 < c2 < 1.
func lineSearch(s optimization.Settings, c2 float64) (*linesearch.Wolfe, error) {
	ls := linesearch.New()
	ls.C1 = floatOr(s.C1, ls.C1)
	ls.C2 = floatOr(s.C2, c2)
	ls.AlphaMax = floatOr(s.AlphaMax, ls.AlphaMax)
	if !(0 < ls.C1 && ls.C1 < ls.C2 && ls.C2 < 1) {
		return nil, optimization.WrapErrorf(optimization.ErrInvalidInput,
			"line search constants need 0 < c1 < c2 < 1, got c1=%g c2=%g", ls.C1, ls.C2).
			WithComponent("solver").WithOperation("RunProblem")
	}
	return ls, nil
}

func intOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func floatOr(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}
