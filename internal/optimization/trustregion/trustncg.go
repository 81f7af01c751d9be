// Package trustregion implements the trust-region Newton-CG minimizer. Each
// iteration minimizes the local quadratic model inside a ball of radius δ
// with Steihaug-CG, then grows, shrinks or keeps δ depending on how well the
// model predicted the actual decrease.
package trustregion

import (
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/copyleftdev/dualopt/internal/optimization"
	"github.com/copyleftdev/dualopt/internal/optimization/problem"
)

// TrustNCG is the trust-region Newton-CG solver. It needs exact Hessians.
type TrustNCG struct {
	IMax     int
	GTol     float64
	DeltaMax float64
	Delta0   float64
	// Eta is the smallest ratio of actual to predicted decrease for which a
	// step is accepted.
	Eta float64

	CG     *Steihaug
	Logger *zap.Logger
}

// NewTrustNCG returns a solver with the default settings.
func NewTrustNCG() *TrustNCG {
	return &TrustNCG{
		IMax:     1000,
		GTol:     1e-6,
		DeltaMax: 100,
		Delta0:   1,
		Eta:      0.15,
	}
}

// radiusTol is the relative tolerance for a step to count as reaching the boundary.
const radiusTol = 1e-8

// Minimize runs from x0 until ‖∇f‖ < GTol or IMax iterations have been taken.
// Rejected steps count as iterations.
func (t *TrustNCG) Minimize(x0 []float64, p problem.Hessian) (*optimization.Solution, error) {
	if err := problem.Validate(x0, p); err != nil {
		return nil, err
	}
	logger := t.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("trust-ncg")
	if t.CG == nil {
		t.CG = NewSteihaug()
	}

	n := len(x0)
	x := append(make([]float64, 0, n), x0...)
	xNew := make([]float64, n)
	g := make([]float64, n)
	step := make([]float64, n)
	h := mat.NewSymDense(n, nil)
	hStep := mat.NewVecDense(n, nil)
	stepVec := mat.NewVecDense(n, step)

	p.UpdateX(x)
	f := p.EvalReal()
	p.Grad(g)
	p.Hess(h)
	funcEvals, gradEvals, hessEvals := 1, 1, 1

	delta := t.Delta0
	iter := 0
	success := false
	for {
		if optimization.Converged(g, t.GTol) {
			success = true
			break
		}
		if iter >= t.IMax {
			break
		}
		iter++

		exit := t.CG.Solve(g, h, delta, step)
		floats.AddTo(xNew, x, step)
		p.UpdateX(xNew)
		fNew := p.EvalReal()
		funcEvals++

		hStep.MulVec(h, stepVec)
		predicted := -(floats.Dot(g, step) + 0.5*mat.Dot(stepVec, hStep))
		rho := 0.0
		if predicted != 0 {
			rho = (f - fNew) / predicted
		}

		stepNorm := floats.Norm(step, 2)
		switch {
		case !(rho >= 0.25):
			delta = 0.25 * stepNorm
		case rho > 0.75 && math.Abs(stepNorm-delta) <= radiusTol*delta:
			delta = math.Min(2*delta, t.DeltaMax)
		}

		if !(rho >= t.Eta) {
			logger.Debug("step rejected",
				zap.Int("iteration", iter),
				zap.Float64("rho", rho),
				zap.Float64("delta", delta),
				zap.Stringer("exit", exit),
			)
			continue
		}

		copy(x, xNew)
		f = fNew
		p.Grad(g)
		p.Hess(h)
		gradEvals++
		hessEvals++

		logger.Debug("iteration",
			zap.Int("iteration", iter),
			zap.Float64("rho", rho),
			zap.Float64("delta", delta),
			zap.Stringer("exit", exit),
			zap.Float64("f", f),
			zap.Float64("gnorm", optimization.GradientNorm(g)),
		)
	}

	sol := &optimization.Solution{
		X:             x,
		F:             f,
		Success:       success,
		Iterations:    iter,
		FunctionEvals: funcEvals,
		GradientEvals: gradEvals,
		HessianEvals:  hessEvals,
	}
	logger.Info("minimization finished",
		zap.Bool("success", sol.Success),
		zap.Int("iterations", sol.Iterations),
		zap.Float64("f", sol.F),
		zap.Int("function_evals", sol.FunctionEvals),
		zap.Int("gradient_evals", sol.GradientEvals),
		zap.Int("hessian_evals", sol.HessianEvals),
	)
	return sol, nil
}
