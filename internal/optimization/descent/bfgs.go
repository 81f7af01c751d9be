package descent

import (
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/copyleftdev/dualopt/internal/optimization"
	"github.com/copyleftdev/dualopt/internal/optimization/linesearch"
	"github.com/copyleftdev/dualopt/internal/optimization/problem"
)

// BFGS is the quasi-Newton method keeping a dense approximation of the
// inverse Hessian, started at the identity.
type BFGS struct {
	IMax int
	GTol float64
	// LineSearch defaults to a strong-Wolfe search with c2 = 0.9.
	LineSearch *linesearch.Wolfe
	Logger     *zap.Logger
}

// NewBFGS returns a solver with the default settings.
func NewBFGS() *BFGS {
	return &BFGS{IMax: 100, GTol: 1e-6}
}

// Minimize runs from x0 until ‖∇f‖ < GTol or IMax iterations have been taken.
func (b *BFGS) Minimize(x0 []float64, p problem.Gradient) (*optimization.Solution, error) {
	b.LineSearch = lineSearchWithC2(b.LineSearch, linesearch.DefaultC2)
	logger := b.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &driver{name: "bfgs", iMax: b.IMax, gTol: b.GTol, lineSearch: b.LineSearch, logger: logger}
	return d.minimize(x0, p, &inverseHessian{logger: logger.Named("bfgs")})
}

// inverseHessian holds H ≈ (∇²f)⁻¹ and vector views over the solver state.
type inverseHessian struct {
	h      *mat.SymDense
	y      []float64
	hy     *mat.VecDense
	sVec   *mat.VecDense
	yVec   *mat.VecDense
	gVec   *mat.VecDense
	pVec   *mat.VecDense
	logger *zap.Logger
}

func (ih *inverseHessian) start(st *state) {
	n := len(st.x)
	ih.h = mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		ih.h.SetSym(i, i, 1)
	}
	ih.y = make([]float64, n)
	ih.hy = mat.NewVecDense(n, nil)
	ih.sVec = mat.NewVecDense(n, st.s)
	ih.yVec = mat.NewVecDense(n, ih.y)
	ih.gVec = mat.NewVecDense(n, st.g)
	ih.pVec = mat.NewVecDense(n, st.p)
	steepest(st)
}

func (ih *inverseHessian) guess(*state) float64 { return 1 }

// update applies
//
//	H⁺ = (I - ρsyᵀ) H (I - ρysᵀ) + ρssᵀ,  ρ = 1/⟨y, s⟩
//
// in the expanded symmetric form H + (ρ²⟨y, Hy⟩ + ρ)ssᵀ - ρ(s(Hy)ᵀ + (Hy)sᵀ),
// then sets p = -Hg. A pair with non-positive or non-finite curvature leaves
// H unchanged.
func (ih *inverseHessian) update(st *state) {
	floats.SubTo(ih.y, st.g, st.gOld)
	rho := 1 / floats.Dot(ih.y, st.s)

	if rho > 0 && !math.IsInf(rho, 0) {
		ih.hy.MulVec(ih.h, ih.yVec)
		yHy := mat.Dot(ih.yVec, ih.hy)
		ih.h.SymRankOne(ih.h, rho*rho*yHy+rho, ih.sVec)
		ih.h.RankTwo(ih.h, -rho, ih.sVec, ih.hy)
	} else {
		ih.logger.Warn("skipping inverse Hessian update",
			zap.Int("iteration", st.iter),
			zap.Float64("rho", rho),
		)
	}

	ih.pVec.MulVec(ih.h, ih.gVec)
	ih.pVec.ScaleVec(-1, ih.pVec)
}
