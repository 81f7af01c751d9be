package dual

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// HyperDual is a real number carrying its gradient and Hessian with respect
// to n independent variables. Hess is always symmetric: every update goes
// through mat.SymDense rank-one and rank-two kernels.
type HyperDual struct {
	Real float64
	Grad []float64
	Hess *mat.SymDense
}

// NewHyperDual returns a zero value of dimension n. n must be positive.
func NewHyperDual(n int) HyperDual {
	return HyperDual{Grad: make([]float64, n), Hess: mat.NewSymDense(n, nil)}
}

// HyperConstant returns real with zero derivatives of dimension n.
func HyperConstant(real float64, n int) HyperDual {
	h := NewHyperDual(n)
	h.Real = real
	return h
}

// HyperVariable returns the i-th of n independent variables.
func HyperVariable(real float64, n, i int) HyperDual {
	h := HyperConstant(real, n)
	h.Grad[i] = 1
	return h
}

// HyperVariables seeds every entry of x as an independent variable.
func HyperVariables(x []float64) []HyperDual {
	out := make([]HyperDual, len(x))
	for i, v := range x {
		out[i] = HyperVariable(v, len(x), i)
	}
	return out
}

func (a HyperDual) Dim() int {
	return len(a.Grad)
}

func (a HyperDual) Add(b HyperDual) HyperDual {
	h := mat.NewSymDense(a.Dim(), nil)
	h.AddSym(a.hessian(), b.hessian())
	return HyperDual{
		Real: a.Real + b.Real,
		Grad: floats.AddTo(make([]float64, a.Dim()), a.Grad, b.Grad),
		Hess: h,
	}
}

func (a HyperDual) Sub(b HyperDual) HyperDual {
	return a.Add(b.Neg())
}

// Mul applies the product rule:
//
//	∇(ab)  = a∇b + b∇a
//	∇²(ab) = a∇²b + b∇²a + ∇a∇bᵀ + ∇b∇aᵀ
func (a HyperDual) Mul(b HyperDual) HyperDual {
	n := a.Dim()
	grad := floats.ScaleTo(make([]float64, n), a.Real, b.Grad)
	floats.AddScaled(grad, b.Real, a.Grad)

	h := combine(a.Real, b.hessian(), b.Real, a.hessian())
	h.RankTwo(h, 1, mat.NewVecDense(n, a.Grad), mat.NewVecDense(n, b.Grad))
	return HyperDual{Real: a.Real * b.Real, Grad: grad, Hess: h}
}

// Div applies the quotient rule:
//
//	∇(a/b)  = ∇a/b - a∇b/b²
//	∇²(a/b) = ∇²a/b - (∇a∇bᵀ + ∇b∇aᵀ)/b² - a/b³ (b∇²b - 2∇b∇bᵀ)
func (a HyperDual) Div(b HyperDual) HyperDual {
	n := a.Dim()
	inv := 1 / b.Real
	inv2 := inv * inv

	grad := floats.ScaleTo(make([]float64, n), inv, a.Grad)
	floats.AddScaled(grad, -a.Real*inv2, b.Grad)

	ga := mat.NewVecDense(n, a.Grad)
	gb := mat.NewVecDense(n, b.Grad)
	h := combine(inv, a.hessian(), -a.Real*inv2, b.hessian())
	h.RankTwo(h, -inv2, ga, gb)
	h.SymRankOne(h, 2*a.Real*inv2*inv, gb)
	return HyperDual{Real: a.Real * inv, Grad: grad, Hess: h}
}

func (a HyperDual) AddReal(r float64) HyperDual {
	return a.chain(a.Real+r, 1, 0)
}

func (a HyperDual) SubReal(r float64) HyperDual {
	return a.chain(a.Real-r, 1, 0)
}

func (a HyperDual) MulReal(r float64) HyperDual {
	return a.chain(a.Real*r, r, 0)
}

func (a HyperDual) DivReal(r float64) HyperDual {
	return a.chain(a.Real/r, 1/r, 0)
}

// RealSub returns r - a.
func (a HyperDual) RealSub(r float64) HyperDual {
	return a.chain(r-a.Real, -1, 0)
}

// RealDiv returns r / a.
func (a HyperDual) RealDiv(r float64) HyperDual {
	inv := 1 / a.Real
	return a.chain(r*inv, -r*inv*inv, 2*r*inv*inv*inv)
}

func (a HyperDual) Neg() HyperDual {
	return a.chain(-a.Real, -1, 0)
}

// Sin returns sin(a), where ∇² sin(a) = cos(a)∇²a - sin(a)∇a∇aᵀ.
func (a HyperDual) Sin() HyperDual {
	s, c := math.Sincos(a.Real)
	return a.chain(s, c, -s)
}

// Cos returns cos(a), where ∇² cos(a) = -sin(a)∇²a - cos(a)∇a∇aᵀ.
func (a HyperDual) Cos() HyperDual {
	s, c := math.Sincos(a.Real)
	return a.chain(c, -s, -c)
}

// Powi raises a to the integer power n:
//
//	∇(aⁿ)  = n aⁿ⁻¹ ∇a
//	∇²(aⁿ) = n aⁿ⁻² (a∇²a + (n-1)∇a∇aᵀ)
func (a HyperDual) Powi(n int) HyperDual {
	return a.chain(powiTerms(a.Real, n))
}

func (a HyperDual) Exp() HyperDual {
	e := math.Exp(a.Real)
	return a.chain(e, e, e)
}

func (a HyperDual) Log() HyperDual {
	inv := 1 / a.Real
	return a.chain(math.Log(a.Real), inv, -inv*inv)
}

func (a HyperDual) Sqrt() HyperDual {
	s := math.Sqrt(a.Real)
	return a.chain(s, 0.5/s, -0.25/(s*a.Real))
}

// chain applies a unary function with value f, derivative df and second
// derivative d2f at a.Real:
//
//	∇f(a)  = f'(a)∇a
//	∇²f(a) = f'(a)∇²a + f''(a)∇a∇aᵀ
func (a HyperDual) chain(f, df, d2f float64) HyperDual {
	n := a.Dim()
	h := mat.NewSymDense(n, nil)
	h.ScaleSym(df, a.hessian())
	if d2f != 0 {
		h.SymRankOne(h, d2f, mat.NewVecDense(n, a.Grad))
	}
	return HyperDual{
		Real: f,
		Grad: floats.ScaleTo(make([]float64, n), df, a.Grad),
		Hess: h,
	}
}

// hessian treats a nil Hess as the zero matrix.
func (a HyperDual) hessian() mat.Symmetric {
	if a.Hess == nil {
		return mat.NewSymDense(a.Dim(), nil)
	}
	return a.Hess
}

// combine returns alpha*x + beta*y as a new matrix.
func combine(alpha float64, x mat.Symmetric, beta float64, y mat.Symmetric) *mat.SymDense {
	n := x.SymmetricDim()
	h := mat.NewSymDense(n, nil)
	h.ScaleSym(alpha, x)
	t := mat.NewSymDense(n, nil)
	t.ScaleSym(beta, y)
	h.AddSym(h, t)
	return h
}
