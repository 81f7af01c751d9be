package dual

import (
	"fmt"
	"math"

	ghyper "gonum.org/v1/gonum/num/hyperdual"
)

// HyperDualScalar carries first derivatives along two seed directions (E1,
// E2) and the mixed second derivative E1E2. Seeding variable i on E1 and
// variable j on E2 yields ∂²f/∂xi∂xj in E1E2 after evaluation.
type HyperDualScalar struct {
	Real float64
	E1   float64
	E2   float64
	E1E2 float64
}

// HyperScalar returns a constant.
func HyperScalar(real float64) HyperDualScalar {
	return HyperDualScalar{Real: real}
}

func (a HyperDualScalar) Add(b HyperDualScalar) HyperDualScalar {
	return HyperDualScalar{a.Real + b.Real, a.E1 + b.E1, a.E2 + b.E2, a.E1E2 + b.E1E2}
}

func (a HyperDualScalar) Sub(b HyperDualScalar) HyperDualScalar {
	return HyperDualScalar{a.Real - b.Real, a.E1 - b.E1, a.E2 - b.E2, a.E1E2 - b.E1E2}
}

func (a HyperDualScalar) Mul(b HyperDualScalar) HyperDualScalar {
	return HyperDualScalar{
		Real: a.Real * b.Real,
		E1:   a.Real*b.E1 + a.E1*b.Real,
		E2:   a.Real*b.E2 + a.E2*b.Real,
		E1E2: a.Real*b.E1E2 + a.E1*b.E2 + a.E2*b.E1 + a.E1E2*b.Real,
	}
}

func (a HyperDualScalar) Div(b HyperDualScalar) HyperDualScalar {
	return a.Mul(b.inv())
}

func (a HyperDualScalar) AddReal(r float64) HyperDualScalar {
	a.Real += r
	return a
}

func (a HyperDualScalar) SubReal(r float64) HyperDualScalar {
	a.Real -= r
	return a
}

func (a HyperDualScalar) MulReal(r float64) HyperDualScalar {
	return HyperDualScalar{a.Real * r, a.E1 * r, a.E2 * r, a.E1E2 * r}
}

func (a HyperDualScalar) DivReal(r float64) HyperDualScalar {
	return HyperDualScalar{a.Real / r, a.E1 / r, a.E2 / r, a.E1E2 / r}
}

// RealSub returns r - a.
func (a HyperDualScalar) RealSub(r float64) HyperDualScalar {
	return a.Neg().AddReal(r)
}

// RealDiv returns r / a.
func (a HyperDualScalar) RealDiv(r float64) HyperDualScalar {
	return a.inv().MulReal(r)
}

func (a HyperDualScalar) Neg() HyperDualScalar {
	return HyperDualScalar{-a.Real, -a.E1, -a.E2, -a.E1E2}
}

func (a HyperDualScalar) Sin() HyperDualScalar {
	s, c := math.Sincos(a.Real)
	return a.chain(s, c, -s)
}

func (a HyperDualScalar) Cos() HyperDualScalar {
	s, c := math.Sincos(a.Real)
	return a.chain(c, -s, -c)
}

// Powi raises a to the integer power n.
func (a HyperDualScalar) Powi(n int) HyperDualScalar {
	return a.chain(powiTerms(a.Real, n))
}

func (a HyperDualScalar) Exp() HyperDualScalar { return fromGonumHyper(ghyper.Exp(a.gonum())) }
func (a HyperDualScalar) Log() HyperDualScalar { return fromGonumHyper(ghyper.Log(a.gonum())) }
func (a HyperDualScalar) Sqrt() HyperDualScalar { return fromGonumHyper(ghyper.Sqrt(a.gonum())) }
func (a HyperDualScalar) Tan() HyperDualScalar { return fromGonumHyper(ghyper.Tan(a.gonum())) }
func (a HyperDualScalar) Atan() HyperDualScalar { return fromGonumHyper(ghyper.Atan(a.gonum())) }
func (a HyperDualScalar) PowReal(p float64) HyperDualScalar {
	return fromGonumHyper(ghyper.PowReal(a.gonum(), p))
}

func (a HyperDualScalar) String() string {
	return fmt.Sprintf("%g%+gϵ₁%+gϵ₂%+gϵ₁ϵ₂", a.Real, a.E1, a.E2, a.E1E2)
}

func (a HyperDualScalar) inv() HyperDualScalar {
	r := 1 / a.Real
	return a.chain(r, -r*r, 2*r*r*r)
}

// chain applies a unary function with value f, first derivative df and
// second derivative d2f at a.Real.
func (a HyperDualScalar) chain(f, df, d2f float64) HyperDualScalar {
	return HyperDualScalar{
		Real: f,
		E1:   df * a.E1,
		E2:   df * a.E2,
		E1E2: df*a.E1E2 + d2f*a.E1*a.E2,
	}
}

func (a HyperDualScalar) gonum() ghyper.Number {
	return ghyper.Number{Real: a.Real, E1mag: a.E1, E2mag: a.E2, E1E2mag: a.E1E2}
}

func fromGonumHyper(n ghyper.Number) HyperDualScalar {
	return HyperDualScalar{Real: n.Real, E1: n.E1mag, E2: n.E2mag, E1E2: n.E1E2mag}
}
