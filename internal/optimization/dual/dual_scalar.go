package dual

import (
	"fmt"
	"math"

	gdual "gonum.org/v1/gonum/num/dual"
)

// DualScalar is a real number tagged with its derivative along one direction.
type DualScalar struct {
	Real float64
	Du   float64
}

// Scalar returns a constant (zero derivative).
func Scalar(real float64) DualScalar {
	return DualScalar{Real: real}
}

// Seed returns real tagged with a unit derivative.
func Seed(real float64) DualScalar {
	return DualScalar{Real: real, Du: 1}
}

func (a DualScalar) Add(b DualScalar) DualScalar {
	return DualScalar{Real: a.Real + b.Real, Du: a.Du + b.Du}
}

func (a DualScalar) Sub(b DualScalar) DualScalar {
	return DualScalar{Real: a.Real - b.Real, Du: a.Du - b.Du}
}

func (a DualScalar) Mul(b DualScalar) DualScalar {
	return DualScalar{Real: a.Real * b.Real, Du: a.Real*b.Du + b.Real*a.Du}
}

func (a DualScalar) Div(b DualScalar) DualScalar {
	return DualScalar{
		Real: a.Real / b.Real,
		Du:   (a.Du*b.Real - a.Real*b.Du) / (b.Real * b.Real),
	}
}

func (a DualScalar) AddReal(r float64) DualScalar {
	return DualScalar{Real: a.Real + r, Du: a.Du}
}

func (a DualScalar) SubReal(r float64) DualScalar {
	return DualScalar{Real: a.Real - r, Du: a.Du}
}

func (a DualScalar) MulReal(r float64) DualScalar {
	return DualScalar{Real: a.Real * r, Du: a.Du * r}
}

func (a DualScalar) DivReal(r float64) DualScalar {
	return DualScalar{Real: a.Real / r, Du: a.Du / r}
}

// RealSub returns r - a.
func (a DualScalar) RealSub(r float64) DualScalar {
	return DualScalar{Real: r - a.Real, Du: -a.Du}
}

// RealDiv returns r / a.
func (a DualScalar) RealDiv(r float64) DualScalar {
	return DualScalar{Real: r / a.Real, Du: -r * a.Du / (a.Real * a.Real)}
}

func (a DualScalar) Neg() DualScalar {
	return DualScalar{Real: -a.Real, Du: -a.Du}
}

func (a DualScalar) Sin() DualScalar {
	return DualScalar{Real: math.Sin(a.Real), Du: math.Cos(a.Real) * a.Du}
}

func (a DualScalar) Cos() DualScalar {
	return DualScalar{Real: math.Cos(a.Real), Du: -math.Sin(a.Real) * a.Du}
}

// Powi raises a to the integer power n.
func (a DualScalar) Powi(n int) DualScalar {
	v, d1, _ := powiTerms(a.Real, n)
	return DualScalar{Real: v, Du: d1 * a.Du}
}

func (a DualScalar) Exp() DualScalar { return fromGonum(gdual.Exp(a.gonum())) }
func (a DualScalar) Log() DualScalar { return fromGonum(gdual.Log(a.gonum())) }
func (a DualScalar) Sqrt() DualScalar { return fromGonum(gdual.Sqrt(a.gonum())) }
func (a DualScalar) Tan() DualScalar { return fromGonum(gdual.Tan(a.gonum())) }
func (a DualScalar) Atan() DualScalar { return fromGonum(gdual.Atan(a.gonum())) }
func (a DualScalar) Tanh() DualScalar { return fromGonum(gdual.Tanh(a.gonum())) }
func (a DualScalar) Abs() DualScalar { return fromGonum(gdual.Abs(a.gonum())) }
func (a DualScalar) PowReal(p float64) DualScalar {
	return fromGonum(gdual.PowReal(a.gonum(), p))
}

func (a DualScalar) String() string {
	return fmt.Sprintf("%g%+gε", a.Real, a.Du)
}

func (a DualScalar) gonum() gdual.Number {
	return gdual.Number{Real: a.Real, Emag: a.Du}
}

func fromGonum(n gdual.Number) DualScalar {
	return DualScalar{Real: n.Real, Du: n.Emag}
}

// powiTerms returns x^n and its first and second derivatives with respect
// to x. Terms whose integer coefficient vanishes are exactly zero so that a
// zero base does not turn 0·Inf into NaN.
func powiTerms(x float64, n int) (v, d1, d2 float64) {
	fn := float64(n)
	v = math.Pow(x, fn)
	if n != 0 {
		d1 = fn * math.Pow(x, fn-1)
	}
	if n != 0 && n != 1 {
		d2 = fn * (fn - 1) * math.Pow(x, fn-2)
	}
	return v, d1, d2
}
