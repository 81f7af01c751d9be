package dual

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Dual is a real number carrying its full gradient with respect to n
// independent variables.
type Dual struct {
	Real float64
	Du   []float64
}

// NewDual returns a zero value with an n-dimensional zero gradient.
func NewDual(n int) Dual {
	return Dual{Du: make([]float64, n)}
}

// Constant returns real with an n-dimensional zero gradient.
func Constant(real float64, n int) Dual {
	return Dual{Real: real, Du: make([]float64, n)}
}

// Variable returns the i-th of n independent variables: real seeded with
// the one-hot gradient e_i.
func Variable(real float64, n, i int) Dual {
	d := Constant(real, n)
	d.Du[i] = 1
	return d
}

// Variables seeds every entry of x as an independent variable.
func Variables(x []float64) []Dual {
	out := make([]Dual, len(x))
	for i, v := range x {
		out[i] = Variable(v, len(x), i)
	}
	return out
}

func (a Dual) Dim() int {
	return len(a.Du)
}

func (a Dual) Add(b Dual) Dual {
	return Dual{Real: a.Real + b.Real, Du: floats.AddTo(make([]float64, len(a.Du)), a.Du, b.Du)}
}

func (a Dual) Sub(b Dual) Dual {
	return Dual{Real: a.Real - b.Real, Du: floats.SubTo(make([]float64, len(a.Du)), a.Du, b.Du)}
}

func (a Dual) Mul(b Dual) Dual {
	du := floats.ScaleTo(make([]float64, len(a.Du)), a.Real, b.Du)
	floats.AddScaled(du, b.Real, a.Du)
	return Dual{Real: a.Real * b.Real, Du: du}
}

func (a Dual) Div(b Dual) Dual {
	du := floats.ScaleTo(make([]float64, len(a.Du)), 1/b.Real, a.Du)
	floats.AddScaled(du, -a.Real/(b.Real*b.Real), b.Du)
	return Dual{Real: a.Real / b.Real, Du: du}
}

func (a Dual) AddReal(r float64) Dual {
	return Dual{Real: a.Real + r, Du: clone(a.Du)}
}

func (a Dual) SubReal(r float64) Dual {
	return Dual{Real: a.Real - r, Du: clone(a.Du)}
}

func (a Dual) MulReal(r float64) Dual {
	return a.chain(a.Real*r, r)
}

func (a Dual) DivReal(r float64) Dual {
	return Dual{Real: a.Real / r, Du: floats.ScaleTo(make([]float64, len(a.Du)), 1/r, a.Du)}
}

// RealSub returns r - a.
func (a Dual) RealSub(r float64) Dual {
	return a.chain(r-a.Real, -1)
}

// RealDiv returns r / a.
func (a Dual) RealDiv(r float64) Dual {
	return a.chain(r/a.Real, -r/(a.Real*a.Real))
}

func (a Dual) Neg() Dual {
	return a.chain(-a.Real, -1)
}

func (a Dual) Sin() Dual {
	return a.chain(math.Sin(a.Real), math.Cos(a.Real))
}

func (a Dual) Cos() Dual {
	return a.chain(math.Cos(a.Real), -math.Sin(a.Real))
}

// Powi raises a to the integer power n.
func (a Dual) Powi(n int) Dual {
	v, d1, _ := powiTerms(a.Real, n)
	return a.chain(v, d1)
}

func (a Dual) Exp() Dual {
	e := math.Exp(a.Real)
	return a.chain(e, e)
}

func (a Dual) Log() Dual {
	return a.chain(math.Log(a.Real), 1/a.Real)
}

func (a Dual) Sqrt() Dual {
	s := math.Sqrt(a.Real)
	return a.chain(s, 0.5/s)
}

// chain applies the chain rule for a unary function with value f and
// derivative df at a.Real.
func (a Dual) chain(f, df float64) Dual {
	return Dual{Real: f, Du: floats.ScaleTo(make([]float64, len(a.Du)), df, a.Du)}
}

func clone(s []float64) []float64 {
	out := make([]float64, len(s))
	copy(out, s)
	return out
}
