package dual

// Number is the arithmetic surface shared by all four types, so an objective
// can be written once and evaluated with first or second order derivatives:
//
//	func sq[T dual.Number[T]](x []T) T { return x[0].Mul(x[0]) }
//
//	sq([]dual.DualScalar{...})
//	sq([]dual.HyperDualScalar{...})
type Number[T any] interface {
	Add(T) T
	Sub(T) T
	Mul(T) T
	Div(T) T
	AddReal(float64) T
	SubReal(float64) T
	MulReal(float64) T
	DivReal(float64) T
	RealSub(float64) T
	RealDiv(float64) T
	Neg() T
	Sin() T
	Cos() T
	Powi(int) T
	Exp() T
	Log() T
	Sqrt() T
}

var (
	_ Number[DualScalar]      = DualScalar{}
	_ Number[Dual]            = Dual{}
	_ Number[HyperDualScalar] = HyperDualScalar{}
	_ Number[HyperDual]       = HyperDual{}
)
