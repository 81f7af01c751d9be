// Package dual implements forward-mode automatic differentiation numbers.
//
// Four value types cover first and second order derivatives, each in a
// single-direction (scalar) and a multivariate form:
//
//	DualScalar       value + one directional derivative
//	Dual             value + gradient
//	HyperDualScalar  value + two directional derivatives + their mixed second derivative
//	HyperDual        value + gradient + symmetric Hessian
//
// Operations return new values and never modify their operands. Division by a
// zero real part follows IEEE 754 and produces ±Inf or NaN.
package dual
