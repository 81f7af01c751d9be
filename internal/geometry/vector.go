// Package geometry provides 3-D vectors and rotation quaternions whose
// components are hyperdual scalars, so rotations of a point can be
// differentiated twice with respect to the rotation angles.
package geometry

import "github.com/copyleftdev/dualopt/internal/optimization/dual"

// HDVector is a 3-D vector.
type HDVector struct {
	X, Y, Z dual.HyperDualScalar
}

// NewHDVector returns a vector with constant components.
func NewHDVector(x, y, z float64) HDVector {
	return HDVector{
		X: dual.HyperDualScalar{Real: x},
		Y: dual.HyperDualScalar{Real: y},
		Z: dual.HyperDualScalar{Real: z},
	}
}

func (v HDVector) Add(o HDVector) HDVector {
	return HDVector{X: v.X.Add(o.X), Y: v.Y.Add(o.Y), Z: v.Z.Add(o.Z)}
}

func (v HDVector) Sub(o HDVector) HDVector {
	return HDVector{X: v.X.Sub(o.X), Y: v.Y.Sub(o.Y), Z: v.Z.Sub(o.Z)}
}

func (v HDVector) Neg() HDVector {
	return HDVector{X: v.X.Neg(), Y: v.Y.Neg(), Z: v.Z.Neg()}
}

// Scale multiplies every component by a real.
func (v HDVector) Scale(s float64) HDVector {
	return HDVector{X: v.X.MulReal(s), Y: v.Y.MulReal(s), Z: v.Z.MulReal(s)}
}

// ScaleHD multiplies every component by a hyperdual scalar.
func (v HDVector) ScaleHD(s dual.HyperDualScalar) HDVector {
	return HDVector{X: v.X.Mul(s), Y: v.Y.Mul(s), Z: v.Z.Mul(s)}
}

func (v HDVector) Dot(o HDVector) dual.HyperDualScalar {
	return v.X.Mul(o.X).Add(v.Y.Mul(o.Y)).Add(v.Z.Mul(o.Z))
}

func (v HDVector) Cross(o HDVector) HDVector {
	return HDVector{
		X: v.Y.Mul(o.Z).Sub(v.Z.Mul(o.Y)),
		Y: v.Z.Mul(o.X).Sub(v.X.Mul(o.Z)),
		Z: v.X.Mul(o.Y).Sub(v.Y.Mul(o.X)),
	}
}

// Real returns the real parts of the components.
func (v HDVector) Real() [3]float64 {
	return [3]float64{v.X.Real, v.Y.Real, v.Z.Real}
}

// FromQuaternion takes the vector part of q.
func FromQuaternion(q HDQuaternion) HDVector {
	return HDVector{X: q.Q0, Y: q.Q1, Z: q.Q2}
}
