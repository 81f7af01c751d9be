package geometry

import "github.com/copyleftdev/dualopt/internal/optimization/dual"

// HDQuaternion is a quaternion with vector part (Q0, Q1, Q2) and scalar
// part Q3.
type HDQuaternion struct {
	Q0, Q1, Q2, Q3 dual.HyperDualScalar
}

// Identity returns the rotation that leaves every vector unchanged.
func Identity() HDQuaternion {
	return HDQuaternion{Q3: dual.HyperDualScalar{Real: 1}}
}

// FromXAngle returns the rotation by phi about the x axis.
func FromXAngle(phi dual.HyperDualScalar) HDQuaternion {
	half := phi.DivReal(2)
	return HDQuaternion{Q0: half.Sin(), Q3: half.Cos()}
}

// FromYAngle returns the rotation by theta about the y axis.
func FromYAngle(theta dual.HyperDualScalar) HDQuaternion {
	half := theta.DivReal(2)
	return HDQuaternion{Q1: half.Sin(), Q3: half.Cos()}
}

// FromZAngle returns the rotation by psi about the z axis.
func FromZAngle(psi dual.HyperDualScalar) HDQuaternion {
	half := psi.DivReal(2)
	return HDQuaternion{Q2: half.Sin(), Q3: half.Cos()}
}

// FromAngles composes the z-y-x rotation qz·qy·qx, so x is applied first.
func FromAngles(phi, theta, psi dual.HyperDualScalar) HDQuaternion {
	return FromZAngle(psi).Mul(FromYAngle(theta)).Mul(FromXAngle(phi))
}

// Inv returns the conjugate, which is the inverse of a unit quaternion.
func (q HDQuaternion) Inv() HDQuaternion {
	return HDQuaternion{Q0: q.Q0.Neg(), Q1: q.Q1.Neg(), Q2: q.Q2.Neg(), Q3: q.Q3}
}

func (q HDQuaternion) Add(o HDQuaternion) HDQuaternion {
	return HDQuaternion{Q0: q.Q0.Add(o.Q0), Q1: q.Q1.Add(o.Q1), Q2: q.Q2.Add(o.Q2), Q3: q.Q3.Add(o.Q3)}
}

func (q HDQuaternion) Sub(o HDQuaternion) HDQuaternion {
	return HDQuaternion{Q0: q.Q0.Sub(o.Q0), Q1: q.Q1.Sub(o.Q1), Q2: q.Q2.Sub(o.Q2), Q3: q.Q3.Sub(o.Q3)}
}

func (q HDQuaternion) Neg() HDQuaternion {
	return HDQuaternion{Q0: q.Q0.Neg(), Q1: q.Q1.Neg(), Q2: q.Q2.Neg(), Q3: q.Q3.Neg()}
}

// Mul is the Hamilton product q·o.
func (q HDQuaternion) Mul(o HDQuaternion) HDQuaternion {
	return HDQuaternion{
		Q0: q.Q3.Mul(o.Q0).Add(q.Q0.Mul(o.Q3)).Add(q.Q1.Mul(o.Q2)).Sub(q.Q2.Mul(o.Q1)),
		Q1: q.Q3.Mul(o.Q1).Sub(q.Q0.Mul(o.Q2)).Add(q.Q1.Mul(o.Q3)).Add(q.Q2.Mul(o.Q0)),
		Q2: q.Q3.Mul(o.Q2).Add(q.Q0.Mul(o.Q1)).Sub(q.Q1.Mul(o.Q0)).Add(q.Q2.Mul(o.Q3)),
		Q3: q.Q3.Mul(o.Q3).Sub(q.Q0.Mul(o.Q0)).Sub(q.Q1.Mul(o.Q1)).Sub(q.Q2.Mul(o.Q2)),
	}
}

// Scale multiplies every component by s.
func (q HDQuaternion) Scale(s dual.HyperDualScalar) HDQuaternion {
	return HDQuaternion{Q0: q.Q0.Mul(s), Q1: q.Q1.Mul(s), Q2: q.Q2.Mul(s), Q3: q.Q3.Mul(s)}
}

func (q HDQuaternion) DivReal(r float64) HDQuaternion {
	return HDQuaternion{Q0: q.Q0.DivReal(r), Q1: q.Q1.DivReal(r), Q2: q.Q2.DivReal(r), Q3: q.Q3.DivReal(r)}
}

// Norm2 returns the squared norm.
func (q HDQuaternion) Norm2() dual.HyperDualScalar {
	return q.Q0.Mul(q.Q0).Add(q.Q1.Mul(q.Q1)).Add(q.Q2.Mul(q.Q2)).Add(q.Q3.Mul(q.Q3))
}

// Pure embeds v as a quaternion with zero scalar part.
func Pure(v HDVector) HDQuaternion {
	return HDQuaternion{Q0: v.X, Q1: v.Y, Q2: v.Z}
}

// Rotate returns q·v·q⁻¹ for a unit quaternion q.
func (q HDQuaternion) Rotate(v HDVector) HDVector {
	return FromQuaternion(q.Mul(Pure(v)).Mul(q.Inv()))
}
