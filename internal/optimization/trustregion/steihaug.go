package trustregion

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Exit reports why Steihaug.Solve stopped.
type Exit int

const (
	// ExitConverged means the model residual fell below tolerance inside the region.
	ExitConverged Exit = iota
	// ExitNegativeCurvature means a direction with dᵀBd ≤ 0 was followed to the boundary.
	ExitNegativeCurvature
	// ExitBoundary means the next CG iterate left the region and was cut at the boundary.
	ExitBoundary
	// ExitMaxIter means JMax CG steps were taken without meeting any other exit.
	ExitMaxIter
)

func (e Exit) String() string {
	switch e {
	case ExitConverged:
		return "converged"
	case ExitNegativeCurvature:
		return "negative-curvature"
	case ExitBoundary:
		return "boundary"
	case ExitMaxIter:
		return "max-iterations"
	default:
		return "unknown"
	}
}

// DefaultJMax is the default cap on CG steps per subproblem.
const DefaultJMax = 50

// Steihaug approximately minimizes the model m(p) = gᵀp + ½pᵀBp subject to
// ‖p‖ ≤ δ with truncated conjugate gradients. The residual is r = g + Bp.
//
// Work vectors are kept between calls and resized only when the dimension
// changes.
type Steihaug struct {
	JMax int

	r, d, next []float64
	dVec, bd   *mat.VecDense
}

// NewSteihaug returns a solver with JMax = DefaultJMax.
func NewSteihaug() *Steihaug {
	return &Steihaug{JMax: DefaultJMax}
}

// Solve writes the step into out, which must have len(g) entries.
// A zero gradient yields a zero step.
func (s *Steihaug) Solve(g []float64, b mat.Symmetric, delta float64, out []float64) Exit {
	n := len(g)
	s.reserve(n)
	for i := range out {
		out[i] = 0
	}

	gNorm := floats.Norm(g, 2)
	if gNorm == 0 {
		return ExitConverged
	}
	eps := math.Min(0.5, math.Sqrt(gNorm)) * gNorm

	copy(s.r, g)
	floats.ScaleTo(s.d, -1, g)

	jMax := s.JMax
	if jMax <= 0 {
		jMax = DefaultJMax
	}
	for j := 0; j < jMax; j++ {
		s.bd.MulVec(b, s.dVec)
		dBd := mat.Dot(s.dVec, s.bd)
		if dBd <= 0 {
			toBoundary(out, s.d, delta)
			return ExitNegativeCurvature
		}

		rr := floats.Dot(s.r, s.r)
		alpha := rr / dBd
		floats.AddScaledTo(s.next, out, alpha, s.d)
		if floats.Norm(s.next, 2) >= delta {
			toBoundary(out, s.d, delta)
			return ExitBoundary
		}
		copy(out, s.next)

		floats.AddScaled(s.r, alpha, s.bd.RawVector().Data)
		rrNext := floats.Dot(s.r, s.r)
		if math.Sqrt(rrNext) < eps {
			return ExitConverged
		}
		beta := rrNext / rr
		floats.Scale(beta, s.d)
		floats.Sub(s.d, s.r)
	}
	return ExitMaxIter
}

func (s *Steihaug) reserve(n int) {
	if len(s.r) == n {
		return
	}
	s.r = make([]float64, n)
	s.d = make([]float64, n)
	s.next = make([]float64, n)
	s.dVec = mat.NewVecDense(n, s.d)
	s.bd = mat.NewVecDense(n, nil)
}

// toBoundary moves p along d to the positive root τ of ‖p + τd‖ = δ.
func toBoundary(p, d []float64, delta float64) {
	a := floats.Dot(d, d)
	b := 2 * floats.Dot(p, d)
	c := floats.Dot(p, p) - delta*delta
	tau := (-b + math.Sqrt(b*b-4*a*c)) / (2 * a)
	floats.AddScaled(p, tau, d)
}
