package problem

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/copyleftdev/dualopt/internal/optimization/dual"
)

// Scalar adapts a closure over DualScalar variables into a Gradient.
// Every evaluation carries a single derivative, so Grad costs n evaluations.
type Scalar struct {
	f func(x []dual.DualScalar) dual.DualScalar
	x []dual.DualScalar
}

// NewScalar returns an n-variable problem evaluating f.
func NewScalar(n int, f func(x []dual.DualScalar) dual.DualScalar) *Scalar {
	return &Scalar{f: f, x: make([]dual.DualScalar, n)}
}

func (s *Scalar) Dim() int { return len(s.x) }

func (s *Scalar) EvalReal() float64 {
	return s.f(s.x).Real
}

func (s *Scalar) UpdateX(x []float64) {
	for i := range s.x {
		s.x[i] = dual.DualScalar{Real: x[i]}
	}
}

func (s *Scalar) MoveStep(x, p []float64, alpha float64) {
	for i := range s.x {
		s.x[i] = dual.DualScalar{Real: x[i] + alpha*p[i], Du: p[i]}
	}
}

func (s *Scalar) Grad(out []float64) {
	s.clearSeeds()
	for i := range s.x {
		s.x[i].Du = 1
		out[i] = s.f(s.x).Du
		s.x[i].Du = 0
	}
}

func (s *Scalar) Diff() float64 {
	return s.f(s.x).Du
}

func (s *Scalar) clearSeeds() {
	for i := range s.x {
		s.x[i].Du = 0
	}
}

// Hyper adapts a closure over HyperDualScalar variables into a Hessian.
// Grad costs n evaluations and Hess n(n+1)/2.
type Hyper struct {
	f func(x []dual.HyperDualScalar) dual.HyperDualScalar
	x []dual.HyperDualScalar
}

// NewHyper returns an n-variable problem evaluating f.
func NewHyper(n int, f func(x []dual.HyperDualScalar) dual.HyperDualScalar) *Hyper {
	return &Hyper{f: f, x: make([]dual.HyperDualScalar, n)}
}

func (h *Hyper) Dim() int { return len(h.x) }

func (h *Hyper) EvalReal() float64 {
	return h.f(h.x).Real
}

func (h *Hyper) UpdateX(x []float64) {
	for i := range h.x {
		h.x[i] = dual.HyperDualScalar{Real: x[i]}
	}
}

// MoveStep seeds both channels with p so that Diff can read either one.
func (h *Hyper) MoveStep(x, p []float64, alpha float64) {
	for i := range h.x {
		h.x[i] = dual.HyperDualScalar{Real: x[i] + alpha*p[i], E1: p[i], E2: p[i]}
	}
}

func (h *Hyper) Grad(out []float64) {
	h.clearSeeds()
	for i := range h.x {
		h.x[i].E1 = 1
		out[i] = h.f(h.x).E1
		h.x[i].E1 = 0
	}
}

func (h *Hyper) Diff() float64 {
	return h.f(h.x).E1
}

func (h *Hyper) Hess(out *mat.SymDense) {
	h.clearSeeds()
	for i := range h.x {
		for j := i; j < len(h.x); j++ {
			h.x[i].E1 = 1
			h.x[j].E2 = 1
			out.SetSym(i, j, h.f(h.x).E1E2)
			h.x[i].E1 = 0
			h.x[j].E2 = 0
		}
	}
}

func (h *Hyper) clearSeeds() {
	for i := range h.x {
		h.x[i].E1, h.x[i].E2, h.x[i].E1E2 = 0, 0, 0
	}
}

// errGradLength is the panic value when a Func closure returns a gradient
// whose length differs from the problem dimension.
const errGradLength = "problem: closure gradient length does not match dimension"

// Func adapts a closure returning a full-gradient Dual into a Gradient.
// The closure receives plain real values and must seed its own variables,
// typically through dual.Variables. Grad and Diff panic when the returned
// gradient does not have exactly Dim entries.
type Func struct {
	f   func(x []float64) dual.Dual
	x   []float64
	dir []float64
}

// NewFunc returns an n-variable problem evaluating f.
func NewFunc(n int, f func(x []float64) dual.Dual) *Func {
	return &Func{f: f, x: make([]float64, n), dir: make([]float64, n)}
}

func (fn *Func) Dim() int { return len(fn.x) }

func (fn *Func) EvalReal() float64 {
	return fn.f(fn.x).Real
}

func (fn *Func) UpdateX(x []float64) {
	copy(fn.x, x)
	for i := range fn.dir {
		fn.dir[i] = 0
	}
}

func (fn *Func) MoveStep(x, p []float64, alpha float64) {
	floats.AddScaledTo(fn.x, x, alpha, p)
	copy(fn.dir, p)
}

func (fn *Func) Grad(out []float64) {
	du := fn.gradient()
	if len(out) != len(du) {
		panic(errGradLength)
	}
	copy(out, du)
}

// Diff returns ⟨∇f, p⟩ for the direction of the last MoveStep.
func (fn *Func) Diff() float64 {
	return floats.Dot(fn.gradient(), fn.dir)
}

func (fn *Func) gradient() []float64 {
	du := fn.f(fn.x).Du
	if len(du) != len(fn.x) {
		panic(errGradLength)
	}
	return du
}
