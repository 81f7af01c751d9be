// Package catalog holds named benchmark problems with known minimizers.
// Each objective is written once over dual.Number and instantiated for the
// first-order (Gradient) and second-order (Hessian) problem adapters.
package catalog

import (
	"math"
	"sort"
	"strings"

	"github.com/copyleftdev/dualopt/internal/optimization"
	"github.com/copyleftdev/dualopt/internal/optimization/dual"
	"github.com/copyleftdev/dualopt/internal/optimization/problem"
)

// Entry describes one catalogued problem.
type Entry struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Dim         int       `json:"dim"` // 0 when any positive count works
	Start       []float64 `json:"start"`

	minimizer func(n int) []float64
	first     func(x []dual.DualScalar) dual.DualScalar
	second    func(x []dual.HyperDualScalar) dual.HyperDualScalar
}

// Gradient returns a fresh first-order problem with n variables. Entries with
// a fixed dimension ignore n.
func (e Entry) Gradient(n int) problem.Gradient {
	return problem.NewScalar(e.dim(n), e.first)
}

// Hessian returns a fresh second-order problem with n variables.
func (e Entry) Hessian(n int) problem.Hessian {
	return problem.NewHyper(e.dim(n), e.second)
}

// Minimizer returns the known global minimizer for n variables.
func (e Entry) Minimizer(n int) []float64 {
	return e.minimizer(e.dim(n))
}

// StartPoint returns a copy of the default starting point.
func (e Entry) StartPoint() []float64 {
	return append([]float64(nil), e.Start...)
}

func (e Entry) dim(n int) int {
	if e.Dim > 0 {
		return e.Dim
	}
	return n
}

var entries = map[string]Entry{
	"trig": {
		Name:        "trig",
		Description: "(cos x1 sin x2 - 0.05)² + (sin x2 - 0.2)² + (x3² - 2.56)²",
		Dim:         3,
		Start:       []float64{1, 1, 1},
		minimizer: func(int) []float64 {
			return []float64{math.Acos(0.25), math.Asin(0.2), 1.6}
		},
		first:  trig[dual.DualScalar],
		second: trig[dual.HyperDualScalar],
	},
	"quadratic": {
		Name:        "quadratic",
		Description: "(x1 - 10)² + (x2 - 2)² + (x3 + 5)²",
		Dim:         3,
		Start:       []float64{0, 0, 0},
		minimizer:   func(int) []float64 { return []float64{10, 2, -5} },
		first:       quadratic[dual.DualScalar],
		second:      quadratic[dual.HyperDualScalar],
	},
	"rosenbrock": {
		Name:        "rosenbrock",
		Description: "(1 - x1)² + 100 (x2 - x1²)²",
		Dim:         2,
		Start:       []float64{-1.2, 1},
		minimizer:   func(int) []float64 { return []float64{1, 1} },
		first:       rosenbrock[dual.DualScalar],
		second:      rosenbrock[dual.HyperDualScalar],
	},
	"sphere": {
		Name:        "sphere",
		Description: "Σ xi²",
		Start:       []float64{3, -4, 1, 2},
		minimizer:   func(n int) []float64 { return make([]float64, n) },
		first:       sphere[dual.DualScalar],
		second:      sphere[dual.HyperDualScalar],
	},
}

// Lookup returns the entry registered under name.
func Lookup(name string) (Entry, error) {
	e, ok := entries[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Entry{}, optimization.WrapErrorf(optimization.ErrInvalidInput, "unknown problem %q", name).
			WithComponent("catalog").WithOperation("Lookup")
	}
	return e, nil
}

// Names lists the registered problems in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every entry ordered by name.
func All() []Entry {
	out := make([]Entry, 0, len(entries))
	for _, name := range Names() {
		out = append(out, entries[name])
	}
	return out
}

func trig[T dual.Number[T]](x []T) T {
	a := x[0].Cos().Mul(x[1].Sin()).SubReal(0.05).Powi(2)
	b := x[1].Sin().SubReal(0.2).Powi(2)
	c := x[2].Powi(2).SubReal(2.56).Powi(2)
	return a.Add(b).Add(c)
}

func quadratic[T dual.Number[T]](x []T) T {
	u1 := x[0].SubReal(10).Powi(2)
	u2 := x[1].SubReal(2).Powi(2)
	u3 := x[2].AddReal(5).Powi(2)
	return u1.Add(u2).Add(u3)
}

func rosenbrock[T dual.Number[T]](x []T) T {
	a := x[0].RealSub(1).Powi(2)
	b := x[1].Sub(x[0].Powi(2)).Powi(2).MulReal(100)
	return a.Add(b)
}

func sphere[T dual.Number[T]](x []T) T {
	sum := x[0].Powi(2)
	for _, v := range x[1:] {
		sum = sum.Add(v.Powi(2))
	}
	return sum
}
