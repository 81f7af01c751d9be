package trustregion

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// assertSlicesClose fails the test when got and want differ anywhere by more than tol.
func assertSlicesClose(t *testing.T, got, want []float64, tol float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if math.Abs(got[i]-want[i]) > tol {
			t.Fatalf("at index %d: got %v, want %v (tolerance %v)", i, got[i], want[i], tol)
		}
	}
}

// diag builds a diagonal symmetric matrix.
func diag(values ...float64) *mat.SymDense {
	m := mat.NewSymDense(len(values), nil)
	for i, v := range values {
		m.SetSym(i, i, v)
	}
	return m
}
