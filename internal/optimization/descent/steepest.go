package descent

import (
	"go.uber.org/zap"

	"github.com/copyleftdev/dualopt/internal/optimization"
	"github.com/copyleftdev/dualopt/internal/optimization/linesearch"
	"github.com/copyleftdev/dualopt/internal/optimization/problem"
)

// SteepestDescent searches along the negative gradient at every iterate.
type SteepestDescent struct {
	IMax int
	GTol float64
	// LineSearch defaults to a strong-Wolfe search with c2 = 0.1.
	LineSearch *linesearch.Wolfe
	Logger     *zap.Logger
}

// NewSteepestDescent returns a solver with the default settings.
func NewSteepestDescent() *SteepestDescent {
	return &SteepestDescent{IMax: 1000, GTol: 1e-6}
}

// Minimize runs from x0 until ‖∇f‖ < GTol or IMax iterations have been taken.
func (sd *SteepestDescent) Minimize(x0 []float64, p problem.Gradient) (*optimization.Solution, error) {
	sd.LineSearch = lineSearchWithC2(sd.LineSearch, 0.1)
	d := &driver{name: "steepest", iMax: sd.IMax, gTol: sd.GTol, lineSearch: sd.LineSearch, logger: sd.Logger}
	return d.minimize(x0, p, steepestRule{})
}

type steepestRule struct{}

func (steepestRule) start(st *state) { steepest(st) }
func (steepestRule) guess(st *state) float64 { return decreaseGuess(st) }
func (steepestRule) update(st *state) { steepest(st) }
