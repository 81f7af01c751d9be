package descent

import (
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/copyleftdev/dualopt/internal/optimization"
	"github.com/copyleftdev/dualopt/internal/optimization/linesearch"
	"github.com/copyleftdev/dualopt/internal/optimization/problem"
)

// NCG is the Polak-Ribière nonlinear conjugate gradient method with the
// β = max(0, β_PR) restart rule.
type NCG struct {
	IMax int
	GTol float64
	// LineSearch defaults to a strong-Wolfe search with c2 = 0.1.
	LineSearch *linesearch.Wolfe
	Logger     *zap.Logger
}

// NewNCG returns a solver with the default settings.
func NewNCG() *NCG {
	return &NCG{IMax: 1000, GTol: 1e-6}
}

// Minimize runs from x0 until ‖∇f‖ < GTol or IMax iterations have been taken.
func (cg *NCG) Minimize(x0 []float64, p problem.Gradient) (*optimization.Solution, error) {
	cg.LineSearch = lineSearchWithC2(cg.LineSearch, 0.1)
	d := &driver{name: "ncg", iMax: cg.IMax, gTol: cg.GTol, lineSearch: cg.LineSearch, logger: cg.Logger}
	return d.minimize(x0, p, polakRibiere{})
}

type polakRibiere struct{}

func (polakRibiere) start(st *state)         { steepest(st) }
func (polakRibiere) guess(st *state) float64 { return decreaseGuess(st) }

// update sets p = -g + βp with β = max(0, ⟨g, g - g_old⟩ / ⟨g_old, g_old⟩).
// A direction that is not downhill is replaced by -g.
func (polakRibiere) update(st *state) {
	beta := (floats.Dot(st.g, st.g) - floats.Dot(st.g, st.gOld)) / floats.Dot(st.gOld, st.gOld)
	if !(beta > 0) || math.IsInf(beta, 0) {
		beta = 0
	}
	floats.Scale(beta, st.p)
	floats.Sub(st.p, st.g)
	if !(floats.Dot(st.g, st.p) < 0) {
		steepest(st)
	}
}
