package optimization

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Method names a minimization algorithm.
type Method string

const (
	// SteepestDescent follows the negative gradient with a strong-Wolfe line search.
	SteepestDescent Method = "steepest"
	// NCG is the Polak-Ribière nonlinear conjugate gradient method.
	NCG Method = "ncg"
	// BFGS is the quasi-Newton method with a dense inverse Hessian approximation.
	BFGS Method = "bfgs"
	// TrustNCG is the trust-region Newton-CG method with a Steihaug subproblem solver.
	TrustNCG Method = "trust-ncg"
)

// Methods lists every supported method in a stable order.
func Methods() []Method {
	return []Method{SteepestDescent, NCG, BFGS, TrustNCG}
}

// ParseMethod converts a user supplied name into a Method.
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "steepest", "steepest-descent", "sd":
		return SteepestDescent, nil
	case "ncg", "cg":
		return NCG, nil
	case "bfgs":
		return BFGS, nil
	case "trust-ncg", "trustncg", "trust":
		return TrustNCG, nil
	}
	return "", WrapErrorf(ErrInvalidInput, "unknown method %q", name).WithOperation("ParseMethod")
}

// NeedsHessian reports whether the method consumes second-order information.
func (m Method) NeedsHessian() bool {
	return m == TrustNCG
}

// Settings overrides solver tuning fields. Zero values keep the solver defaults.
type Settings struct {
	MaxIterations int     `json:"max_iterations,omitempty"`
	GradTol       float64 `json:"gtol,omitempty"`
	C1            float64 `json:"c1,omitempty"`
	C2            float64 `json:"c2,omitempty"`
	AlphaMax      float64 `json:"alpha_max,omitempty"`
	DeltaMax      float64 `json:"delta_max,omitempty"`
}

// Merge returns s with every non-zero field of o applied on top. Negative
// values are carried so that validation can reject them.
func (s Settings) Merge(o Settings) Settings {
	if o.MaxIterations != 0 {
		s.MaxIterations = o.MaxIterations
	}
	if o.GradTol != 0 {
		s.GradTol = o.GradTol
	}
	if o.C1 != 0 {
		s.C1 = o.C1
	}
	if o.C2 != 0 {
		s.C2 = o.C2
	}
	if o.AlphaMax != 0 {
		s.AlphaMax = o.AlphaMax
	}
	if o.DeltaMax != 0 {
		s.DeltaMax = o.DeltaMax
	}
	return s
}

// Solution is the outcome of a single Minimize call.
type Solution struct {
	// X is the last iterate reached.
	X []float64 `json:"x"`
	// F is the objective value at X.
	F float64 `json:"f"`
	// Success is true when the gradient norm dropped below the tolerance
	// before the iteration budget ran out.
	Success bool `json:"success"`

	Iterations    int `json:"iterations"`
	FunctionEvals int `json:"function_evals"`
	GradientEvals int `json:"gradient_evals"`
	HessianEvals  int `json:"hessian_evals"`
}

// solutionJSON shadows the float fields of Solution with JSONFloat.
type solutionJSON struct {
	plainSolution
	X []JSONFloat `json:"x"`
	F JSONFloat   `json:"f"`
}

type plainSolution Solution

// MarshalJSON encodes NaN and ±Inf in X and F as strings, so a run that
// diverged still produces a valid document.
func (s Solution) MarshalJSON() ([]byte, error) {
	out := solutionJSON{plainSolution: plainSolution(s), F: JSONFloat(s.F)}
	if s.X != nil {
		out.X = make([]JSONFloat, len(s.X))
		for i, v := range s.X {
			out.X[i] = JSONFloat(v)
		}
	}
	return json.Marshal(out)
}

func (s *Solution) UnmarshalJSON(data []byte) error {
	var in solutionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*s = Solution(in.plainSolution)
	s.F = float64(in.F)
	s.X = nil
	if in.X != nil {
		s.X = make([]float64, len(in.X))
		for i, v := range in.X {
			s.X[i] = float64(v)
		}
	}
	return nil
}

// JSONFloat is a float64 that encodes NaN, +Inf and -Inf as the strings
// "NaN", "+Inf" and "-Inf". Finite values are plain JSON numbers.
type JSONFloat float64

func (f JSONFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	case math.IsInf(v, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	}
	return json.Marshal(v)
}

func (f *JSONFloat) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"NaN"`:
		*f = JSONFloat(math.NaN())
		return nil
	case `"+Inf"`, `"Inf"`:
		*f = JSONFloat(math.Inf(1))
		return nil
	case `"-Inf"`:
		*f = JSONFloat(math.Inf(-1))
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = JSONFloat(v)
	return nil
}

// String renders a one line summary.
func (s *Solution) String() string {
	return fmt.Sprintf("success=%t iterations=%d f=%g x=%v evals(f=%d g=%d h=%d)",
		s.Success, s.Iterations, s.F, s.X, s.FunctionEvals, s.GradientEvals, s.HessianEvals)
}

// GradientNorm returns the Euclidean norm of g.
func GradientNorm(g []float64) float64 {
	return floats.Norm(g, 2)
}

// Converged reports whether ‖g‖ < tol. A NaN norm never converges.
func Converged(g []float64, tol float64) bool {
	n := GradientNorm(g)
	return !math.IsNaN(n) && n < tol
}
