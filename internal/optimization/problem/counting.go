package problem

import "gonum.org/v1/gonum/mat"

// Counting wraps a problem and records how often each capability is used.
// Hess panics when the wrapped problem does not implement Hessian.
type Counting struct {
	Problem Gradient

	Evals    int
	Grads    int
	Diffs    int
	Hessians int
	Updates  int
	Moves    int
}

// Count wraps p.
func Count(p Gradient) *Counting {
	return &Counting{Problem: p}
}

func (c *Counting) EvalReal() float64 {
	c.Evals++
	return c.Problem.EvalReal()
}

func (c *Counting) UpdateX(x []float64) {
	c.Updates++
	c.Problem.UpdateX(x)
}

func (c *Counting) MoveStep(x, p []float64, alpha float64) {
	c.Moves++
	c.Problem.MoveStep(x, p, alpha)
}

func (c *Counting) Grad(out []float64) {
	c.Grads++
	c.Problem.Grad(out)
}

func (c *Counting) Diff() float64 {
	c.Diffs++
	return c.Problem.Diff()
}

func (c *Counting) Hess(out *mat.SymDense) {
	c.Hessians++
	c.Problem.(Hessian).Hess(out)
}

// Dim forwards to the wrapped problem, or returns 0 (unknown) when it is
// not Dimensioned.
func (c *Counting) Dim() int {
	if d, ok := c.Problem.(Dimensioned); ok {
		return d.Dim()
	}
	return 0
}
