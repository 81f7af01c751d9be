package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/copyleftdev/dualopt/internal/logging"
	"github.com/copyleftdev/dualopt/internal/optimization"
	"github.com/copyleftdev/dualopt/internal/optimization/catalog"
	"github.com/copyleftdev/dualopt/internal/optimization/solver"
)

type runOptions struct {
	problem  string
	method   string
	x0       []float64
	settings optimization.Settings
	asJSON   bool
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Minimize a catalogued problem",
		Example: `  dualopt run --problem rosenbrock --method trust-ncg
  dualopt run --problem sphere --x0 1,2,3,4,5,6 --method ncg --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMinimize(cmd, root, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.problem, "problem", "p", "", "Problem name (see 'dualopt problems')")
	f.StringVarP(&opts.method, "method", "m", "", "Solver: steepest, ncg, bfgs, trust-ncg; defaults to SOLVER_METHOD")
	f.Float64SliceVar(&opts.x0, "x0", nil, "Starting point; defaults to the problem's start")
	f.IntVar(&opts.settings.MaxIterations, "max-iter", 0, "Iteration budget (0 keeps the solver default)")
	f.Float64Var(&opts.settings.GradTol, "gtol", 0, "Gradient norm tolerance")
	f.Float64Var(&opts.settings.C1, "c1", 0, "Sufficient decrease constant")
	f.Float64Var(&opts.settings.C2, "c2", 0, "Curvature constant")
	f.Float64Var(&opts.settings.AlphaMax, "alpha-max", 0, "Largest line search step")
	f.Float64Var(&opts.settings.DeltaMax, "delta-max", 0, "Largest trust radius")
	f.BoolVar(&opts.asJSON, "json", false, "Print the solution as JSON")
	_ = cmd.MarkFlagRequired("problem")
	return cmd
}

func runMinimize(cmd *cobra.Command, root *rootOptions, opts *runOptions) error {
	entry, err := catalog.Lookup(opts.problem)
	if err != nil {
		return err
	}

	name := opts.method
	if name == "" {
		name = root.cfg.Solver.Method
	}
	method, err := optimization.ParseMethod(name)
	if err != nil {
		return err
	}

	settings := root.cfg.Settings().Merge(opts.settings)

	logger := root.logger.WithFields(logging.Fields{"problem": entry.Name})
	sol, err := solver.Run(method, entry, opts.x0, settings, logging.NewZapLogger(logger))
	if err != nil {
		return fmt.Errorf("%s on %s: %w", method, entry.Name, err)
	}

	if opts.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(sol)
	}
	return printSolution(cmd.OutOrStdout(), entry, method, sol)
}

func printSolution(w io.Writer, e catalog.Entry, m optimization.Method, sol *optimization.Solution) error {
	status := "converged"
	if !sol.Success {
		status = "stopped without converging"
	}
	_, err := fmt.Fprintf(w, `%s / %s: %s
  x          %v
  f(x)       %.6g
  iterations %d
  evals      f=%d g=%d h=%d
`, e.Name, m, status, sol.X, sol.F, sol.Iterations, sol.FunctionEvals, sol.GradientEvals, sol.HessianEvals)
	return err
}
