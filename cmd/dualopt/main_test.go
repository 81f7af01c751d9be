package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyleftdev/dualopt/internal/optimization"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestProblemsCommand(t *testing.T) {
	out, _, err := execute(t, "problems")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	for _, name := range []string{"quadratic", "rosenbrock", "sphere", "trig"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "any")
}

func TestRunCommandText(t *testing.T) {
	out, _, err := execute(t, "run", "--problem", "quadratic", "--method", "ncg")
	require.NoError(t, err)
	assert.Contains(t, out, "quadratic / ncg: converged")
	assert.Contains(t, out, "iterations 1")
}

func TestRunCommandJSON(t *testing.T) {
	out, _, err := execute(t, "run", "-p", "sphere", "-m", "trust", "--x0", "1,2,3,4,5,6", "--json")
	require.NoError(t, err)

	var sol optimization.Solution
	require.NoError(t, json.Unmarshal([]byte(out), &sol))
	assert.True(t, sol.Success)
	assert.Len(t, sol.X, 6)
	assert.Positive(t, sol.HessianEvals)
}

func TestRunCommandBudget(t *testing.T) {
	out, _, err := execute(t, "run", "-p", "rosenbrock", "-m", "steepest", "--max-iter", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "stopped without converging")
	assert.Contains(t, out, "iterations 3")
}

func TestRunCommandLogsToStderr(t *testing.T) {
	_, errOut, err := execute(t, "run", "-p", "trig", "--log-level", "info")
	require.NoError(t, err)
	assert.Contains(t, errOut, `"message":"minimization finished"`)
	assert.Contains(t, errOut, `"problem":"trig"`)
}

func TestRunCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing problem", args: []string{"run"}},
		{name: "unknown problem", args: []string{"run", "-p", "booth"}},
		{name: "unknown method", args: []string{"run", "-p", "trig", "-m", "anneal"}},
		{name: "dimension", args: []string{"run", "-p", "trig", "--x0", "1,2"}},
		{name: "stray argument", args: []string{"problems", "extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}
