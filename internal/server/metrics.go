package server

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/copyleftdev/dualopt/internal/optimization"
)

// Metrics are the Prometheus collectors updated after every run.
type Metrics struct {
	Runs        *prometheus.CounterVec
	Iterations  *prometheus.HistogramVec
	Evaluations *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dualopt_runs_total",
			Help: "Completed minimization runs.",
		}, []string{"method", "success"}),
		Iterations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dualopt_iterations",
			Help:    "Iterations taken per run.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 11),
		}, []string{"method"}),
		Evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dualopt_evaluations_total",
			Help: "Objective, gradient and Hessian evaluations.",
		}, []string{"method", "kind"}),
	}
	reg.MustRegister(m.Runs, m.Iterations, m.Evaluations)
	return m
}

// Observe records one finished run.
func (m *Metrics) Observe(method optimization.Method, sol *optimization.Solution) {
	name := string(method)
	m.Runs.WithLabelValues(name, strconv.FormatBool(sol.Success)).Inc()
	m.Iterations.WithLabelValues(name).Observe(float64(sol.Iterations))
	m.Evaluations.WithLabelValues(name, "function").Add(float64(sol.FunctionEvals))
	m.Evaluations.WithLabelValues(name, "gradient").Add(float64(sol.GradientEvals))
	m.Evaluations.WithLabelValues(name, "hessian").Add(float64(sol.HessianEvals))
}
