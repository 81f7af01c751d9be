// Package server exposes the solvers over HTTP: a small REST API, a
// JSON-RPC 2.0 endpoint and Prometheus metrics. Every request runs
// synchronously on a fresh problem instance.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/copyleftdev/dualopt/internal/config"
	"github.com/copyleftdev/dualopt/internal/logging"
	"github.com/copyleftdev/dualopt/internal/optimization"
	"github.com/copyleftdev/dualopt/internal/optimization/catalog"
	"github.com/copyleftdev/dualopt/internal/optimization/solver"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// ErrRunNotFound is returned for unknown run ids.
var ErrRunNotFound = errors.New("run not found")

// MinimizeRequest selects a catalogued problem and how to solve it.
type MinimizeRequest struct {
	Problem string `json:"problem"`
	// Method defaults to the configured solver.
	Method string `json:"method,omitempty"`
	// X0 defaults to the problem's start point.
	X0 []float64 `json:"x0,omitempty"`
	// Settings override the configured defaults field by field.
	Settings optimization.Settings `json:"settings"`
}

// Server implements the HTTP and JSON-RPC handlers.
type Server struct {
	cfg     *config.Config
	logger  *logging.Logger
	history *History
	metrics *Metrics
}

// NewServer returns a server registering its metrics with reg.
func NewServer(cfg *config.Config, logger *logging.Logger, reg prometheus.Registerer) *Server {
	return &Server{
		cfg:     cfg,
		logger:  logger,
		history: NewHistory(cfg.Server.HistoryLimit),
		metrics: NewMetrics(reg),
	}
}

func (s *Server) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/minimize", s.handleMinimize)
		r.Get("/runs/{id}", s.handleGetRun)
		r.Delete("/runs/{id}", s.handleDeleteRun)
		r.Get("/problems", s.handleProblems)
	})

	r.Post("/rpc", s.handleJSONRPC)
}

// Minimize runs one request to completion and stores the result.
// Non-convergence is reported in the solution, not as an error.
func (s *Server) Minimize(req MinimizeRequest) (*Run, error) {
	entry, err := catalog.Lookup(req.Problem)
	if err != nil {
		return nil, err
	}

	method, err := s.cfg.Method()
	if req.Method != "" {
		method, err = optimization.ParseMethod(req.Method)
	}
	if err != nil {
		return nil, err
	}

	settings := s.cfg.Settings().Merge(req.Settings)
	if err := s.checkLimits(req.X0, settings); err != nil {
		return nil, err
	}
	logger := s.logger.WithFields(logging.Fields{
		"problem": entry.Name,
		"method":  string(method),
	})

	start := time.Now()
	sol, err := solver.Run(method, entry, req.X0, settings, logging.NewZapLogger(logger))
	if err != nil {
		return nil, err
	}

	x0 := req.X0
	if x0 == nil {
		x0 = entry.StartPoint()
	}
	run := &Run{
		Problem:   entry.Name,
		Method:    method,
		X0:        x0,
		Settings:  settings,
		Solution:  sol,
		CreatedAt: start.UTC(),
		Duration:  time.Since(start),
	}
	s.history.Add(run)
	s.metrics.Observe(method, sol)

	logger.Info("run stored", logging.Fields{
		"run_id":     run.ID,
		"success":    sol.Success,
		"iterations": sol.Iterations,
	})
	return run, nil
}

// checkLimits bounds the work a single request may ask for. A zero
// MaxIterations keeps the solver default and is not checked.
func (s *Server) checkLimits(x0 []float64, settings optimization.Settings) error {
	limits := s.cfg.Server
	if limits.MaxDim > 0 && len(x0) > limits.MaxDim {
		return optimization.WrapErrorf(optimization.ErrInvalidInput,
			"x0 has %d variables, the limit is %d", len(x0), limits.MaxDim).
			WithComponent("server").WithOperation("Minimize")
	}
	if limits.MaxIterations > 0 && settings.MaxIterations > limits.MaxIterations {
		return optimization.WrapErrorf(optimization.ErrInvalidInput,
			"max_iterations %d exceeds the limit %d", settings.MaxIterations, limits.MaxIterations).
			WithComponent("server").WithOperation("Minimize")
	}
	return nil
}

// problemList is the body of GET /api/v1/problems and problems.list.
type problemList struct {
	Problems []catalog.Entry       `json:"problems"`
	Methods  []optimization.Method `json:"methods"`
}

func listProblems() problemList {
	return problemList{Problems: catalog.All(), Methods: optimization.Methods()}
}

func (s *Server) handleMinimize(w http.ResponseWriter, r *http.Request) {
	var req MinimizeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	run, err := s.Minimize(req)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, ok := s.history.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, ErrRunNotFound)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	if !s.history.Delete(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, ErrRunNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleProblems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, listProblems())
}

// statusFor maps solver errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, optimization.ErrInvalidInput), errors.Is(err, optimization.ErrDimensionMismatch):
		return http.StatusBadRequest
	case errors.Is(err, ErrRunNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON encodes v before writing the header. An encoding failure is
// answered with a 500.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := encodeJSON(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = encodeJSON(map[string]string{"error": fmt.Sprintf("encode response: %v", err)})
	}
	writeBody(w, status, body)
}

func encodeJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeBody(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
