package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/copyleftdev/dualopt/internal/optimization"
)

// Run is a completed minimization kept for later retrieval.
type Run struct {
	ID        string                 `json:"id"`
	Problem   string                 `json:"problem"`
	Method    optimization.Method    `json:"method"`
	X0        []float64              `json:"x0"`
	Settings  optimization.Settings  `json:"settings"`
	Solution  *optimization.Solution `json:"solution"`
	CreatedAt time.Time              `json:"created_at"`
	Duration  time.Duration          `json:"duration_ns"`
}

// History keeps the most recent runs up to a fixed limit and evicts the
// oldest first.
type History struct {
	mu    sync.RWMutex
	limit int
	runs  map[string]*Run
	order []string
}

// NewHistory returns a history holding at most limit runs.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = 1
	}
	return &History{limit: limit, runs: make(map[string]*Run, limit)}
}

// Add assigns run a new id and stores it.
func (h *History) Add(run *Run) string {
	run.ID = uuid.NewString()

	h.mu.Lock()
	defer h.mu.Unlock()
	for len(h.order) >= h.limit {
		delete(h.runs, h.order[0])
		h.order = h.order[1:]
	}
	h.runs[run.ID] = run
	h.order = append(h.order, run.ID)
	return run.ID
}

// Get returns the run stored under id.
func (h *History) Get(id string) (*Run, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	run, ok := h.runs[id]
	return run, ok
}

// Delete forgets id and reports whether it was present.
func (h *History) Delete(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.runs[id]; !ok {
		return false
	}
	delete(h.runs, id)
	for i, v := range h.order {
		if v == id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of stored runs.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.runs)
}
