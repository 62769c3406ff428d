// Package accumulator holds the shared, mutex-guarded collection of
// working stream results a run has produced so far, read by the
// checkpointer and the final organizer pass.
package accumulator

import (
	"sync"

	"github.com/ang3lo-azevedo/m3umine/internal/model"
)

// Accumulator collects working StreamResults as probers produce them.
type Accumulator struct {
	mu      sync.Mutex
	working []model.StreamResult
}

// New returns an empty Accumulator.
func New() *Accumulator {
	return &Accumulator{}
}

// Append records a working stream result.
func (a *Accumulator) Append(r model.StreamResult) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.working = append(a.working, r)
}

// Snapshot returns a point-in-time copy of the accumulated results.
func (a *Accumulator) Snapshot() []model.StreamResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]model.StreamResult, len(a.working))
	copy(out, a.working)
	return out
}

// Len reports how many working results have been accumulated.
func (a *Accumulator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.working)
}
