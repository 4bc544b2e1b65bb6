package history

import (
	"context"
	"sync"

	"github.com/elupus/media-stack-core/internal/stack"
)

// Recorder turns the stream of projections into history rows, skipping
// refreshes that did not change the composite status or source. Volume
// wobble alone is not a transition.
type Recorder struct {
	repo Repository

	mu         sync.Mutex
	primed     bool
	lastStatus string
	lastSource string
}

// NewRecorder creates a Recorder writing to the given repository.
func NewRecorder(repo Repository) *Recorder {
	return &Recorder{repo: repo}
}

// Observe records the projection as a transition if it differs from the
// previously observed one. Returns the repository error, if any.
func (r *Recorder) Observe(ctx context.Context, proj stack.Projection) error {
	status := string(proj.Status)

	r.mu.Lock()
	changed := !r.primed || status != r.lastStatus || proj.Source != r.lastSource
	r.primed = true
	r.lastStatus = status
	r.lastSource = proj.Source
	r.mu.Unlock()

	if !changed {
		return nil
	}

	return r.repo.RecordTransition(ctx, &Transition{
		Status:       status,
		Source:       proj.Source,
		SourceDevice: proj.SourceDevice,
		SinkDevice:   proj.SinkDevice,
		Volume:       proj.Volume,
	})
}

// ObserveCycle records one wiring cycle break.
func (r *Recorder) ObserveCycle(ctx context.Context, deviceID, source, target string) error {
	return r.repo.RecordCycle(ctx, &CycleEvent{
		DeviceID: deviceID,
		Source:   source,
		Target:   target,
	})
}
