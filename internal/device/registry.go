package device

import (
	"sort"
	"sync"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// ChangeFunc is invoked after a device's snapshot changes.
// Callbacks run on the goroutine that delivered the update and must not
// call back into the Registry's write path.
type ChangeFunc func(deviceID string)

// Registry is the in-memory store of the latest device snapshots.
//
// The bus writes snapshots in as they arrive; the resolver reads them out
// synchronously during a refresh. Snapshots are stored and returned by
// value, so a resolution in progress never observes a partial update.
//
// All public methods are thread-safe.
type Registry struct {
	mu        sync.RWMutex
	snapshots map[string]Snapshot

	subMu       sync.Mutex
	subscribers map[int]subscriber
	nextSubID   int

	logger Logger
}

// subscriber is one registered change listener with its device filter.
type subscriber struct {
	devices map[string]struct{} // empty means all devices
	fn      ChangeFunc
}

// NewRegistry creates an empty snapshot registry.
func NewRegistry() *Registry {
	return &Registry{
		snapshots:   make(map[string]Snapshot),
		subscribers: make(map[int]subscriber),
		logger:      noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// State returns the latest snapshot for a device.
// It implements StateReader; the returned snapshot is an independent copy.
func (r *Registry) State(deviceID string) (Snapshot, bool) {
	r.mu.RLock()
	snap, ok := r.snapshots[deviceID]
	r.mu.RUnlock()
	if !ok {
		return Snapshot{}, false
	}
	return snap.Clone(), true
}

// Put stores a device snapshot and notifies interested subscribers.
// The snapshot is copied in, so the caller may reuse its value.
func (r *Registry) Put(snap Snapshot) {
	if snap.ID == "" {
		r.logger.Warn("discarding snapshot with empty device id")
		return
	}

	r.mu.Lock()
	r.snapshots[snap.ID] = snap.Clone()
	r.mu.Unlock()

	r.notify(snap.ID)
}

// Remove deletes a device's snapshot, e.g. after the bus marks it gone.
// Subscribers are notified so a refresh can observe the disappearance.
func (r *Registry) Remove(deviceID string) {
	r.mu.Lock()
	_, existed := r.snapshots[deviceID]
	delete(r.snapshots, deviceID)
	r.mu.Unlock()

	if existed {
		r.notify(deviceID)
	}
}

// All returns a copy of every known snapshot, sorted by device id.
func (r *Registry) All() []Snapshot {
	r.mu.RLock()
	snaps := make([]Snapshot, 0, len(r.snapshots))
	for _, snap := range r.snapshots {
		snaps = append(snaps, snap.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(snaps, func(i, j int) bool { return snaps[i].ID < snaps[j].ID })
	return snaps
}

// Count returns the number of devices with a known snapshot.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.snapshots)
}

// Subscribe registers a change listener for the listed devices.
// An empty device list subscribes to every device.
//
// Returns an unsubscribe function; calling it releases the subscription and
// is safe to call more than once.
func (r *Registry) Subscribe(deviceIDs []string, fn ChangeFunc) func() {
	filter := make(map[string]struct{}, len(deviceIDs))
	for _, id := range deviceIDs {
		filter[id] = struct{}{}
	}

	r.subMu.Lock()
	id := r.nextSubID
	r.nextSubID++
	r.subscribers[id] = subscriber{devices: filter, fn: fn}
	r.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.subMu.Lock()
			delete(r.subscribers, id)
			r.subMu.Unlock()
		})
	}
}

// notify invokes the callbacks of every subscriber interested in deviceID.
func (r *Registry) notify(deviceID string) {
	r.subMu.Lock()
	fns := make([]ChangeFunc, 0, len(r.subscribers))
	for _, sub := range r.subscribers {
		if len(sub.devices) > 0 {
			if _, ok := sub.devices[deviceID]; !ok {
				continue
			}
		}
		fns = append(fns, sub.fn)
	}
	r.subMu.Unlock()

	for _, fn := range fns {
		fn(deviceID)
	}
}
