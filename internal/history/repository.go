// Package history persists composite player transitions and wiring cycle
// events to SQLite for the REST API's history endpoints.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Transition is one recorded change of the composite player's state.
type Transition struct {
	ID           string    `json:"id"`
	Status       string    `json:"status"`
	Source       string    `json:"source,omitempty"`
	SourceDevice string    `json:"source_device,omitempty"`
	SinkDevice   string    `json:"sink_device,omitempty"`
	Volume       *float64  `json:"volume,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// CycleEvent is one recorded wiring cycle break during resolution.
type CycleEvent struct {
	ID        string    `json:"id"`
	DeviceID  string    `json:"device_id"`
	Source    string    `json:"source"`
	Target    string    `json:"target"`
	CreatedAt time.Time `json:"created_at"`
}

// Filter controls which transitions to return.
type Filter struct {
	Since  time.Time // optional: only transitions at or after this instant
	Limit  int       // default 50, max 500
	Offset int       // pagination offset
}

// Repository defines the interface for history persistence.
type Repository interface {
	RecordTransition(ctx context.Context, tr *Transition) error
	RecordCycle(ctx context.Context, ev *CycleEvent) error
	ListTransitions(ctx context.Context, filter Filter) ([]Transition, error)
	ListCycles(ctx context.Context, limit int) ([]CycleEvent, error)
}

// Pagination bounds for history queries.
const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// SQLiteRepository stores history in SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates the history repository and its tables.
func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	r := &SQLiteRepository{db: db}
	if err := r.createTables(); err != nil {
		return nil, err
	}
	return r, nil
}

// createTables creates the history schema if it does not exist.
func (r *SQLiteRepository) createTables() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS player_transitions (
		id            TEXT PRIMARY KEY,
		status        TEXT NOT NULL,
		source        TEXT,
		source_device TEXT,
		sink_device   TEXT,
		volume        REAL,
		created_at    TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_transitions_created_at
		ON player_transitions(created_at);

	CREATE TABLE IF NOT EXISTS cycle_events (
		id         TEXT PRIMARY KEY,
		device_id  TEXT NOT NULL,
		source     TEXT NOT NULL,
		target     TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_cycle_events_created_at
		ON cycle_events(created_at);
	`
	if _, err := r.db.Exec(schema); err != nil {
		return fmt.Errorf("creating history schema: %w", err)
	}
	return nil
}

// RecordTransition inserts one composite transition.
// The ID and CreatedAt are generated if empty.
func (r *SQLiteRepository) RecordTransition(ctx context.Context, tr *Transition) error {
	if tr.ID == "" {
		tr.ID = "trn-" + uuid.NewString()[:8]
	}
	if tr.CreatedAt.IsZero() {
		tr.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO player_transitions (id, status, source, source_device, sink_device, volume, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tr.ID, tr.Status,
		nullableString(tr.Source), nullableString(tr.SourceDevice), nullableString(tr.SinkDevice),
		tr.Volume,
		tr.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting transition: %w", err)
	}
	return nil
}

// RecordCycle inserts one wiring cycle event.
// The ID and CreatedAt are generated if empty.
func (r *SQLiteRepository) RecordCycle(ctx context.Context, ev *CycleEvent) error {
	if ev.ID == "" {
		ev.ID = "cyc-" + uuid.NewString()[:8]
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO cycle_events (id, device_id, source, target, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		ev.ID, ev.DeviceID, ev.Source, ev.Target,
		ev.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting cycle event: %w", err)
	}
	return nil
}

// ListTransitions returns transitions matching the filter, most recent
// first.
func (r *SQLiteRepository) ListTransitions(ctx context.Context, filter Filter) ([]Transition, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	query := `SELECT id, status, source, source_device, sink_device, volume, created_at
		FROM player_transitions`
	var args []any
	if !filter.Since.IsZero() {
		query += ` WHERE created_at >= ?`
		args = append(args, filter.Since.UTC().Format(time.RFC3339Nano))
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying transitions: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	var out []Transition
	for rows.Next() {
		var tr Transition
		var source, sourceDevice, sinkDevice sql.NullString
		var createdAt string
		if err := rows.Scan(&tr.ID, &tr.Status, &source, &sourceDevice, &sinkDevice, &tr.Volume, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning transition: %w", err)
		}
		tr.Source = source.String
		tr.SourceDevice = sourceDevice.String
		tr.SinkDevice = sinkDevice.String
		tr.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing transition timestamp: %w", err)
		}
		out = append(out, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transitions: %w", err)
	}
	return out, nil
}

// ListCycles returns the most recent cycle events.
func (r *SQLiteRepository) ListCycles(ctx context.Context, limit int) ([]CycleEvent, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, device_id, source, target, created_at
		 FROM cycle_events ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying cycle events: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	var out []CycleEvent
	for rows.Next() {
		var ev CycleEvent
		var createdAt string
		if err := rows.Scan(&ev.ID, &ev.DeviceID, &ev.Source, &ev.Target, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning cycle event: %w", err)
		}
		ev.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing cycle timestamp: %w", err)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cycle events: %w", err)
	}
	return out, nil
}

// nullableString returns nil for empty strings, for nullable TEXT columns.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
