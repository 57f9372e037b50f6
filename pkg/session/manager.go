// Package session owns the mutable filter state of one log-viewing session
// and orchestrates resolve → query → fetch with cancellation-on-change
// semantics.
package session

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/logsift/logsift/pkg/export"
	"github.com/logsift/logsift/pkg/filter"
	"github.com/logsift/logsift/pkg/logs"
)

// Manager holds the current filter fields, the last successfully fetched
// entries, and the status flags callers observe. All state mutation goes
// through the Manager's single mutex; background fetches commit their
// results only if they have not been superseded.
type Manager struct {
	reader *logs.Reader
	loc    *time.Location
	now    func() time.Time
	log    *slog.Logger

	mu                sync.Mutex
	scope             filter.Scope
	severities        logs.SeveritySet
	excludeSystemLogs bool

	entries         []logs.Entry
	isFetching      bool
	hasValidResults bool
	lastError       error

	// generation identifies the current logical fetch. A background fetch
	// compares its generation before committing; a mismatch means it was
	// superseded and must not touch state.
	generation uint64
	cancel     context.CancelFunc
}

// Option configures a Manager.
type Option func(*Manager)

// WithLocation sets the calendar location used to resolve filter scopes.
// Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(m *Manager) { m.loc = loc }
}

// WithClock overrides the time source used for preset resolution.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithLogger sets the debug logger for fetch and export operations.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// NewManager creates a session over the given reader. The session starts
// with no scope, all severity levels admitted, and no results.
func NewManager(reader *logs.Reader, opts ...Option) *Manager {
	m := &Manager{
		reader:     reader,
		loc:        time.Local,
		now:        time.Now,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		severities: logs.NewSeveritySet(logs.AllSeverities()...),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetScope replaces the filter scope. Any in-flight fetch is cancelled and
// current results are flagged stale.
func (m *Manager) SetScope(s filter.Scope) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scope = s
	m.invalidateLocked()
}

// SetSeverities replaces the admitted severity set. Any in-flight fetch is
// cancelled and current results are flagged stale.
func (m *Manager) SetSeverities(set logs.SeveritySet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.severities = logs.NewSeveritySet(set.Levels()...)
	m.invalidateLocked()
}

// SetExcludeSystemLogs toggles the keep-only-own-subsystem rule. Any
// in-flight fetch is cancelled and current results are flagged stale.
func (m *Manager) SetExcludeSystemLogs(exclude bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.excludeSystemLogs = exclude
	m.invalidateLocked()
}

// invalidateLocked marks results stale and supersedes any in-flight fetch.
// Stale entries are kept (not cleared) until the next fetch settles.
func (m *Manager) invalidateLocked() {
	m.hasValidResults = false
	m.isFetching = false
	m.generation++
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// Fetch resolves the current scope and starts a background retrieval,
// superseding any fetch still in flight. The returned channel is closed
// when this fetch settles (commits, fails, or is discarded after being
// superseded).
//
// A resolution failure is returned synchronously: the session goes stale
// but no error is recorded, since an incomplete filter is not an
// operational fault. Retrieval failures surface through LastError.
func (m *Manager) Fetch() (<-chan struct{}, error) {
	m.mu.Lock()

	// At most one logical fetch is current at a time.
	m.generation++
	gen := m.generation
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}

	window, err := filter.Resolve(m.scope, m.now(), m.loc)
	if err != nil {
		m.isFetching = false
		m.hasValidResults = false
		m.mu.Unlock()
		done := make(chan struct{})
		close(done)
		return done, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.isFetching = true
	m.hasValidResults = false
	query := logs.Query{
		Window:            window,
		ExcludeSystemLogs: m.excludeSystemLogs,
		Severities:        logs.NewSeveritySet(m.severities.Levels()...),
	}
	m.mu.Unlock()

	opID := uuid.NewString()
	m.log.Debug("fetch started",
		"op_id", opID,
		"window_start", window.Start,
		"window_open", window.Open())

	done := make(chan struct{})
	go m.runFetch(ctx, gen, query, opID, done)
	return done, nil
}

// runFetch executes one background retrieval. Cancellation is checked at
// entry and again before committing, so a superseded fetch performs no
// observable state mutation.
func (m *Manager) runFetch(ctx context.Context, gen uint64, query logs.Query, opID string, done chan struct{}) {
	defer close(done)

	if ctx.Err() != nil {
		m.log.Debug("fetch cancelled before query", "op_id", opID)
		return
	}

	entries, err := m.reader.Fetch(ctx, query)

	m.mu.Lock()
	defer m.mu.Unlock()

	if ctx.Err() != nil || gen != m.generation {
		m.log.Debug("fetch superseded, discarding result", "op_id", opID)
		return
	}

	m.isFetching = false
	m.cancel = nil
	if err != nil {
		m.entries = nil
		m.hasValidResults = false
		m.lastError = err
		m.log.Debug("fetch failed", "op_id", opID, "error", err)
		return
	}

	m.entries = entries
	m.hasValidResults = true
	m.lastError = nil
	m.log.Debug("fetch committed", "op_id", opID, "entries", len(entries))
}

// Export renders whatever entries the session currently holds (possibly
// stale or empty) into the given format. It never mutates the filter or
// fetch state; an encoding or compression failure is recorded in LastError
// and returned. A cancelled context aborts without recording anything.
func (m *Manager) Export(ctx context.Context, f export.Format) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	snapshot := make([]logs.Entry, len(m.entries))
	copy(snapshot, m.entries)
	m.mu.Unlock()

	opID := uuid.NewString()
	m.log.Debug("export started", "op_id", opID, "format", export.Name(f), "entries", len(snapshot))

	payload, err := export.Export(snapshot, f)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	if err != nil {
		m.mu.Lock()
		m.lastError = err
		m.mu.Unlock()
		m.log.Debug("export failed", "op_id", opID, "error", err)
		return nil, err
	}

	m.log.Debug("export finished", "op_id", opID, "bytes", len(payload))
	return payload, nil
}

// Logs returns a copy of the last fetched entries.
func (m *Manager) Logs() []logs.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]logs.Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// IsFetching reports whether a fetch is currently in flight.
func (m *Manager) IsFetching() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isFetching
}

// HasValidResults reports whether Logs reflects the current filter fields.
func (m *Manager) HasValidResults() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hasValidResults
}

// LastError returns the most recent retrieval or export error, if any.
func (m *Manager) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastError
}
