package logs

import (
	"context"
	"math"
	"time"

	"github.com/logsift/logsift/pkg/errors"
	"github.com/logsift/logsift/pkg/filter"
)

// Query bundles a resolved time window with the inclusion rules applied
// after retrieval. Queries are built fresh per fetch and never mutated.
type Query struct {
	Window filter.Window

	// ExcludeSystemLogs keeps only entries whose subsystem matches the
	// reader's own subsystem identifier. Note the literal behavior: it
	// drops everything that is not the application's own logs, not just
	// OS subsystems, despite what the name suggests.
	ExcludeSystemLogs bool

	// Severities is the set of admitted levels. An empty set admits nothing.
	Severities SeveritySet
}

// Reader executes queries against a log source and adapts raw records into
// entries. A Reader is safe for concurrent use; the ID sequence is scoped to
// each Fetch call.
type Reader struct {
	source       Source
	sourceName   string
	ownSubsystem string
}

// NewReader creates a Reader over the given source. ownSubsystem is the
// current process's subsystem identifier, used for the exclude-system-logs
// comparison. sourceName only appears in error messages.
func NewReader(source Source, sourceName, ownSubsystem string) *Reader {
	return &Reader{
		source:       source,
		sourceName:   sourceName,
		ownSubsystem: ownSubsystem,
	}
}

// Fetch retrieves all entries matching the query. The result is
// all-or-nothing: a source failure returns no entries. Entries are returned
// in the order the source produced them, with identifiers that preserve
// that order for equal timestamps.
func (r *Reader) Fetch(ctx context.Context, q Query) ([]Entry, error) {
	records, err := r.source.Query(ctx, Predicate{Start: q.Window.Start, End: q.Window.End})
	if err != nil {
		return nil, errors.RetrievalError(r.sourceName, err)
	}

	gen := newIDGenerator()
	entries := make([]Entry, 0, len(records))
	for _, rec := range records {
		// The source may yield heterogeneous record kinds; only log
		// records become entries.
		if rec.Kind != KindLog {
			continue
		}
		if q.ExcludeSystemLogs && rec.Subsystem != r.ownSubsystem {
			continue
		}
		sev := Severity(rec.Level)
		if !sev.Valid() {
			sev = SeverityUndefined
		}
		if !q.Severities.Contains(sev) {
			continue
		}
		entries = append(entries, Entry{
			ID:        gen.next(rec.Timestamp),
			Timestamp: rec.Timestamp,
			Severity:  sev,
			Subsystem: rec.Subsystem,
			Category:  rec.Category,
			Message:   rec.Message,
		})
	}
	return entries, nil
}

// idGenerator produces identifiers that combine a microsecond timestamp
// (high 48 bits) with a rolling 16-bit sequence (low bits). IDs are unique
// and strictly increasing within one Fetch, even when consecutive records
// share a microsecond. They are not globally unique across fetches.
type idGenerator struct {
	lastMicros int64
	seq        uint16
	primed     bool
}

func newIDGenerator() *idGenerator {
	return &idGenerator{}
}

func (g *idGenerator) next(t time.Time) uint64 {
	micros := t.UnixMicro()
	if !g.primed || micros > g.lastMicros {
		g.lastMicros = micros
		g.seq = 0
		g.primed = true
	} else if g.seq == math.MaxUint16 {
		// Sequence exhausted within one microsecond; borrow the next one.
		g.lastMicros++
		g.seq = 0
	} else {
		// Same or earlier microsecond: hold the clock and advance the
		// sequence so IDs stay strictly increasing.
		g.seq++
	}
	return uint64(g.lastMicros)<<16 | uint64(g.seq)
}
