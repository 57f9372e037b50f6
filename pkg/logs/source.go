package logs

import (
	"context"
	"time"
)

// RecordKind discriminates the record shapes a log store may yield. Only
// KindLog records become entries; everything else is dropped by the Reader.
type RecordKind int

const (
	KindLog RecordKind = iota
	KindActivity
	KindSignpost
)

// RawRecord is a record as yielded by a log source, before filtering and
// ID assignment. Level is the source's severity ordinal (0–5).
type RawRecord struct {
	Kind      RecordKind
	Timestamp time.Time
	Level     int
	Subsystem string
	Category  string
	Message   string
}

// Predicate bounds a source query to [Start, End). A zero End means no
// upper bound.
type Predicate struct {
	Start time.Time
	End   time.Time
}

// Matches reports whether the record's timestamp falls inside the predicate.
func (p Predicate) Matches(r RawRecord) bool {
	if r.Timestamp.Before(p.Start) {
		return false
	}
	return p.End.IsZero() || r.Timestamp.Before(p.End)
}

// Source is the interface log store adapters must implement. Sources are
// read-only and safe for concurrent independent queries.
type Source interface {
	// Query retrieves every record whose timestamp satisfies the predicate.
	Query(ctx context.Context, p Predicate) ([]RawRecord, error)
}

// Tailer is implemented by sources that can stream records live.
type Tailer interface {
	// Tail returns a live record stream matching the predicate.
	Tail(ctx context.Context, p Predicate) (*Stream, error)
}

// Stream represents a live record stream.
// Records are delivered on the Records channel. The Err channel receives
// any non-nil error that terminates the stream. Both channels are closed
// when the stream ends.
type Stream struct {
	Records <-chan RawRecord
	Err     <-chan error
	close   func()
}

// NewStream creates a Stream backed by the provided channels and closer.
func NewStream(records <-chan RawRecord, errs <-chan error, closer func()) *Stream {
	return &Stream{
		Records: records,
		Err:     errs,
		close:   closer,
	}
}

// Close terminates the stream and releases resources.
func (s *Stream) Close() error {
	if s.close != nil {
		s.close()
	}
	return nil
}
