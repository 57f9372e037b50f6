package logs

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logsift/logsift/pkg/errors"
	"github.com/logsift/logsift/pkg/filter"
)

const ownSubsystem = "com.example.logsift"

type stubSource struct {
	records []RawRecord
	err     error

	gotPredicate Predicate
}

func (s *stubSource) Query(ctx context.Context, p Predicate) ([]RawRecord, error) {
	s.gotPredicate = p
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func at(h, m int) time.Time {
	return time.Date(2026, 8, 23, h, m, 0, 0, time.UTC)
}

func rec(ts time.Time, level int, subsystem, msg string) RawRecord {
	return RawRecord{
		Kind:      KindLog,
		Timestamp: ts,
		Level:     level,
		Subsystem: subsystem,
		Category:  "general",
		Message:   msg,
	}
}

func allLevelsQuery() Query {
	return Query{
		Window:     filter.Window{Start: at(0, 0), End: at(23, 59)},
		Severities: NewSeveritySet(AllSeverities()...),
	}
}

func TestReader_Fetch_MapsRecords(t *testing.T) {
	src := &stubSource{records: []RawRecord{
		rec(at(9, 0), int(SeverityInfo), "other.subsystem", "hello"),
		rec(at(10, 0), int(SeverityError), ownSubsystem, "boom"),
	}}
	r := NewReader(src, "stub", ownSubsystem)

	entries, err := r.Fetch(context.Background(), allLevelsQuery())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "hello", entries[0].Message)
	assert.Equal(t, SeverityInfo, entries[0].Severity)
	assert.Equal(t, "other.subsystem", entries[0].Subsystem)
	assert.Equal(t, "general", entries[0].Category)
	assert.Equal(t, at(9, 0), entries[0].Timestamp)

	// The predicate passed down must mirror the query window.
	assert.Equal(t, at(0, 0), src.gotPredicate.Start)
	assert.Equal(t, at(23, 59), src.gotPredicate.End)
}

func TestReader_Fetch_DropsNonLogRecords(t *testing.T) {
	src := &stubSource{records: []RawRecord{
		{Kind: KindActivity, Timestamp: at(9, 0), Message: "activity"},
		{Kind: KindSignpost, Timestamp: at(9, 1), Message: "signpost"},
		rec(at(9, 2), int(SeverityInfo), ownSubsystem, "keep me"),
	}}
	r := NewReader(src, "stub", ownSubsystem)

	entries, err := r.Fetch(context.Background(), allLevelsQuery())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "keep me", entries[0].Message)
}

func TestReader_Fetch_ExcludeSystemLogsKeepsOnlyOwnSubsystem(t *testing.T) {
	src := &stubSource{records: []RawRecord{
		rec(at(9, 0), int(SeverityInfo), ownSubsystem, "mine"),
		rec(at(9, 1), int(SeverityInfo), "com.apple.network", "theirs"),
		rec(at(9, 2), int(SeverityInfo), "", "anonymous"),
	}}
	r := NewReader(src, "stub", ownSubsystem)

	q := allLevelsQuery()
	q.ExcludeSystemLogs = true
	entries, err := r.Fetch(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "mine", entries[0].Message)
}

func TestReader_Fetch_SeverityMembership(t *testing.T) {
	src := &stubSource{records: []RawRecord{
		rec(at(9, 0), int(SeverityDebug), ownSubsystem, "debug"),
		rec(at(9, 1), int(SeverityError), ownSubsystem, "error"),
		rec(at(9, 2), int(SeverityFault), ownSubsystem, "fault"),
	}}
	r := NewReader(src, "stub", ownSubsystem)

	q := allLevelsQuery()
	q.Severities = NewSeveritySet(SeverityError, SeverityFault)
	entries, err := r.Fetch(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "error", entries[0].Message)
	assert.Equal(t, "fault", entries[1].Message)
}

func TestReader_Fetch_EmptySeveritySetMatchesNothing(t *testing.T) {
	src := &stubSource{records: []RawRecord{
		rec(at(9, 0), int(SeverityError), ownSubsystem, "would match otherwise"),
	}}
	r := NewReader(src, "stub", ownSubsystem)

	q := allLevelsQuery()
	q.Severities = NewSeveritySet()
	entries, err := r.Fetch(context.Background(), q)
	require.NoError(t, err)
	assert.Empty(t, entries, "an empty severity set admits nothing, not everything")
}

func TestReader_Fetch_OutOfRangeLevelBecomesUndefined(t *testing.T) {
	src := &stubSource{records: []RawRecord{
		rec(at(9, 0), 42, ownSubsystem, "weird level"),
	}}
	r := NewReader(src, "stub", ownSubsystem)

	entries, err := r.Fetch(context.Background(), allLevelsQuery())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, SeverityUndefined, entries[0].Severity)
}

func TestReader_Fetch_SourceFailureIsAllOrNothing(t *testing.T) {
	src := &stubSource{err: stderrors.New("store unreachable")}
	r := NewReader(src, "stub", ownSubsystem)

	entries, err := r.Fetch(context.Background(), allLevelsQuery())
	require.Error(t, err)
	assert.Nil(t, entries)
	assert.True(t, errors.Is(err, errors.ErrCodeRetrieval))
}

func TestReader_Fetch_IDsStrictlyIncreaseForEqualTimestamps(t *testing.T) {
	ts := at(9, 0)
	src := &stubSource{records: []RawRecord{
		rec(ts, int(SeverityInfo), ownSubsystem, "first"),
		rec(ts, int(SeverityInfo), ownSubsystem, "second"),
		rec(ts, int(SeverityInfo), ownSubsystem, "third"),
		rec(ts.Add(time.Microsecond), int(SeverityInfo), ownSubsystem, "later"),
	}}
	r := NewReader(src, "stub", ownSubsystem)

	entries, err := r.Fetch(context.Background(), allLevelsQuery())
	require.NoError(t, err)
	require.Len(t, entries, 4)
	for i := 1; i < len(entries); i++ {
		assert.Greater(t, entries[i].ID, entries[i-1].ID,
			"IDs must preserve production order, including within one microsecond")
	}
}

func TestIDGenerator_TimestampHighBits(t *testing.T) {
	gen := newIDGenerator()
	ts := at(12, 0)
	id := gen.next(ts)

	assert.Equal(t, uint64(ts.UnixMicro()), id>>16, "high bits carry the microsecond timestamp")
	assert.Equal(t, uint64(0), id&0xFFFF, "first ID in a microsecond has sequence zero")

	id2 := gen.next(ts)
	assert.Equal(t, uint64(1), id2&0xFFFF, "same microsecond increments the sequence")
}

func TestIDGenerator_NonMonotonicInputStaysMonotonic(t *testing.T) {
	gen := newIDGenerator()
	a := gen.next(at(12, 0))
	b := gen.next(at(11, 0)) // source yielded an earlier timestamp
	assert.Greater(t, b, a)
}
