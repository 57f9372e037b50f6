package file

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logsift/logsift/pkg/logs"
)

func writeLog(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0644))
	return path
}

func TestQuery_ParsesRecords(t *testing.T) {
	path := writeLog(t, `{"timestamp":"2026-08-23T09:00:00Z","level":2,"subsystem":"com.example.app","category":"network","message":"request started"}
{"timestamp":"2026-08-23T09:01:00Z","level":4,"subsystem":"com.example.app","category":"network","message":"request failed","kind":"log"}
`)
	src, err := New(path)
	require.NoError(t, err)

	records, err := src.Query(context.Background(), logs.Predicate{
		Start: time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, logs.KindLog, records[0].Kind)
	assert.Equal(t, 2, records[0].Level)
	assert.Equal(t, "com.example.app", records[0].Subsystem)
	assert.Equal(t, "network", records[0].Category)
	assert.Equal(t, "request started", records[0].Message)
	assert.Equal(t, time.Date(2026, 8, 23, 9, 0, 0, 0, time.UTC), records[0].Timestamp.UTC())
}

func TestQuery_AppliesPredicate(t *testing.T) {
	path := writeLog(t, `{"timestamp":"2026-08-23T08:59:59Z","level":1,"message":"before"}
{"timestamp":"2026-08-23T09:00:00Z","level":1,"message":"at start"}
{"timestamp":"2026-08-23T09:59:59Z","level":1,"message":"inside"}
{"timestamp":"2026-08-23T10:00:00Z","level":1,"message":"at end"}
`)
	src, err := New(path)
	require.NoError(t, err)

	records, err := src.Query(context.Background(), logs.Predicate{
		Start: time.Date(2026, 8, 23, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, records, 2, "window start is inclusive, end exclusive")
	assert.Equal(t, "at start", records[0].Message)
	assert.Equal(t, "inside", records[1].Message)
}

func TestQuery_OpenEndedPredicate(t *testing.T) {
	path := writeLog(t, `{"timestamp":"2026-08-23T09:00:00Z","level":1,"message":"old"}
{"timestamp":"2030-01-01T00:00:00Z","level":1,"message":"far future"}
`)
	src, err := New(path)
	require.NoError(t, err)

	records, err := src.Query(context.Background(), logs.Predicate{
		Start: time.Date(2026, 8, 23, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestQuery_SkipsMalformedLines(t *testing.T) {
	path := writeLog(t, `not json at all
{"timestamp":"2026-08-23T09:00:00Z","level":1,"message":"good"}
{"level":1,"message":"missing timestamp"}
{"timestamp":false,"level":1,"message":"bad timestamp"}
42
`)
	src, err := New(path)
	require.NoError(t, err)

	records, err := src.Query(context.Background(), logs.Predicate{
		Start: time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "good", records[0].Message)
}

func TestQuery_HeterogeneousKindsPassThrough(t *testing.T) {
	path := writeLog(t, `{"timestamp":"2026-08-23T09:00:00Z","kind":"activity","message":"activity"}
{"timestamp":"2026-08-23T09:00:01Z","kind":"signpost","message":"signpost"}
{"timestamp":"2026-08-23T09:00:02Z","kind":"statedump","message":"unknown kind"}
{"timestamp":"2026-08-23T09:00:03Z","message":"default kind"}
`)
	src, err := New(path)
	require.NoError(t, err)

	records, err := src.Query(context.Background(), logs.Predicate{
		Start: time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, records, 4, "non-log kinds are yielded, not dropped; filtering is the reader's job")

	assert.Equal(t, logs.KindActivity, records[0].Kind)
	assert.Equal(t, logs.KindSignpost, records[1].Kind)
	assert.Equal(t, logs.KindActivity, records[2].Kind, "unknown kinds map to a non-log kind")
	assert.Equal(t, logs.KindLog, records[3].Kind)
}

func TestQuery_NumericTimestamps(t *testing.T) {
	ts := time.Date(2026, 8, 23, 9, 0, 0, 0, time.UTC)
	path := writeLog(t, `{"timestamp":`+strconv.FormatInt(ts.UnixMicro(), 10)+`,"level":1,"message":"micros"}
`)
	src, err := New(path)
	require.NoError(t, err)

	records, err := src.Query(context.Background(), logs.Predicate{Start: ts.Add(-time.Minute)})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].Timestamp.Equal(ts), "integer timestamps are microseconds")
}

func TestQuery_MissingFile(t *testing.T) {
	src, err := New(filepath.Join(t.TempDir(), "nope.jsonl"))
	require.NoError(t, err)

	_, err = src.Query(context.Background(), logs.Predicate{})
	assert.Error(t, err)
}

func TestNew_EmptyPath(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}

func TestRegistered(t *testing.T) {
	src, err := logs.Open("file", filepath.Join(t.TempDir(), "app.jsonl"))
	require.NoError(t, err)
	assert.IsType(t, &Source{}, src)
}
