// Package file provides a JSON Lines file-backed log source adapter.
//
// It is imported as a side effect to register the "file" source type:
//
//	import _ "github.com/logsift/logsift/pkg/logs/file"
//
// Each line of the file is a JSON object with the fields "timestamp"
// (RFC 3339 string or integer microseconds), "level" (0–5), "subsystem",
// "category", "message", and an optional "kind" ("log", "activity",
// "signpost"; defaults to "log"). Lines that are not valid JSON objects are
// skipped.
package file

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/valyala/fastjson"

	"github.com/logsift/logsift/pkg/logs"
)

func init() {
	logs.Register("file", func(endpoint string) (logs.Source, error) {
		return New(endpoint)
	})
}

// Source implements logs.Source over a JSON Lines file.
type Source struct {
	path string
}

// New creates a file source for the given path. The file must exist at
// query time, not at construction time.
func New(path string) (*Source, error) {
	if path == "" {
		return nil, fmt.Errorf("file source path must not be empty")
	}
	return &Source{path: path}, nil
}

// Query reads the file and returns every record whose timestamp satisfies
// the predicate, in file order.
func (s *Source) Query(ctx context.Context, p logs.Predicate) ([]logs.RawRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	var parser fastjson.Parser
	records := make([]logs.RawRecord, 0)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		v, err := parser.ParseBytes(line)
		if err != nil || v.Type() != fastjson.TypeObject {
			continue
		}
		rec, ok := parseRecord(v)
		if !ok {
			continue
		}
		if p.Matches(rec) {
			records = append(records, rec)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}
	return records, nil
}

// parseRecord converts a parsed JSON object into a RawRecord. Records
// without a parseable timestamp are rejected.
func parseRecord(v *fastjson.Value) (logs.RawRecord, bool) {
	ts, ok := parseTimestamp(v.Get("timestamp"))
	if !ok {
		return logs.RawRecord{}, false
	}
	return logs.RawRecord{
		Kind:      parseKind(string(v.GetStringBytes("kind"))),
		Timestamp: ts,
		Level:     v.GetInt("level"),
		Subsystem: string(v.GetStringBytes("subsystem")),
		Category:  string(v.GetStringBytes("category")),
		Message:   string(v.GetStringBytes("message")),
	}, true
}

func parseTimestamp(v *fastjson.Value) (time.Time, bool) {
	if v == nil {
		return time.Time{}, false
	}
	switch v.Type() {
	case fastjson.TypeString:
		t, err := time.Parse(time.RFC3339Nano, string(v.GetStringBytes()))
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	case fastjson.TypeNumber:
		return time.UnixMicro(v.GetInt64()), true
	default:
		return time.Time{}, false
	}
}

func parseKind(kind string) logs.RecordKind {
	switch kind {
	case "", "log":
		return logs.KindLog
	case "signpost":
		return logs.KindSignpost
	default:
		// Anything unrecognized is treated as a non-log record and will
		// be dropped by the Reader.
		return logs.KindActivity
	}
}
