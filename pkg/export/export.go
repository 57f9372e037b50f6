package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/logsift/logsift/pkg/errors"
	"github.com/logsift/logsift/pkg/logs"
)

// Export renders entries into the given format. Entries are stably sorted
// by timestamp ascending before encoding, so equal-timestamp entries keep
// the order the Reader produced them in. The input slice is not modified.
func Export(entries []logs.Entry, f Format) ([]byte, error) {
	sorted := make([]logs.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return encode(sorted, f)
}

// encode dispatches on the format tag. Gzip recurses: render the inner
// format, then compress its bytes.
func encode(entries []logs.Entry, f Format) ([]byte, error) {
	switch ft := f.(type) {
	case PlainText:
		return encodePlainText(entries), nil
	case JSON:
		return encodeJSON(entries)
	case JSONLines:
		return encodeJSONLines(entries)
	case CSV:
		return encodeCSV(entries, ft.Delimiter), nil
	case Gzip:
		inner, err := encode(entries, ft.Inner)
		if err != nil {
			return nil, err
		}
		return compress(inner)
	default:
		return nil, errors.EncodingError(Name(f), fmt.Errorf("unsupported format %T", f))
	}
}

// formatTimestamp renders an entry timestamp as ISO 8601.
func formatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func encodePlainText(entries []logs.Entry) []byte {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = fmt.Sprintf("[%s] [%s] [%s] %s",
			formatTimestamp(e.Timestamp), e.Severity, e.Category, e.Message)
	}
	return []byte(strings.Join(lines, "\n"))
}

// jsonEntry is the per-entry object shape shared by the JSON and JSON Lines
// encoders. Fields are declared in lexical key order, which encoding/json
// preserves.
type jsonEntry struct {
	Category  string `json:"category"`
	Date      string `json:"date"`
	ID        uint64 `json:"id"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Subsystem string `json:"subsystem"`
}

func toJSONEntry(e logs.Entry) jsonEntry {
	return jsonEntry{
		Category:  e.Category,
		Date:      formatTimestamp(e.Timestamp),
		ID:        e.ID,
		Level:     e.Severity.String(),
		Message:   e.Message,
		Subsystem: e.Subsystem,
	}
}

func encodeJSON(entries []logs.Entry) ([]byte, error) {
	objects := make([]jsonEntry, len(entries))
	for i, e := range entries {
		objects[i] = toJSONEntry(e)
	}
	data, err := json.MarshalIndent(objects, "", "  ")
	if err != nil {
		return nil, errors.EncodingError("json", err)
	}
	return data, nil
}

func encodeJSONLines(entries []logs.Entry) ([]byte, error) {
	lines := make([]string, len(entries))
	for i, e := range entries {
		data, err := json.Marshal(toJSONEntry(e))
		if err != nil {
			return nil, errors.EncodingError("jsonl", err)
		}
		lines[i] = string(data)
	}
	return []byte(strings.Join(lines, "\n")), nil
}

// csvColumns is the header row and field order of a CSV export.
var csvColumns = []string{"date", "level", "subsystem", "category", "message"}

func encodeCSV(entries []logs.Entry, delim Delimiter) []byte {
	sep := string(rune(delim))
	rows := make([]string, 0, len(entries)+1)
	rows = append(rows, strings.Join(csvColumns, sep))
	for _, e := range entries {
		fields := []string{
			formatTimestamp(e.Timestamp),
			e.Severity.String(),
			e.Subsystem,
			e.Category,
			e.Message,
		}
		quoted := make([]string, len(fields))
		for i, f := range fields {
			quoted[i] = csvQuote(f)
		}
		rows = append(rows, strings.Join(quoted, sep))
	}
	return []byte(strings.Join(rows, "\n"))
}

// csvQuote wraps a value in double quotes, doubling internal quotes.
// Every value is quoted unconditionally so the delimiter never needs
// escaping.
func csvQuote(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

// compress wraps the payload in a gzip container. An empty payload stays
// empty without ever touching the compressor.
func compress(payload []byte) ([]byte, error) {
	if len(payload) == 0 {
		return []byte{}, nil
	}
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(payload); err != nil {
		zw.Close()
		return nil, errors.CompressionError("stream", err)
	}
	if err := zw.Close(); err != nil {
		return nil, errors.CompressionError("stream", err)
	}
	return buf.Bytes(), nil
}
