package cli

import (
	"testing"

	"github.com/logsift/logsift/pkg/export"
)

func TestBuildFormat(t *testing.T) {
	cases := []struct {
		name       string
		format     string
		delimiter  string
		compressed bool
		wantSuffix string
	}{
		{"text", "text", "comma", false, "txt"},
		{"json", "json", "comma", false, "json"},
		{"jsonl", "jsonl", "comma", false, "jsonl"},
		{"csv comma", "csv", "comma", false, "csv"},
		{"csv tab", "csv", "tab", false, "csv"},
		{"gzipped json", "json", "comma", true, "json.gz"},
		{"gzipped csv", "csv", "pipe", true, "csv.gz"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := buildFormat(tc.format, tc.delimiter, tc.compressed)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := f.Suffix(); got != tc.wantSuffix {
				t.Errorf("expected suffix %q, got %q", tc.wantSuffix, got)
			}
		})
	}
}

func TestBuildFormat_DelimiterVariants(t *testing.T) {
	f, err := buildFormat("csv", "semicolon", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	csv, ok := f.(export.CSV)
	if !ok {
		t.Fatalf("expected CSV, got %T", f)
	}
	if csv.Delimiter != export.Semicolon {
		t.Errorf("unexpected delimiter: %q", rune(csv.Delimiter))
	}
}

func TestBuildFormat_Invalid(t *testing.T) {
	if _, err := buildFormat("xml", "comma", false); err == nil {
		t.Error("expected error for unknown format")
	}
	if _, err := buildFormat("csv", "colon", false); err == nil {
		t.Error("expected error for unknown delimiter")
	}
}
