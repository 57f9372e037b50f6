package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/logsift/logsift/pkg/export"
)

func newExportCmd() *cobra.Command {
	var (
		ff         filterFlags
		formatName string
		delimiter  string
		compressed bool
		output     string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export logs to a file",
		Long: `Query the configured log source and export matching entries.

Formats:
  logsift export --last 24h --format json
  logsift export --last 24h --format jsonl
  logsift export --date 2026-08-23 --format csv --delimiter semicolon
  logsift export --last 7d --format text --gzip

Output:
  The file name defaults to logs-<timestamp>.<suffix>, where the suffix is
  derived from the format (e.g. json, csv, json.gz). Use --output - to
  write the payload to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			format, err := buildFormat(formatName, delimiter, compressed)
			if err != nil {
				return err
			}

			logger, cleanup, err := newDebugLogger()
			if err != nil {
				return err
			}
			defer cleanup()

			mgr, _, err := newSession(logger)
			if err != nil {
				return err
			}

			scope, err := ff.scope()
			if err != nil {
				return err
			}
			severities, err := ff.severities()
			if err != nil {
				return err
			}
			mgr.SetScope(scope)
			mgr.SetSeverities(severities)
			mgr.SetExcludeSystemLogs(ff.onlyOwnSubsystem)

			done, err := mgr.Fetch()
			if err != nil {
				return fmt.Errorf("cannot fetch with the current filter: %w", err)
			}
			select {
			case <-done:
			case <-ctx.Done():
				return ctx.Err()
			}
			if err := mgr.LastError(); err != nil {
				return err
			}

			payload, err := mgr.Export(ctx, format)
			if err != nil {
				return err
			}

			if output == "-" {
				_, err := os.Stdout.Write(payload)
				return err
			}

			path := output
			if path == "" {
				path = fmt.Sprintf("logs-%s.%s",
					time.Now().Format("20060102-150405"), format.Suffix())
			}
			if err := os.WriteFile(path, payload, 0644); err != nil {
				return fmt.Errorf("failed to write export file: %w", err)
			}

			fmt.Fprintf(os.Stderr, "Exported %d entries (%d bytes, %s) to %s\n",
				len(mgr.Logs()), len(payload), format.ContentType(), path)
			return nil
		},
	}

	addFilterFlags(cmd, &ff)
	cmd.Flags().StringVar(&formatName, "format", "text", "Export format (text, json, jsonl, csv)")
	cmd.Flags().StringVar(&delimiter, "delimiter", "comma", "CSV delimiter (comma, semicolon, tab, pipe)")
	cmd.Flags().BoolVar(&compressed, "gzip", false, "Compress the payload with gzip")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (- for stdout)")

	return cmd
}

// buildFormat assembles the export format tag from the CLI flags.
func buildFormat(name, delimiter string, compressed bool) (export.Format, error) {
	var f export.Format
	switch name {
	case "text":
		f = export.PlainText{}
	case "json":
		f = export.JSON{}
	case "jsonl":
		f = export.JSONLines{}
	case "csv":
		delim, err := export.ParseDelimiter(delimiter)
		if err != nil {
			return nil, err
		}
		f = export.CSV{Delimiter: delim}
	default:
		return nil, fmt.Errorf("unknown format %q (expected text, json, jsonl, or csv)", name)
	}
	if compressed {
		f = export.Gzip{Inner: f}
	}
	return f, nil
}
