package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/logsift/logsift/pkg/logs"
)

// ANSI color codes per severity level.
var severityColors = map[logs.Severity]string{
	logs.SeverityUndefined: "\033[90m", // gray
	logs.SeverityDebug:     "\033[36m", // cyan
	logs.SeverityInfo:      "\033[32m", // green
	logs.SeverityNotice:    "\033[33m", // yellow
	logs.SeverityError:     "\033[31m", // red
	logs.SeverityFault:     "\033[35m", // magenta
}

const colorReset = "\033[0m"

func newQueryCmd() *cobra.Command {
	var (
		ff      filterFlags
		follow  bool
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query logs and print them",
		Long: `Query the configured log source and print matching entries.

Time windows:
  logsift query --last 1h                     # The last hour
  logsift query --date 2026-08-23             # One calendar day
  logsift query --date 2026-08-23 --hours 22-24
  logsift query --from 2026-08-01 --to 2026-08-07

Filtering:
  logsift query --last 24h -l error -l fault  # Only errors and faults
  logsift query --last 1h --only-own-subsystem

Streaming:
  logsift query --follow                      # Follow new logs in real-time`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			logger, cleanup, err := newDebugLogger()
			if err != nil {
				return err
			}
			defer cleanup()

			mgr, source, err := newSession(logger)
			if err != nil {
				return err
			}

			severities, err := ff.severities()
			if err != nil {
				return err
			}

			useColor := !noColor && term.IsTerminal(int(os.Stdout.Fd()))

			if follow {
				return followLogs(ctx, source, severities, useColor)
			}

			scope, err := ff.scope()
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

			entries := mgr.Logs()
			if len(entries) == 0 {
				fmt.Fprintln(os.Stderr, "No logs found for the specified window and filters.")
				return nil
			}

			sort.SliceStable(entries, func(i, j int) bool {
				return entries[i].Timestamp.Before(entries[j].Timestamp)
			})
			for _, e := range entries {
				printEntry(e, useColor)
			}
			return nil
		},
	}

	addFilterFlags(cmd, &ff)
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Stream logs in real-time (http source only)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored severity levels")

	return cmd
}

// followLogs streams live records from a tailing-capable source, applying
// the severity filter as entries arrive.
func followLogs(ctx context.Context, source logs.Source, severities logs.SeveritySet, useColor bool) error {
	tailer, ok := source.(logs.Tailer)
	if !ok {
		return fmt.Errorf("the configured log source does not support --follow")
	}

	stream, err := tailer.Tail(ctx, logs.Predicate{Start: time.Now()})
	if err != nil {
		return fmt.Errorf("failed to start log stream: %w", err)
	}
	defer stream.Close()

	fmt.Fprintln(os.Stderr, "Streaming logs (Ctrl+C to stop)...")

	for {
		select {
		case rec, ok := <-stream.Records:
			if !ok {
				return nil
			}
			if rec.Kind != logs.KindLog {
				continue
			}
			sev := logs.Severity(rec.Level)
			if !sev.Valid() {
				sev = logs.SeverityUndefined
			}
			if !severities.Contains(sev) {
				continue
			}
			printEntry(logs.Entry{
				Timestamp: rec.Timestamp,
				Severity:  sev,
				Subsystem: rec.Subsystem,
				Category:  rec.Category,
				Message:   rec.Message,
			}, useColor)
		case err := <-stream.Err:
			if err != nil {
				return fmt.Errorf("log stream error: %w", err)
			}
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

func printEntry(e logs.Entry, useColor bool) {
	level := e.Severity.String()
	if useColor {
		if c, ok := severityColors[e.Severity]; ok {
			level = c + level + colorReset
		}
	}
	fmt.Printf("[%s] [%s] [%s] %s\n",
		e.Timestamp.Format(time.RFC3339), level, e.Category, e.Message)
}
