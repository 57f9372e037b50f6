package cli

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/logsift/logsift/internal/logging"
	"github.com/logsift/logsift/pkg/filter"
	"github.com/logsift/logsift/pkg/logs"
	"github.com/logsift/logsift/pkg/session"
)

// filterFlags holds the time-window and inclusion flags shared by the
// query and export commands.
type filterFlags struct {
	date             string
	from             string
	to               string
	hours            string
	last             string
	levels           []string
	onlyOwnSubsystem bool
}

func addFilterFlags(cmd *cobra.Command, ff *filterFlags) {
	cmd.Flags().StringVar(&ff.date, "date", "", "Single calendar day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&ff.from, "from", "", "First day of a date range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&ff.to, "to", "", "Last day of a date range, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&ff.hours, "hours", "", "Hour window on --date, e.g. 9-17 or 22-24")
	cmd.Flags().StringVar(&ff.last, "last", "", "Rolling preset window (e.g. 5m, 1h, 24h, 7d, 1y)")
	cmd.Flags().StringArrayVarP(&ff.levels, "level", "l", nil, "Severity levels to include (repeatable; default: all)")
	cmd.Flags().BoolVar(&ff.onlyOwnSubsystem, "only-own-subsystem", false, "Keep only entries from this application's subsystem")
}

// scope builds the filter scope from the flags. Exactly one of --date,
// --from/--to, or --last must be given; --hours refines --date.
func (ff *filterFlags) scope() (filter.Scope, error) {
	selected := 0
	if ff.date != "" {
		selected++
	}
	if ff.from != "" || ff.to != "" {
		selected++
	}
	if ff.last != "" {
		selected++
	}
	if selected == 0 {
		return nil, fmt.Errorf("no time window given: use --date, --from/--to, or --last")
	}
	if selected > 1 {
		return nil, fmt.Errorf("conflicting time windows: use only one of --date, --from/--to, or --last")
	}

	switch {
	case ff.last != "":
		if ff.hours != "" {
			return nil, fmt.Errorf("--hours requires --date")
		}
		id, err := filter.ParsePreset(ff.last)
		if err != nil {
			return nil, err
		}
		return filter.Preset{ID: id}, nil

	case ff.date != "":
		date, err := parseDay(ff.date)
		if err != nil {
			return nil, err
		}
		if ff.hours == "" {
			return filter.SpecificDate{Date: date}, nil
		}
		start, end, err := parseHours(ff.hours)
		if err != nil {
			return nil, err
		}
		return filter.HourRange{Date: date, StartHour: start, EndHour: end}, nil

	default:
		if ff.hours != "" {
			return nil, fmt.Errorf("--hours requires --date")
		}
		if ff.from == "" || ff.to == "" {
			return nil, fmt.Errorf("a date range needs both --from and --to")
		}
		from, err := parseDay(ff.from)
		if err != nil {
			return nil, err
		}
		to, err := parseDay(ff.to)
		if err != nil {
			return nil, err
		}
		return filter.DateRange{From: from, To: to}, nil
	}
}

// severities builds the admitted severity set. No --level flags means all
// levels.
func (ff *filterFlags) severities() (logs.SeveritySet, error) {
	if len(ff.levels) == 0 {
		return logs.NewSeveritySet(logs.AllSeverities()...), nil
	}
	set := logs.NewSeveritySet()
	for _, name := range ff.levels {
		sev, err := logs.ParseSeverity(name)
		if err != nil {
			return nil, err
		}
		set[sev] = struct{}{}
	}
	return set, nil
}

func parseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return t, nil
}

func parseHours(s string) (int, int, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid hour window %q (expected START-END, e.g. 9-17)", s)
	}
	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid start hour %q", parts[0])
	}
	end, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid end hour %q", parts[1])
	}
	return start, end, nil
}

// newDebugLogger builds the debug logger from config. Without --debug-log
// the logger discards everything so command output stays clean.
func newDebugLogger() (*slog.Logger, func(), error) {
	path := viper.GetString("debug_log")
	if path == "" {
		return logging.Discard(), func() {}, nil
	}
	logger, closer, err := logging.New(path, viper.GetString("debug_level"))
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if closer != nil {
			_ = closer.Close()
		}
	}
	return logger, cleanup, nil
}

// newSession opens the configured log source and wraps it in a session
// manager. The source is returned as well so commands can reach
// adapter-specific capabilities like tailing.
func newSession(logger *slog.Logger) (*session.Manager, logs.Source, error) {
	sourceType := viper.GetString("source")
	endpoint := viper.GetString("endpoint")
	if endpoint == "" {
		return nil, nil, fmt.Errorf("no log source endpoint: set --endpoint or the LOGSIFT_ENDPOINT environment variable")
	}

	source, err := logs.Open(sourceType, endpoint)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log source: %w", err)
	}

	reader := logs.NewReader(source, sourceType, viper.GetString("subsystem"))
	mgr := session.NewManager(reader, session.WithLogger(logger))
	return mgr, source, nil
}
