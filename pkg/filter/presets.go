package filter

import (
	"fmt"
	"time"

	"github.com/logsift/logsift/pkg/errors"
)

// PresetID names a rolling-duration shortcut ("the last N minutes/hours/...").
type PresetID string

const (
	Last5Minutes  PresetID = "5m"
	Last10Minutes PresetID = "10m"
	Last15Minutes PresetID = "15m"
	Last30Minutes PresetID = "30m"
	LastHour      PresetID = "1h"
	Last6Hours    PresetID = "6h"
	Last12Hours   PresetID = "12h"
	Last24Hours   PresetID = "24h"
	Last3Days     PresetID = "3d"
	Last7Days     PresetID = "7d"
	Last14Days    PresetID = "14d"
	Last30Days    PresetID = "30d"
	Last90Days    PresetID = "90d"
	LastYear      PresetID = "1y"
)

const day = 24 * time.Hour

// presetDurations is the fixed ascending ladder of rolling windows.
var presetDurations = map[PresetID]time.Duration{
	Last5Minutes:  5 * time.Minute,
	Last10Minutes: 10 * time.Minute,
	Last15Minutes: 15 * time.Minute,
	Last30Minutes: 30 * time.Minute,
	LastHour:      time.Hour,
	Last6Hours:    6 * time.Hour,
	Last12Hours:   12 * time.Hour,
	Last24Hours:   24 * time.Hour,
	Last3Days:     3 * day,
	Last7Days:     7 * day,
	Last14Days:    14 * day,
	Last30Days:    30 * day,
	Last90Days:    90 * day,
	LastYear:      365 * day,
}

// Duration returns the rolling window length for the preset.
func (id PresetID) Duration() (time.Duration, error) {
	d, ok := presetDurations[id]
	if !ok {
		return 0, errors.ResolutionError(
			fmt.Sprintf("unknown preset %q", string(id)),
			map[string]interface{}{"preset": string(id)})
	}
	return d, nil
}

// Label returns a human-readable description of the preset.
func (id PresetID) Label() string {
	switch id {
	case Last5Minutes:
		return "Last 5 minutes"
	case Last10Minutes:
		return "Last 10 minutes"
	case Last15Minutes:
		return "Last 15 minutes"
	case Last30Minutes:
		return "Last 30 minutes"
	case LastHour:
		return "Last hour"
	case Last6Hours:
		return "Last 6 hours"
	case Last12Hours:
		return "Last 12 hours"
	case Last24Hours:
		return "Last 24 hours"
	case Last3Days:
		return "Last 3 days"
	case Last7Days:
		return "Last 7 days"
	case Last14Days:
		return "Last 14 days"
	case Last30Days:
		return "Last 30 days"
	case Last90Days:
		return "Last 90 days"
	case LastYear:
		return "Last year"
	default:
		return string(id)
	}
}

// PresetGroup bundles presets for display. Grouping is purely a
// presentation concern; resolution treats the ladder as flat.
type PresetGroup struct {
	Name    string     `json:"name" yaml:"name"`
	Presets []PresetID `json:"presets" yaml:"presets"`
}

// PresetGroups returns the ladder grouped by unit, ascending within each group.
func PresetGroups() []PresetGroup {
	return []PresetGroup{
		{Name: "Minutes", Presets: []PresetID{Last5Minutes, Last10Minutes, Last15Minutes, Last30Minutes}},
		{Name: "Hours", Presets: []PresetID{LastHour, Last6Hours, Last12Hours, Last24Hours}},
		{Name: "Days", Presets: []PresetID{Last3Days, Last7Days, Last14Days, Last30Days, Last90Days}},
		{Name: "Longer", Presets: []PresetID{LastYear}},
	}
}

// ParsePreset validates a preset name from user input.
func ParsePreset(s string) (PresetID, error) {
	id := PresetID(s)
	if _, ok := presetDurations[id]; !ok {
		return "", errors.ResolutionError(
			fmt.Sprintf("unknown preset %q", s),
			map[string]interface{}{"preset": s})
	}
	return id, nil
}
