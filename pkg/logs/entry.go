// Package logs defines the log entry model and a pluggable log source
// framework.
//
// Log source adapters (e.g., a JSON Lines file, an HTTP log store) register
// themselves via init() in their sub-packages. The CLI imports those packages
// as side effects to make them available at runtime.
package logs

import (
	"fmt"
	"strings"
	"time"
)

// Severity is a log entry's importance level, ordered ascending from
// SeverityUndefined through SeverityFault. The ordering is stable and used
// for deterministic sorting.
type Severity int

const (
	SeverityUndefined Severity = iota
	SeverityDebug
	SeverityInfo
	SeverityNotice
	SeverityError
	SeverityFault
)

// severityNames is indexed by Severity.
var severityNames = []string{"undefined", "debug", "info", "notice", "error", "fault"}

func (s Severity) String() string {
	if s < SeverityUndefined || s > SeverityFault {
		return fmt.Sprintf("severity(%d)", int(s))
	}
	return severityNames[s]
}

// Valid reports whether s is one of the defined levels.
func (s Severity) Valid() bool {
	return s >= SeverityUndefined && s <= SeverityFault
}

// ParseSeverity converts a level name to a Severity.
func ParseSeverity(name string) (Severity, error) {
	for i, n := range severityNames {
		if strings.EqualFold(name, n) {
			return Severity(i), nil
		}
	}
	return SeverityUndefined, fmt.Errorf("unknown severity %q (expected one of: %s)",
		name, strings.Join(severityNames, ", "))
}

// AllSeverities returns every defined level in ascending order.
func AllSeverities() []Severity {
	return []Severity{
		SeverityUndefined, SeverityDebug, SeverityInfo,
		SeverityNotice, SeverityError, SeverityFault,
	}
}

// Entry is a single structured log entry. Entries are immutable values;
// ID is unique within one fetch and order-preserving for entries that share
// a timestamp.
type Entry struct {
	ID        uint64
	Timestamp time.Time
	Severity  Severity
	Subsystem string
	Category  string
	Message   string
}

// SeveritySet is the set of levels a query admits. The empty set admits
// nothing; it is exclusionary, not a wildcard.
type SeveritySet map[Severity]struct{}

// NewSeveritySet builds a set from the given levels.
func NewSeveritySet(levels ...Severity) SeveritySet {
	set := make(SeveritySet, len(levels))
	for _, l := range levels {
		set[l] = struct{}{}
	}
	return set
}

// Contains reports whether the set admits the given level.
func (s SeveritySet) Contains(level Severity) bool {
	_, ok := s[level]
	return ok
}

// Levels returns the members in ascending severity order.
func (s SeveritySet) Levels() []Severity {
	levels := make([]Severity, 0, len(s))
	for _, l := range AllSeverities() {
		if s.Contains(l) {
			levels = append(levels, l)
		}
	}
	return levels
}
