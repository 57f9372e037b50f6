package logs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverity_Ordering(t *testing.T) {
	levels := AllSeverities()
	for i := 1; i < len(levels); i++ {
		assert.Less(t, levels[i-1], levels[i], "severity ranks must ascend")
	}
}

func TestParseSeverity(t *testing.T) {
	cases := []struct {
		in   string
		want Severity
	}{
		{"debug", SeverityDebug},
		{"Info", SeverityInfo},
		{"NOTICE", SeverityNotice},
		{"error", SeverityError},
		{"fault", SeverityFault},
		{"undefined", SeverityUndefined},
	}
	for _, tc := range cases {
		got, err := ParseSeverity(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}

	_, err := ParseSeverity("critical")
	assert.Error(t, err)
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "fault", SeverityFault.String())
	assert.Equal(t, "undefined", SeverityUndefined.String())
	assert.Equal(t, "severity(9)", Severity(9).String())
}

func TestSeveritySet_EmptyAdmitsNothing(t *testing.T) {
	empty := NewSeveritySet()
	for _, l := range AllSeverities() {
		assert.False(t, empty.Contains(l), "empty set must not admit %s", l)
	}
}

func TestSeveritySet_Levels(t *testing.T) {
	set := NewSeveritySet(SeverityFault, SeverityDebug, SeverityError)
	assert.Equal(t, []Severity{SeverityDebug, SeverityError, SeverityFault}, set.Levels())
}
