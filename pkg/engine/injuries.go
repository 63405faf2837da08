package engine

import (
	"regexp"
	"strings"
)

// Injury is a parsed roster-report entry.
type Injury struct {
	Player string `json:"player"`
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// injuryPattern matches the collaborator wire format
// "Player - Status (Reason)"; the parenthesized reason is optional.
var injuryPattern = regexp.MustCompile(`^(.+?)\s*-\s*([^(]+?)(?:\s*\((.*)\))?$`)

// ParseInjury parses one injury-report line. Lines that do not follow
// the format are kept whole as the status so downstream keyword checks
// still see the text.
func ParseInjury(line string) Injury {
	m := injuryPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return Injury{Status: strings.TrimSpace(line)}
	}
	return Injury{
		Player: strings.TrimSpace(m[1]),
		Status: strings.TrimSpace(m[2]),
		Reason: strings.TrimSpace(m[3]),
	}
}

// ParseInjuries parses a full report, dropping empty lines.
func ParseInjuries(lines []string) []Injury {
	out := make([]Injury, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, ParseInjury(line))
	}
	return out
}

// String renders an Injury back into the report wire format.
func (i Injury) String() string {
	var b strings.Builder
	if i.Player != "" {
		b.WriteString(i.Player)
		b.WriteString(" - ")
	}
	b.WriteString(i.Status)
	if i.Reason != "" {
		b.WriteString(" (")
		b.WriteString(i.Reason)
		b.WriteString(")")
	}
	return b.String()
}
