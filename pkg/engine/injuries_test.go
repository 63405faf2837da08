package engine

import "testing"

func TestParseInjury(t *testing.T) {
	tests := []struct {
		line string
		want Injury
	}{
		{"Jayson Tatum - Out (Achilles surgery)", Injury{Player: "Jayson Tatum", Status: "Out", Reason: "Achilles surgery"}},
		{"Derrick White - Questionable (ankle)", Injury{Player: "Derrick White", Status: "Questionable", Reason: "ankle"}},
		{"Al Horford - Day-to-day", Injury{Player: "Al Horford", Status: "Day-to-day"}},
		{"  Luka Doncic - Out (rest)  ", Injury{Player: "Luka Doncic", Status: "Out", Reason: "rest"}},
		{"unstructured note about soreness", Injury{Status: "unstructured note about soreness"}},
	}
	for _, tt := range tests {
		if got := ParseInjury(tt.line); got != tt.want {
			t.Errorf("ParseInjury(%q) = %+v, want %+v", tt.line, got, tt.want)
		}
	}
}

func TestParseInjuriesSkipsEmptyLines(t *testing.T) {
	got := ParseInjuries([]string{"A - Out (knee)", "", "  ", "B - Probable (wrist)"})
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d: %+v", len(got), got)
	}
	if got[0].Player != "A" || got[1].Player != "B" {
		t.Errorf("unexpected entries: %+v", got)
	}
}

func TestInjuryStringRoundTrip(t *testing.T) {
	for _, line := range []string{
		"Jayson Tatum - Out (Achilles surgery)",
		"Al Horford - Day-to-day",
	} {
		if got := ParseInjury(line).String(); got != line {
			t.Errorf("round trip %q -> %q", line, got)
		}
	}
}
