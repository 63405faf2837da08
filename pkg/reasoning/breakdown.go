package reasoning

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Predicted-score rendering constants: scores centered on a typical
// NBA total, margin scaled from the strength-score gap.
const (
	breakdownBaseScore   = 110.0
	breakdownMarginScale = 20.0
)

var titleCaser = cases.Title(language.English)

// ScoreBreakdown renders a plausible final score from two strength
// scores, winner listed first. Equal scores nudge the first team by a
// point so the line never reads as a tie.
func ScoreBreakdown(team1Score, team2Score float64, team1Name, team2Name string) string {
	margin := (team1Score - team2Score) * breakdownMarginScale

	team1Points := breakdownBaseScore + margin
	team2Points := breakdownBaseScore - margin

	if team1Points < team2Points {
		team1Points, team2Points = team2Points, team1Points
		team1Name, team2Name = team2Name, team1Name
	} else if team1Points == team2Points {
		team1Points++
	}

	return fmt.Sprintf("Predicted final score: %s %d-%d %s",
		titleCaser.String(team1Name), int(team1Points), int(team2Points),
		titleCaser.String(team2Name))
}
