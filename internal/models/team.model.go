package models

// Team partitions readers for the read-ranking leaderboard. It is not a table
// of its own, just an enum column on users used as an aggregation key.
type Team string

const (
	TeamRed    Team = "RED"
	TeamYellow Team = "YELLOW"
	TeamBlue   Team = "BLUE"
)

// Teams is the fixed set every ranking snapshot covers, one entry per team.
var Teams = []Team{TeamRed, TeamYellow, TeamBlue}

var teamEmoji = map[Team]string{
	TeamRed:    "🔴",
	TeamYellow: "🟡",
	TeamBlue:   "🔵",
}

func (t Team) IsValid() bool {
	switch t {
	case TeamRed, TeamYellow, TeamBlue:
		return true
	}
	return false
}

func (t Team) String() string {
	return string(t)
}

// Emoji returns the marker used in leaderboard announcements.
func (t Team) Emoji() string {
	return teamEmoji[t]
}
