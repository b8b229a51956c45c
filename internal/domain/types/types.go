// Package types contains common types used across the application
package types

// Highlight marks a leaderboard row for display.
type Highlight string

// Highlight values.
const (
	HighlightNone      Highlight = ""
	HighlightQualified Highlight = "qualified"
	HighlightContender Highlight = "contender"
)

// Entry represents a leaderboard entry
type Entry struct {
	Rank             int       `json:"rank"`
	TeamID           int       `json:"team_id"`
	TeamNumber       string    `json:"team_number"`
	TeamName         string    `json:"team_name"`
	EventName        string    `json:"event_name"`
	ProgrammingScore int       `json:"programming_score"`
	DriverScore      int       `json:"driver_score"`
	TotalScore       int       `json:"total_score"`
	HighestAuto      int       `json:"highest_auto"`
	Highlight        Highlight `json:"highlight,omitempty"`
}
