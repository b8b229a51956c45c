// Package model contains domain models passed between layers.
package model

// RunType is the kind of a skills attempt.
type RunType string

// Run types reported by RobotEvents. Other values exist (e.g. "package_driver")
// and are carried through untouched.
const (
	RunProgramming RunType = "programming"
	RunDriver      RunType = "driver"
)

// SkillsRun is one scored skills attempt submitted by a team at an event.
type SkillsRun struct {
	EventID   int
	EventName string
	Type      RunType
	Score     int
	TeamName  string
}

// EventAggregate accumulates a team's best programming and driver scores at one event.
type EventAggregate struct {
	EventID          int
	EventName        string
	TeamNumber       int
	TeamName         string
	ProgrammingScore int
	DriverScore      int
	TotalScore       int
}

// TeamInfo is a team directory row.
type TeamInfo struct {
	TeamID     int    `json:"team_id"`
	TeamNumber string `json:"team_number"`
	TeamName   string `json:"team_name"`
}
