package model

// Record is the per-team row of the published skills document.
// HighestAuto and HighestDriver are nil when global maxima are not emitted.
type Record struct {
	TeamNumber       int    `json:"team_number"`
	TeamName         string `json:"team_name"`
	EventName        string `json:"event_name"`
	ProgrammingScore int    `json:"programming_score"`
	DriverScore      int    `json:"driver_score"`
	TotalScore       int    `json:"total_score"`
	HighestAuto      *int   `json:"highest_auto,omitempty"`
	HighestDriver    *int   `json:"highest_driver,omitempty"`
}

// Auto returns the team's best programming score across all events, falling
// back to the winning event's programming score.
func (r Record) Auto() int {
	if r.HighestAuto != nil {
		return *r.HighestAuto
	}
	return r.ProgrammingScore
}
