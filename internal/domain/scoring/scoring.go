// Package scoring picks a team's best event from its skills runs.
package scoring

import (
	"github.com/okian/skillboard/internal/domain/model"
)

// Result is the winning event for a team plus the team's best programming
// and driver scores across every event.
type Result struct {
	Best          model.EventAggregate
	HighestAuto   int
	HighestDriver int
}

// Record converts the result into a published row. Global maxima are only
// attached when withGlobalMax is set.
func (r Result) Record(withGlobalMax bool) model.Record {
	rec := model.Record{
		TeamNumber:       r.Best.TeamNumber,
		TeamName:         r.Best.TeamName,
		EventName:        r.Best.EventName,
		ProgrammingScore: r.Best.ProgrammingScore,
		DriverScore:      r.Best.DriverScore,
		TotalScore:       r.Best.TotalScore,
	}
	if withGlobalMax {
		auto, driver := r.HighestAuto, r.HighestDriver
		rec.HighestAuto = &auto
		rec.HighestDriver = &driver
	}
	return rec
}

// Accumulator folds skills runs for a single team, one at a time.
// The zero value is not usable; call NewAccumulator.
type Accumulator struct {
	teamNumber    int
	byEvent       map[int]*model.EventAggregate
	order         []*model.EventAggregate
	highestAuto   int
	highestDriver int
}

// NewAccumulator creates an empty accumulator for teamNumber.
func NewAccumulator(teamNumber int) *Accumulator {
	return &Accumulator{
		teamNumber: teamNumber,
		byEvent:    make(map[int]*model.EventAggregate),
	}
}

// Add folds one run into its event's aggregate.
func (a *Accumulator) Add(run model.SkillsRun) {
	agg, ok := a.byEvent[run.EventID]
	if !ok {
		agg = &model.EventAggregate{
			EventID:    run.EventID,
			EventName:  run.EventName,
			TeamNumber: a.teamNumber,
			TeamName:   run.TeamName,
		}
		a.byEvent[run.EventID] = agg
		a.order = append(a.order, agg)
	}

	score := max(run.Score, 0)
	switch run.Type {
	case model.RunProgramming:
		agg.ProgrammingScore = max(agg.ProgrammingScore, score)
		a.highestAuto = max(a.highestAuto, score)
	case model.RunDriver:
		agg.DriverScore = max(agg.DriverScore, score)
		a.highestDriver = max(a.highestDriver, score)
	}
	agg.TotalScore = agg.ProgrammingScore + agg.DriverScore
}

// AddAll folds runs in order.
func (a *Accumulator) AddAll(runs []model.SkillsRun) {
	for _, run := range runs {
		a.Add(run)
	}
}

// Events returns the number of distinct events seen so far.
func (a *Accumulator) Events() int {
	return len(a.order)
}

// Aggregate returns a copy of the current aggregate for eventID.
func (a *Accumulator) Aggregate(eventID int) (model.EventAggregate, bool) {
	agg, ok := a.byEvent[eventID]
	if !ok {
		return model.EventAggregate{}, false
	}
	return *agg, true
}

// Best returns the event with the highest total. Ties go to the event that
// was seen first. It reports false when no run was added.
func (a *Accumulator) Best() (Result, bool) {
	if len(a.order) == 0 {
		return Result{}, false
	}
	best := a.order[0]
	for _, agg := range a.order[1:] {
		if agg.TotalScore > best.TotalScore {
			best = agg
		}
	}
	return Result{
		Best:          *best,
		HighestAuto:   a.highestAuto,
		HighestDriver: a.highestDriver,
	}, true
}

// BestEvent selects the best event for teamNumber from runs.
func BestEvent(teamNumber int, runs []model.SkillsRun) (Result, bool) {
	acc := NewAccumulator(teamNumber)
	acc.AddAll(runs)
	return acc.Best()
}
