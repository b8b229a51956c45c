// Package ranking orders per-team skills records into a leaderboard.
package ranking

import (
	"sort"
	"strconv"

	"github.com/okian/skillboard/internal/domain/model"
	"github.com/okian/skillboard/internal/domain/types"
)

const (
	defaultQualifiedSlots = 56
	unknownTeamName       = "Unknown"
)

// Option configures ranking.
type Option func(*options)

type options struct {
	qualified map[string]struct{}
	slots     int
}

// WithQualifiedTeams marks teams (by name) that have already qualified.
func WithQualifiedTeams(names []string) Option {
	return func(o *options) {
		for _, n := range names {
			if n != "" {
				o.qualified[n] = struct{}{}
			}
		}
	}
}

// WithQualifiedSlots sets how many rows get highlighted in total.
// Zero disables contender highlighting.
func WithQualifiedSlots(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.slots = n
		}
	}
}

// Directory maps team ids to team directory rows.
type Directory map[int]model.TeamInfo

// NewDirectory indexes teams by TeamID.
func NewDirectory(teams []model.TeamInfo) Directory {
	d := make(Directory, len(teams))
	for _, t := range teams {
		d[t.TeamID] = t
	}
	return d
}

// Rank builds leaderboard entries from records.
//
// Ordering: total DESC, best programming DESC, driver DESC, team id ASC.
// Teams whose name is in the qualified set are highlighted as qualified; the
// best remaining teams are marked as contenders until the number of
// highlighted rows reaches the configured slots.
func Rank(records []model.Record, dir Directory, opts ...Option) []types.Entry {
	o := &options{
		qualified: make(map[string]struct{}),
		slots:     defaultQualifiedSlots,
	}
	for _, opt := range opts {
		opt(o)
	}

	entries := make([]types.Entry, 0, len(records))
	for _, r := range records {
		e := types.Entry{
			TeamID:           r.TeamNumber,
			TeamNumber:       strconv.Itoa(r.TeamNumber),
			TeamName:         r.TeamName,
			EventName:        r.EventName,
			ProgrammingScore: r.ProgrammingScore,
			DriverScore:      r.DriverScore,
			TotalScore:       r.TotalScore,
			HighestAuto:      r.Auto(),
		}
		// qualification is keyed by the name the skills results carry
		if _, ok := o.qualified[r.TeamName]; ok {
			e.Highlight = types.HighlightQualified
		}
		if info, ok := dir[r.TeamNumber]; ok {
			if info.TeamNumber != "" {
				e.TeamNumber = info.TeamNumber
			}
			if info.TeamName != "" {
				e.TeamName = info.TeamName
			}
		}
		if e.TeamName == "" {
			e.TeamName = unknownTeamName
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.TotalScore != b.TotalScore {
			return a.TotalScore > b.TotalScore
		}
		if a.HighestAuto != b.HighestAuto {
			return a.HighestAuto > b.HighestAuto
		}
		if a.DriverScore != b.DriverScore {
			return a.DriverScore > b.DriverScore
		}
		return a.TeamID < b.TeamID
	})

	highlighted := 0
	for i := range entries {
		entries[i].Rank = i + 1
		if entries[i].Highlight == types.HighlightQualified {
			highlighted++
		}
	}
	for i := 0; i < len(entries) && highlighted < o.slots; i++ {
		if entries[i].Highlight == types.HighlightNone {
			entries[i].Highlight = types.HighlightContender
			highlighted++
		}
	}

	return entries
}
