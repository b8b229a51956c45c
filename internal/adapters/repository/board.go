package repository

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/okian/skillboard/pkg/metrics"
)

// Snapshot represents an immutable snapshot of the leaderboard state.
type Snapshot struct {
	// Entries in rank order.
	Entries []Entry
	// RankByTeam indexes Entries by team id.
	RankByTeam map[int]int
	UpdatedAt  time.Time
}

// Board is an in-memory Store. Writers build a new Snapshot and publish it
// with a single atomic store, so reads take no locks.
type Board struct {
	snapshot atomic.Pointer[Snapshot]
	now      func() time.Time
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	b := &Board{now: time.Now}
	b.snapshot.Store(&Snapshot{RankByTeam: map[int]int{}})
	return b
}

// Replace implements Store.Replace.
func (b *Board) Replace(_ context.Context, entries []Entry) error {
	cp := make([]Entry, len(entries))
	copy(cp, entries)

	idx := make(map[int]int, len(cp))
	for i, e := range cp {
		// first occurrence wins if a team appears twice
		if _, ok := idx[e.TeamID]; !ok {
			idx[e.TeamID] = i
		}
	}

	b.snapshot.Store(&Snapshot{
		Entries:    cp,
		RankByTeam: idx,
		UpdatedAt:  b.now(),
	})
	metrics.UpdateLeaderboardSize(len(cp))
	return nil
}

// Rank returns the entry for teamID in O(1).
func (b *Board) Rank(_ context.Context, teamID int) (Entry, error) {
	s := b.snapshot.Load()
	i, ok := s.RankByTeam[teamID]
	if !ok {
		metrics.RecordErrorByType("not_found", "low")
		return Entry{}, ErrNotFound
	}
	return s.Entries[i], nil
}

// TopN returns up to n entries in rank order.
func (b *Board) TopN(_ context.Context, n int) ([]Entry, error) {
	if n < 1 {
		metrics.RecordErrorByType("invalid_limit", "low")
		return nil, ErrInvalidLimit
	}

	s := b.snapshot.Load()
	if n > len(s.Entries) {
		n = len(s.Entries)
	}
	out := make([]Entry, n)
	copy(out, s.Entries[:n])
	return out, nil
}

// Count returns the number of teams on the board.
func (b *Board) Count(_ context.Context) int {
	return len(b.snapshot.Load().Entries)
}

// UpdatedAt returns the time of the last Replace.
func (b *Board) UpdatedAt() time.Time {
	return b.snapshot.Load().UpdatedAt
}
