// Package repository defines the leaderboard store interface and errors.
package repository

import (
	"context"
	"time"

	"github.com/okian/skillboard/internal/domain/types"
)

// Entry represents a leaderboard row.
type Entry = types.Entry

// Store provides read/write access to the published leaderboard.
type Store interface {
	// Replace swaps the whole leaderboard for entries, which must already be
	// ranked. Readers never observe a partially written board.
	Replace(ctx context.Context, entries []Entry) error

	// Rank returns the entry for a team.
	// Returns ErrNotFound if the team is unknown.
	Rank(ctx context.Context, teamID int) (Entry, error)

	// TopN returns the first n entries in rank order.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of teams on the leaderboard.
	Count(ctx context.Context) int

	// UpdatedAt reports when the board was last replaced; zero if never.
	UpdatedAt() time.Time
}
