// Package store defines the local persistence contract. A save replaces the
// competition's previous snapshot wholesale, so cancelled or moved fixtures
// disappear on the next load cycle.
package store

import (
	"context"

	"fixturesync/internal/domain"
)

// Store persists competition snapshots between runs.
type Store interface {
	// Save atomically replaces the stored matches for a competition.
	Save(ctx context.Context, competition string, matches []domain.Match) error
	// Load returns the stored matches for a competition. An unknown
	// competition yields an empty result, not an error.
	Load(ctx context.Context, competition string) ([]domain.Match, error)
	// LoadAll returns every stored competition.
	LoadAll(ctx context.Context) ([]domain.Competition, error)
}
