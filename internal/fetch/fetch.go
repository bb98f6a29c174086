// Package fetch selects among fixture-acquisition strategies with ordered
// fallback. The first strategy that returns without error is authoritative;
// results are never merged across strategies.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fixturesync/internal/domain"
	"fixturesync/internal/registry"
)

// Strategy is one concrete way of obtaining a team's fixtures.
type Strategy interface {
	Name() string
	Fetch(ctx context.Context, team registry.Team) ([]domain.Match, error)
}

// Fetcher tries its strategies in priority order.
type Fetcher struct {
	strategies []Strategy
	logger     *slog.Logger
}

// New creates a fetcher over the given strategies, tried in slice order.
func New(logger *slog.Logger, strategies ...Strategy) *Fetcher {
	return &Fetcher{
		strategies: strategies,
		logger:     logger.With("component", "fetcher"),
	}
}

// Fetch returns the team's upcoming fixtures from the first strategy that
// succeeds. An empty result from a healthy strategy is a success and stops
// the fallback chain. When every strategy fails, the error is
// FetchError{Unavailable}, unless the last failure was itself a FetchError
// (e.g. Malformed), which is surfaced as-is.
func (f *Fetcher) Fetch(ctx context.Context, team registry.Team) ([]domain.Match, error) {
	var lastErr error

	for _, strat := range f.strategies {
		matches, err := strat.Fetch(ctx, team)
		if err == nil {
			f.logger.Debug("strategy succeeded",
				"strategy", strat.Name(),
				"team", team.ID,
				"matches", len(matches),
			)
			return matches, nil
		}

		f.logger.Warn("strategy failed, falling back",
			"strategy", strat.Name(),
			"team", team.ID,
			"error", err,
		)
		lastErr = err
	}

	if lastErr == nil {
		return nil, &domain.FetchError{Reason: domain.FetchUnavailable}
	}
	var fe *domain.FetchError
	if errors.As(lastErr, &fe) {
		return nil, lastErr
	}
	return nil, &domain.FetchError{
		Reason: domain.FetchUnavailable,
		Err:    fmt.Errorf("all %d strategies failed: %w", len(f.strategies), lastErr),
	}
}
