package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fixturesync/internal/calendar"
	"fixturesync/internal/domain"
	"fixturesync/internal/registry"
)

// Service orchestrates the fetch → store → calendar pipeline for the
// registered teams.
type Service struct {
	registry *registry.Registry
	fetcher  Fetcher
	store    Store
	sync     Synchronizer
	logger   *slog.Logger
}

func New(reg *registry.Registry, fetcher Fetcher, store Store, sync Synchronizer, logger *slog.Logger) *Service {
	return &Service{
		registry: reg,
		fetcher:  fetcher,
		store:    store,
		sync:     sync,
		logger:   logger.With("component", "service"),
	}
}

// LoadDatabase fetches fixtures for every registered team, groups them by
// competition, and overwrites the stored snapshots. A team whose fetch fails
// is skipped and counted; the run fails only when no team could be fetched
// at all, or when persistence fails.
func (s *Service) LoadDatabase(ctx context.Context) (*domain.LoadReport, error) {
	start := time.Now()
	teams := s.registry.Teams()

	seen := make(map[string]bool)
	var all []domain.Match
	failed := 0

	for _, team := range teams {
		matches, err := s.fetcher.Fetch(ctx, team)
		if err != nil {
			s.logger.Warn("team fetch failed", "team", team.ID, "error", err)
			failed++
			continue
		}
		// Two followed teams meeting each other yield the same fixture
		// twice; keep the first occurrence.
		for _, m := range matches {
			key := calendar.MatchKey(m)
			if seen[key] {
				continue
			}
			seen[key] = true
			all = append(all, m)
		}
	}

	if failed == len(teams) && len(teams) > 0 {
		return nil, &domain.FetchError{
			Reason: domain.FetchUnavailable,
			Err:    fmt.Errorf("all %d teams failed", len(teams)),
		}
	}

	comps := domain.GroupByCompetition(all)
	for _, comp := range comps {
		if err := s.store.Save(ctx, comp.Name, comp.Matches); err != nil {
			return nil, fmt.Errorf("save competition %q: %w", comp.Name, err)
		}
	}

	report := &domain.LoadReport{
		Fetched:      len(all),
		Competitions: len(comps),
		TeamsFailed:  failed,
		Duration:     time.Since(start),
	}
	s.logger.Info("database loaded",
		"fetched", report.Fetched,
		"competitions", report.Competitions,
		"teams_failed", report.TeamsFailed,
		"duration", report.Duration,
	)
	return report, nil
}

// SyncTeamFromStore reconciles the stored matches of one team into the
// calendar.
func (s *Service) SyncTeamFromStore(ctx context.Context, teamID string) (*domain.SyncReport, error) {
	team, ok := s.registry.Lookup(teamID)
	if !ok {
		return nil, &domain.FetchError{
			Reason: domain.FetchNotFound,
			Err:    fmt.Errorf("unknown team %q", teamID),
		}
	}

	comps, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stored matches: %w", err)
	}
	var matches []domain.Match
	for _, comp := range comps {
		for _, m := range comp.Matches {
			if m.Involves(team.DisplayName) {
				matches = append(matches, m)
			}
		}
	}

	if len(matches) == 0 {
		s.logger.Warn("no stored matches for team", "team", team.ID)
	}
	return s.sync.Sync(ctx, team.ID, matches)
}

// SyncTeamFresh fetches the team's fixtures from the source and reconciles
// them into the calendar, bypassing the store.
func (s *Service) SyncTeamFresh(ctx context.Context, teamID string) (*domain.SyncReport, error) {
	team, ok := s.registry.Lookup(teamID)
	if !ok {
		return nil, &domain.FetchError{
			Reason: domain.FetchNotFound,
			Err:    fmt.Errorf("unknown team %q", teamID),
		}
	}

	matches, err := s.fetcher.Fetch(ctx, team)
	if err != nil {
		return nil, fmt.Errorf("fetch fixtures: %w", err)
	}
	return s.sync.Sync(ctx, team.ID, matches)
}
