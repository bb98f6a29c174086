// Package espn implements the two fixture-acquisition strategies for the
// source site: the structured schedule endpoint and the fixtures-page scrape.
package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"fixturesync/internal/domain"
	"fixturesync/internal/registry"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Config holds settings shared by both strategies.
type Config struct {
	APIBaseURL  string
	SiteBaseURL string
	League      string
	Timeout     time.Duration
}

// APIStrategy fetches fixtures from the structured per-team schedule endpoint.
type APIStrategy struct {
	httpClient *http.Client
	baseURL    string
	league     string
	logger     *slog.Logger
}

// NewAPIStrategy creates the structured-endpoint strategy.
func NewAPIStrategy(cfg Config, logger *slog.Logger) *APIStrategy {
	return &APIStrategy{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.APIBaseURL,
		league:     cfg.League,
		logger:     logger.With("strategy", "espn-api"),
	}
}

// Name returns the strategy identifier.
func (s *APIStrategy) Name() string { return "espn-api" }

// Fetch retrieves and normalizes the team's upcoming fixtures. A well-formed
// but empty schedule is a success; a schedule where no entry normalizes is
// reported as malformed.
func (s *APIStrategy) Fetch(ctx context.Context, team registry.Team) ([]domain.Match, error) {
	url := fmt.Sprintf("%s/sports/soccer/%s/teams/%s/schedule", s.baseURL, s.league, team.ESPNID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var schedule apiSchedule
	if err := json.NewDecoder(resp.Body).Decode(&schedule); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	matches := make([]domain.Match, 0, len(schedule.Events))
	for _, ev := range schedule.Events {
		m, err := normalizeAPIEvent(ev)
		if err != nil {
			s.logger.Warn("dropping entry",
				"team", team.ID,
				"date", ev.Date,
				"error", err,
			)
			continue
		}
		matches = append(matches, m)
	}

	if len(schedule.Events) > 0 && len(matches) == 0 {
		return nil, &domain.FetchError{
			Reason: domain.FetchMalformed,
			Err:    fmt.Errorf("no entry of %d normalized", len(schedule.Events)),
		}
	}

	s.logger.Debug("fetched schedule", "team", team.ID, "matches", len(matches))
	return matches, nil
}
