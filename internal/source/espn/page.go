package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"fixturesync/internal/domain"
	"fixturesync/internal/registry"
)

// The site embeds its page state as a script-block assignment.
var embeddedStateRe = regexp.MustCompile(`(?s)window\['__espnfitt__'\]\s*=\s*(\{.*?\});`)

// PageStrategy scrapes the team's fixtures page. It prefers the JSON payload
// embedded in the page state and falls back to the visible fixtures table.
type PageStrategy struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewPageStrategy creates the page-scrape strategy.
func NewPageStrategy(cfg Config, logger *slog.Logger) *PageStrategy {
	return &PageStrategy{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.SiteBaseURL,
		logger:     logger.With("strategy", "espn-page"),
	}
}

// Name returns the strategy identifier.
func (s *PageStrategy) Name() string { return "espn-page" }

// Fetch retrieves the fixtures page and normalizes whatever fixture data it
// can locate in it.
func (s *PageStrategy) Fetch(ctx context.Context, team registry.Team) ([]domain.Match, error) {
	url := fmt.Sprintf("%s/soccer/team/fixtures/_/id/%s/%s", s.baseURL, team.ESPNID, team.Slug)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	if events, ok := s.embeddedEvents(doc); ok {
		return s.normalizeEmbedded(team, events)
	}

	s.logger.Debug("no embedded payload, parsing fixture table", "team", team.ID)
	return s.tableMatches(team, doc)
}

// embeddedEvents locates the page-state JSON inside a script block.
func (s *PageStrategy) embeddedEvents(doc *goquery.Document) ([]pageEvent, bool) {
	var events []pageEvent
	found := false

	doc.Find("script").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := sel.Text()
		if !strings.Contains(text, "__espnfitt__") {
			return true
		}
		m := embeddedStateRe.FindStringSubmatch(text)
		if m == nil {
			return true
		}
		var payload pagePayload
		if err := json.Unmarshal([]byte(m[1]), &payload); err != nil {
			s.logger.Warn("embedded payload did not parse", "error", err)
			return true
		}
		events = payload.Page.Content.Fixtures.Events
		found = true
		return false
	})

	return events, found
}

func (s *PageStrategy) normalizeEmbedded(team registry.Team, events []pageEvent) ([]domain.Match, error) {
	matches := make([]domain.Match, 0, len(events))
	for _, ev := range events {
		m, err := normalizePageEvent(ev, s.baseURL)
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

	if len(events) > 0 && len(matches) == 0 {
		return nil, &domain.FetchError{
			Reason: domain.FetchMalformed,
			Err:    fmt.Errorf("no entry of %d normalized", len(events)),
		}
	}
	return matches, nil
}

// tableMatches parses the visible fixtures table. Rows carry the kickoff in a
// data-date attribute and the two sides as team anchors; rows without a
// resolvable kickoff are dropped.
func (s *PageStrategy) tableMatches(team registry.Team, doc *goquery.Document) ([]domain.Match, error) {
	rows := doc.Find("tr[data-date]")
	if rows.Length() == 0 {
		return nil, fmt.Errorf("no fixture data found in page")
	}

	matches := make([]domain.Match, 0, rows.Length())
	rows.Each(func(_ int, row *goquery.Selection) {
		date, _ := row.Attr("data-date")
		kickoff, err := parseKickoff(date)
		if err != nil {
			s.logger.Warn("dropping row", "team", team.ID, "date", date, "error", err)
			return
		}

		teams := row.Find(".Table__Team")
		if teams.Length() < 2 {
			s.logger.Warn("dropping row", "team", team.ID, "date", date, "error", "missing team cells")
			return
		}

		m := domain.Match{
			Competition: strings.TrimSpace(row.Find(".competition").Text()),
			HomeTeam:    domain.TeamRef{DisplayName: cellTeamName(teams.First())},
			AwayTeam:    domain.TeamRef{DisplayName: cellTeamName(teams.Eq(1))},
			KickoffTime: kickoff,
		}
		matches = append(matches, m)
	})

	if len(matches) == 0 {
		return nil, &domain.FetchError{
			Reason: domain.FetchMalformed,
			Err:    fmt.Errorf("no row of %d normalized", rows.Length()),
		}
	}
	return matches, nil
}

func cellTeamName(sel *goquery.Selection) string {
	if a := sel.Find("a").Last(); a.Length() > 0 {
		return strings.TrimSpace(a.Text())
	}
	return strings.TrimSpace(sel.Text())
}
