package espn

import (
	"fmt"
	"time"

	"fixturesync/internal/domain"
)

// Kickoff layouts seen on the source. The API reports minute precision
// ("2025-03-01T20:00Z"), the page state sometimes full RFC3339.
var kickoffLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
}

func parseKickoff(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, &domain.NormalizationError{Reason: domain.NormMissingTimestamp}
	}
	for _, layout := range kickoffLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, &domain.NormalizationError{
		Reason: domain.NormMissingTimestamp,
		Err:    fmt.Errorf("unparseable kickoff %q", raw),
	}
}

// normalizeAPIEvent maps one schedule-endpoint event to a canonical Match.
func normalizeAPIEvent(ev apiEvent) (domain.Match, error) {
	kickoff, err := parseKickoff(ev.Date)
	if err != nil {
		return domain.Match{}, err
	}

	if len(ev.Competitions) == 0 {
		return domain.Match{}, &domain.NormalizationError{
			Reason: domain.NormUnmappableEntry,
			Err:    fmt.Errorf("event has no competition"),
		}
	}
	comp := ev.Competitions[0]
	if len(comp.Competitors) < 2 {
		return domain.Match{}, &domain.NormalizationError{
			Reason: domain.NormUnmappableEntry,
			Err:    fmt.Errorf("event has %d competitors", len(comp.Competitors)),
		}
	}

	home, away := comp.Competitors[0], comp.Competitors[1]
	for _, c := range comp.Competitors {
		switch c.HomeAway {
		case "home":
			home = c
		case "away":
			away = c
		}
	}

	m := domain.Match{
		Competition: comp.Name,
		HomeTeam:    apiTeamRef(home.Team),
		AwayTeam:    apiTeamRef(away.Team),
		KickoffTime: kickoff,
	}
	if comp.Venue != nil {
		m.Venue = comp.Venue.FullName
	}
	if comp.Status != nil {
		m.Completed = comp.Status.Type.Completed
		m.KickoffDisplay = comp.Status.Type.Detail
	}
	return m, nil
}

func apiTeamRef(t apiTeam) domain.TeamRef {
	ref := domain.TeamRef{
		Abbrev:      t.Abbreviation,
		DisplayName: t.DisplayName,
	}
	if len(t.Logos) > 0 {
		ref.LogoURL = t.Logos[0].Href
	}
	if len(t.Links) > 0 {
		ref.ProfileLink = t.Links[0].Href
	}
	return ref
}

// normalizePageEvent maps one embedded-page fixture to a canonical Match.
// baseURL prefixes the relative links the page state carries.
func normalizePageEvent(ev pageEvent, baseURL string) (domain.Match, error) {
	kickoff, err := parseKickoff(ev.Date)
	if err != nil {
		return domain.Match{}, err
	}
	if len(ev.Competitors) < 2 {
		return domain.Match{}, &domain.NormalizationError{
			Reason: domain.NormUnmappableEntry,
			Err:    fmt.Errorf("event has %d competitors", len(ev.Competitors)),
		}
	}

	var home, away domain.TeamRef
	for _, c := range ev.Competitors {
		ref := domain.TeamRef{
			Abbrev:      c.Abbrev,
			DisplayName: c.DisplayName,
			LogoURL:     c.Logo,
		}
		if c.Links != "" {
			ref.ProfileLink = baseURL + c.Links
		}
		if c.IsHome {
			home = ref
		} else {
			away = ref
		}
	}
	if home.DisplayName == "" || away.DisplayName == "" {
		return domain.Match{}, &domain.NormalizationError{
			Reason: domain.NormUnmappableEntry,
			Err:    fmt.Errorf("missing home or away competitor"),
		}
	}

	m := domain.Match{
		Competition: ev.League,
		HomeTeam:    home,
		AwayTeam:    away,
		KickoffTime: kickoff,
		Completed:   ev.Completed,
	}
	if ev.Status != nil {
		m.KickoffDisplay = ev.Status.Detail
	}
	if ev.Venue != nil {
		m.Venue = ev.Venue.FullName
	}
	if ev.Link != "" {
		m.SourceLink = baseURL + ev.Link
	}
	return m, nil
}
