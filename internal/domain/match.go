package domain

import (
	"strings"
	"time"
)

// TeamRef identifies one side of a match as reported by the fixture source.
// LogoURL and ProfileLink are empty when the source does not provide them.
type TeamRef struct {
	Abbrev      string `json:"abbrev"`
	DisplayName string `json:"displayName"`
	LogoURL     string `json:"logoUrl,omitempty"`
	ProfileLink string `json:"profileLink,omitempty"`
}

// Match is the canonical fixture record produced by normalization.
// KickoffTime is always present and in UTC; KickoffDisplay preserves the
// source's human-readable rendering when one was supplied.
type Match struct {
	Competition    string    `json:"competition"`
	HomeTeam       TeamRef   `json:"homeTeam"`
	AwayTeam       TeamRef   `json:"awayTeam"`
	KickoffTime    time.Time `json:"kickoffTime"`
	KickoffDisplay string    `json:"kickoffDisplay,omitempty"`
	Completed      bool      `json:"completed"`
	Venue          string    `json:"venue,omitempty"`
	SourceLink     string    `json:"sourceLink,omitempty"`
}

// Competition groups the matches fetched for one competition.
type Competition struct {
	Name    string  `json:"name"`
	Matches []Match `json:"matches"`
}

// GroupByCompetition buckets matches into competitions, preserving the order
// in which competitions first appear.
func GroupByCompetition(matches []Match) []Competition {
	index := make(map[string]int)
	var comps []Competition
	for _, m := range matches {
		name := m.Competition
		i, ok := index[name]
		if !ok {
			i = len(comps)
			index[name] = i
			comps = append(comps, Competition{Name: name})
		}
		comps[i].Matches = append(comps[i].Matches, m)
	}
	return comps
}

// Involves reports whether the named team plays on either side of the match.
// Comparison is case-insensitive and exact against abbreviation and display
// name; substring matching would let "Sport" claim every team whose name
// contains the word.
func (m Match) Involves(team string) bool {
	return refMatches(m.HomeTeam, team) || refMatches(m.AwayTeam, team)
}

func refMatches(ref TeamRef, team string) bool {
	return strings.EqualFold(ref.Abbrev, team) || strings.EqualFold(ref.DisplayName, team)
}
