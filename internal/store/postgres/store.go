// Package postgres is the optional database-backed store. Overwrite
// semantics match the file backend: a save replaces the competition's rows
// inside one transaction.
package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"fixturesync/internal/domain"
)

type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

type matchRow struct {
	Competition    string    `db:"competition"`
	HomeAbbrev     string    `db:"home_abbrev"`
	HomeName       string    `db:"home_name"`
	HomeLogoURL    string    `db:"home_logo_url"`
	HomeLink       string    `db:"home_link"`
	AwayAbbrev     string    `db:"away_abbrev"`
	AwayName       string    `db:"away_name"`
	AwayLogoURL    string    `db:"away_logo_url"`
	AwayLink       string    `db:"away_link"`
	KickoffTime    time.Time `db:"kickoff_time"`
	KickoffDisplay string    `db:"kickoff_display"`
	Completed      bool      `db:"completed"`
	Venue          string    `db:"venue"`
	SourceLink     string    `db:"source_link"`
}

func toRow(competition string, m domain.Match) matchRow {
	return matchRow{
		Competition:    competition,
		HomeAbbrev:     m.HomeTeam.Abbrev,
		HomeName:       m.HomeTeam.DisplayName,
		HomeLogoURL:    m.HomeTeam.LogoURL,
		HomeLink:       m.HomeTeam.ProfileLink,
		AwayAbbrev:     m.AwayTeam.Abbrev,
		AwayName:       m.AwayTeam.DisplayName,
		AwayLogoURL:    m.AwayTeam.LogoURL,
		AwayLink:       m.AwayTeam.ProfileLink,
		KickoffTime:    m.KickoffTime.UTC(),
		KickoffDisplay: m.KickoffDisplay,
		Completed:      m.Completed,
		Venue:          m.Venue,
		SourceLink:     m.SourceLink,
	}
}

func (r matchRow) toDomain() domain.Match {
	return domain.Match{
		Competition: r.Competition,
		HomeTeam: domain.TeamRef{
			Abbrev:      r.HomeAbbrev,
			DisplayName: r.HomeName,
			LogoURL:     r.HomeLogoURL,
			ProfileLink: r.HomeLink,
		},
		AwayTeam: domain.TeamRef{
			Abbrev:      r.AwayAbbrev,
			DisplayName: r.AwayName,
			LogoURL:     r.AwayLogoURL,
			ProfileLink: r.AwayLink,
		},
		KickoffTime:    r.KickoffTime.UTC(),
		KickoffDisplay: r.KickoffDisplay,
		Completed:      r.Completed,
		Venue:          r.Venue,
		SourceLink:     r.SourceLink,
	}
}

const matchColumns = `
	competition, home_abbrev, home_name, home_logo_url, home_link,
	away_abbrev, away_name, away_logo_url, away_link,
	kickoff_time, kickoff_display, completed, venue, source_link`

const insertMatch = `
	INSERT INTO fixtures (
		competition, home_abbrev, home_name, home_logo_url, home_link,
		away_abbrev, away_name, away_logo_url, away_link,
		kickoff_time, kickoff_display, completed, venue, source_link
	) VALUES (
		:competition, :home_abbrev, :home_name, :home_logo_url, :home_link,
		:away_abbrev, :away_name, :away_logo_url, :away_link,
		:kickoff_time, :kickoff_display, :completed, :venue, :source_link
	)`

func (s *Store) Save(ctx context.Context, competition string, matches []domain.Match) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return &domain.StoreError{Reason: domain.StoreIOFailure, Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM fixtures WHERE competition = $1", competition); err != nil {
		return &domain.StoreError{Reason: domain.StoreIOFailure, Err: err}
	}

	for _, m := range matches {
		if _, err := tx.NamedExecContext(ctx, insertMatch, toRow(competition, m)); err != nil {
			return &domain.StoreError{Reason: domain.StoreIOFailure, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &domain.StoreError{Reason: domain.StoreIOFailure, Err: err}
	}
	return nil
}

func (s *Store) Load(ctx context.Context, competition string) ([]domain.Match, error) {
	var rows []matchRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT"+matchColumns+" FROM fixtures WHERE competition = $1 ORDER BY kickoff_time", competition)
	if err != nil {
		return nil, &domain.StoreError{Reason: domain.StoreIOFailure, Err: err}
	}

	matches := make([]domain.Match, 0, len(rows))
	for _, r := range rows {
		matches = append(matches, r.toDomain())
	}
	return matches, nil
}

func (s *Store) LoadAll(ctx context.Context) ([]domain.Competition, error) {
	var rows []matchRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT"+matchColumns+" FROM fixtures ORDER BY competition, kickoff_time")
	if err != nil {
		return nil, &domain.StoreError{Reason: domain.StoreIOFailure, Err: err}
	}

	index := make(map[string]int)
	var comps []domain.Competition
	for _, r := range rows {
		i, ok := index[r.Competition]
		if !ok {
			i = len(comps)
			index[r.Competition] = i
			comps = append(comps, domain.Competition{Name: r.Competition})
		}
		comps[i].Matches = append(comps[i].Matches, r.toDomain())
	}
	return comps, nil
}
