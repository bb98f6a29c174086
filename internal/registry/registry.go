// Package registry holds the static mapping from followed teams to the
// identifiers the fixture source knows them by. The registry is built once
// at startup and never mutated.
package registry

import (
	"fmt"
	"sort"
	"strings"
)

// Team describes one followed team.
type Team struct {
	ID          string
	DisplayName string
	ESPNID      string
	Slug        string
}

// Registry is an immutable team lookup table.
type Registry struct {
	byID map[string]Team
}

// Entry is the configuration shape for a registry override.
type Entry struct {
	ID          string `yaml:"id"`
	DisplayName string `yaml:"display_name"`
	ESPNID      string `yaml:"espn_id"`
	Slug        string `yaml:"slug"`
}

// Série A club ids on the source site.
var defaultTeams = []Team{
	{ID: "FLAMENGO", DisplayName: "Flamengo", ESPNID: "819", Slug: "flamengo"},
	{ID: "PALMEIRAS", DisplayName: "Palmeiras", ESPNID: "2029", Slug: "palmeiras"},
	{ID: "CRUZEIRO", DisplayName: "Cruzeiro", ESPNID: "2022", Slug: "cruzeiro"},
	{ID: "MIRASSOL", DisplayName: "Mirassol", ESPNID: "9169", Slug: "mirassol"},
	{ID: "BAHIA", DisplayName: "Bahia", ESPNID: "9967", Slug: "bahia"},
	{ID: "BOTAFOGO", DisplayName: "Botafogo", ESPNID: "6086", Slug: "botafogo"},
	{ID: "SAO_PAULO", DisplayName: "São Paulo", ESPNID: "2026", Slug: "sao-paulo"},
	{ID: "BRAGANTINO", DisplayName: "Red Bull Bragantino", ESPNID: "6079", Slug: "bragantino"},
	{ID: "CORINTHIANS", DisplayName: "Corinthians", ESPNID: "874", Slug: "corinthians"},
	{ID: "FLUMINENSE", DisplayName: "Fluminense", ESPNID: "3445", Slug: "fluminense"},
	{ID: "INTERNACIONAL", DisplayName: "Internacional", ESPNID: "1936", Slug: "internacional"},
	{ID: "CEARA", DisplayName: "Ceará", ESPNID: "9969", Slug: "ceara"},
	{ID: "GREMIO", DisplayName: "Grêmio", ESPNID: "6273", Slug: "gremio"},
	{ID: "ATLETICO_MG", DisplayName: "Atlético Mineiro", ESPNID: "7632", Slug: "atletico-mg"},
	{ID: "VASCO", DisplayName: "Vasco da Gama", ESPNID: "3454", Slug: "vasco"},
	{ID: "SANTOS", DisplayName: "Santos", ESPNID: "2674", Slug: "santos"},
	{ID: "VITORIA", DisplayName: "Vitória", ESPNID: "3457", Slug: "vitoria"},
	{ID: "JUVENTUDE", DisplayName: "Juventude", ESPNID: "6270", Slug: "juventude"},
	{ID: "FORTALEZA", DisplayName: "Fortaleza", ESPNID: "6272", Slug: "fortaleza"},
	{ID: "SPORT", DisplayName: "Sport Recife", ESPNID: "7631", Slug: "sport"},
}

// New builds a registry from the built-in team table plus any overrides.
// An override with an existing ID replaces the built-in entry; a new ID is
// appended. Entries must carry an ESPN id.
func New(overrides []Entry) (*Registry, error) {
	byID := make(map[string]Team, len(defaultTeams))
	for _, t := range defaultTeams {
		byID[t.ID] = t
	}
	for _, e := range overrides {
		id := strings.ToUpper(strings.TrimSpace(e.ID))
		if id == "" {
			return nil, fmt.Errorf("registry entry missing id")
		}
		if e.ESPNID == "" {
			return nil, fmt.Errorf("registry entry %q missing espn_id", id)
		}
		name := e.DisplayName
		if name == "" {
			name = id
		}
		slug := e.Slug
		if slug == "" {
			slug = strings.ToLower(strings.ReplaceAll(id, "_", "-"))
		}
		byID[id] = Team{ID: id, DisplayName: name, ESPNID: e.ESPNID, Slug: slug}
	}
	return &Registry{byID: byID}, nil
}

// Lookup resolves a team by its identifier, case-insensitively.
func (r *Registry) Lookup(id string) (Team, bool) {
	t, ok := r.byID[strings.ToUpper(strings.TrimSpace(id))]
	return t, ok
}

// Teams returns every registered team, ordered by ID.
func (r *Registry) Teams() []Team {
	out := make([]Team, 0, len(r.byID))
	for _, t := range r.byID {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
