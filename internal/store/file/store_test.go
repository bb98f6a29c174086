package file

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixturesync/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testMatch(home, away string, kickoff time.Time) domain.Match {
	return domain.Match{
		Competition: "Brazilian Serie A",
		HomeTeam:    domain.TeamRef{DisplayName: home},
		AwayTeam:    domain.TeamRef{DisplayName: away},
		KickoffTime: kickoff,
	}
}

func TestSaveAndLoad(t *testing.T) {
	store, err := New(t.TempDir(), testLogger())
	require.NoError(t, err)
	ctx := context.Background()

	kickoff := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)
	matches := []domain.Match{
		testMatch("Flamengo", "Palmeiras", kickoff),
		testMatch("Santos", "Bahia", kickoff.Add(24*time.Hour)),
	}

	require.NoError(t, store.Save(ctx, "Brazilian Serie A", matches))

	got, err := store.Load(ctx, "Brazilian Serie A")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Flamengo", got[0].HomeTeam.DisplayName)
	assert.True(t, got[0].KickoffTime.Equal(kickoff))
}

func TestSave_OverwritesPreviousSnapshot(t *testing.T) {
	store, err := New(t.TempDir(), testLogger())
	require.NoError(t, err)
	ctx := context.Background()
	kickoff := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, "Brazilian Serie A", []domain.Match{
		testMatch("Flamengo", "Palmeiras", kickoff),
		testMatch("Santos", "Bahia", kickoff),
	}))
	require.NoError(t, store.Save(ctx, "Brazilian Serie A", []domain.Match{
		testMatch("Flamengo", "Palmeiras", kickoff.Add(time.Hour)),
	}))

	got, err := store.Load(ctx, "Brazilian Serie A")
	require.NoError(t, err)
	require.Len(t, got, 1, "a save replaces the snapshot, it does not append")
	assert.True(t, got[0].KickoffTime.Equal(kickoff.Add(time.Hour)))
}

func TestLoad_UnknownCompetition(t *testing.T) {
	store, err := New(t.TempDir(), testLogger())
	require.NoError(t, err)

	got, err := store.Load(context.Background(), "Copa do Brasil")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLoadAll(t *testing.T) {
	store, err := New(t.TempDir(), testLogger())
	require.NoError(t, err)
	ctx := context.Background()
	kickoff := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, "Brazilian Serie A", []domain.Match{
		testMatch("Flamengo", "Palmeiras", kickoff),
	}))
	require.NoError(t, store.Save(ctx, "Copa do Brasil", []domain.Match{
		testMatch("Santos", "Bahia", kickoff),
	}))

	comps, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, comps, 2)

	names := []string{comps[0].Name, comps[1].Name}
	assert.ElementsMatch(t, []string{"Brazilian Serie A", "Copa do Brasil"}, names)
}

func TestLoad_CorruptDocument(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir, testLogger())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(store.path("Brazilian Serie A"), []byte("{not json"), 0o644))

	_, err = store.Load(context.Background(), "Brazilian Serie A")

	var storeErr *domain.StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, domain.StoreCorruptDocument, storeErr.Reason)
}

func TestSave_SanitizesCompetitionName(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir, testLogger())
	require.NoError(t, err)
	ctx := context.Background()
	kickoff := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, "Copa do Brasil / Knockout", []domain.Match{
		testMatch("Flamengo", "Palmeiras", kickoff),
	}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "copa-do-brasil-knockout-"))
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".json"))

	got, err := store.Load(ctx, "Copa do Brasil / Knockout")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSave_SimilarNamesKeepSeparateFiles(t *testing.T) {
	// "Copa A/B" and "Copa A B" sanitize to the same slug; the snapshots
	// must not share a file.
	store, err := New(t.TempDir(), testLogger())
	require.NoError(t, err)
	ctx := context.Background()
	kickoff := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, "Copa A/B", []domain.Match{
		testMatch("Flamengo", "Palmeiras", kickoff),
	}))
	require.NoError(t, store.Save(ctx, "Copa A B", []domain.Match{
		testMatch("Santos", "Bahia", kickoff),
	}))

	first, err := store.Load(ctx, "Copa A/B")
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "Flamengo", first[0].HomeTeam.DisplayName)

	second, err := store.Load(ctx, "Copa A B")
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "Santos", second[0].HomeTeam.DisplayName)

	comps, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, comps, 2)
}

func TestSave_NoTempFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir, testLogger())
	require.NoError(t, err)

	kickoff := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(context.Background(), "Brazilian Serie A", []domain.Match{
		testMatch("Flamengo", "Palmeiras", kickoff),
	}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}
