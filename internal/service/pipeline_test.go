package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gcal "google.golang.org/api/calendar/v3"

	"fixturesync/internal/calendar"
	"fixturesync/internal/fetch"
	"fixturesync/internal/registry"
	"fixturesync/internal/source/espn"
	filestore "fixturesync/internal/store/file"
)

// calendarStub is an in-memory calendar.EventsAPI for wiring the real
// synchronizer into the pipeline.
type calendarStub struct {
	events  map[string]*gcal.Event
	nextID  int
	inserts int
}

func newCalendarStub() *calendarStub {
	return &calendarStub{events: make(map[string]*gcal.Event)}
}

func (c *calendarStub) List(_ context.Context, _ string, _, _ time.Time) ([]*gcal.Event, error) {
	out := make([]*gcal.Event, 0, len(c.events))
	for _, ev := range c.events {
		out = append(out, ev)
	}
	return out, nil
}

func (c *calendarStub) Insert(_ context.Context, _ string, ev *gcal.Event) (*gcal.Event, error) {
	c.nextID++
	stored := *ev
	stored.Id = fmt.Sprintf("ev-%d", c.nextID)
	c.events[stored.Id] = &stored
	c.inserts++
	return &stored, nil
}

func (c *calendarStub) Update(_ context.Context, _ string, eventID string, ev *gcal.Event) (*gcal.Event, error) {
	stored := *ev
	stored.Id = eventID
	c.events[eventID] = &stored
	return &stored, nil
}

const pipelineSchedule = `{
  "events": [
    {
      "date": "2025-03-01T20:00Z",
      "competitions": [
        {
          "name": "Brazilian Serie A",
          "competitors": [
            {"homeAway": "home", "team": {"abbreviation": "HOM", "displayName": "Home FC"}},
            {"homeAway": "away", "team": {"abbreviation": "AWY", "displayName": "Away United"}}
          ],
          "venue": {"fullName": "Estádio Central"}
        }
      ]
    }
  ]
}`

// TestPipeline_EndToEnd drives the whole chain with real components: the
// structured endpoint over httptest, the fallback fetcher, the file store,
// and the calendar synchronizer against an empty in-memory calendar. One
// fixture for the followed team must come out the other end as exactly one
// created event with the expected summary, start time, and reminders.
func TestPipeline_EndToEnd(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/teams/42/") {
			_, _ = w.Write([]byte(pipelineSchedule))
			return
		}
		_, _ = w.Write([]byte(`{"events": []}`))
	}))
	defer server.Close()

	reg, err := registry.New([]registry.Entry{
		{ID: "HOME_FC", DisplayName: "Home FC", ESPNID: "42", Slug: "home-fc"},
	})
	require.NoError(t, err)

	srcCfg := espn.Config{
		APIBaseURL:  server.URL,
		SiteBaseURL: server.URL,
		League:      "bra.1",
		Timeout:     5 * time.Second,
	}
	fetcher := fetch.New(logger, espn.NewAPIStrategy(srcCfg, logger))

	store, err := filestore.New(t.TempDir(), logger)
	require.NoError(t, err)

	stub := newCalendarStub()
	sync := calendar.NewSynchronizer(stub, nil, calendar.Config{
		CalendarID:    "primary",
		WindowDays:    60,
		EventDuration: 2 * time.Hour,
	}, logger)

	svc := New(reg, fetcher, store, sync, logger)

	loadReport, err := svc.LoadDatabase(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, loadReport.Fetched)
	assert.Equal(t, 1, loadReport.Competitions)
	assert.Equal(t, 0, loadReport.TeamsFailed)

	syncReport, err := svc.SyncTeamFromStore(ctx, "HOME_FC")
	require.NoError(t, err)
	assert.Equal(t, 1, syncReport.Created)
	assert.Equal(t, 0, syncReport.Updated)
	assert.Equal(t, 0, syncReport.Failed)

	require.Len(t, stub.events, 1)
	var ev *gcal.Event
	for _, stored := range stub.events {
		ev = stored
	}
	assert.Equal(t, "⚽ Home FC vs Away United", ev.Summary)
	assert.Equal(t, "2025-03-01T20:00:00Z", ev.Start.DateTime)
	assert.Equal(t, "2025-03-01T22:00:00Z", ev.End.DateTime)
	assert.Equal(t, "Estádio Central", ev.Location)
	require.NotNil(t, ev.Reminders)
	require.Len(t, ev.Reminders.Overrides, 2)
	assert.Equal(t, "popup", ev.Reminders.Overrides[0].Method)
	assert.Equal(t, int64(30), ev.Reminders.Overrides[0].Minutes)
	assert.Equal(t, int64(60), ev.Reminders.Overrides[1].Minutes)
	require.NotNil(t, ev.ExtendedProperties)
	assert.Equal(t, "fixturesync", ev.ExtendedProperties.Private["managedBy"])
	assert.NotEmpty(t, ev.ExtendedProperties.Private["matchKey"])

	// The second pass must find the event unchanged.
	again, err := svc.SyncTeamFromStore(ctx, "HOME_FC")
	require.NoError(t, err)
	assert.Equal(t, 0, again.Created)
	assert.Equal(t, 1, again.Unchanged)
	assert.Equal(t, 1, stub.inserts)
}
