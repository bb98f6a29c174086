// Package calendar reconciles fixture data into a calendar, idempotently.
// Events the synchronizer owns are tagged through private extended
// properties, so re-running a sync is safe even after the local store is
// wiped: identity lives in the event metadata, not in provider event ids.
package calendar

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	gcal "google.golang.org/api/calendar/v3"

	"fixturesync/internal/domain"
)

const (
	markerProp  = "managedBy"
	markerValue = "fixturesync"
	keyProp     = "matchKey"
)

// EventsAPI is the narrow slice of the calendar provider the synchronizer
// needs. The Google implementation lives in google.go.
type EventsAPI interface {
	// List returns the events tagged with this system's marker within the
	// given time window.
	List(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]*gcal.Event, error)
	Insert(ctx context.Context, calendarID string, ev *gcal.Event) (*gcal.Event, error)
	Update(ctx context.Context, calendarID, eventID string, ev *gcal.Event) (*gcal.Event, error)
}

// Notifier is told about every created or updated event. A nil Notifier
// disables notifications.
type Notifier interface {
	Publish(ctx context.Context, match *domain.Match, isNew bool) error
}

// MatchKey derives the deterministic idempotency key for a match:
// a truncated SHA-256 of the identity tuple, stable across runs.
func MatchKey(m domain.Match) string {
	id := fmt.Sprintf("%s|%s|%s",
		keyName(m.HomeTeam),
		keyName(m.AwayTeam),
		m.KickoffTime.UTC().Format(time.RFC3339),
	)
	sum := sha256.Sum256([]byte(id))
	return hex.EncodeToString(sum[:16])
}

// The page-scrape DOM fallback cannot always recover abbreviations, so the
// key falls back to the display name rather than fabricating one.
func keyName(ref domain.TeamRef) string {
	if ref.Abbrev != "" {
		return ref.Abbrev
	}
	return ref.DisplayName
}

// buildEvent renders a match as the calendar event the synchronizer wants
// to exist.
func buildEvent(m domain.Match, duration time.Duration) *gcal.Event {
	start := m.KickoffTime.UTC()
	end := start.Add(duration)

	description := m.Competition
	if m.Venue != "" {
		description += "\nVenue: " + m.Venue
	}
	if m.SourceLink != "" {
		description += "\n" + m.SourceLink
	}

	return &gcal.Event{
		Summary:     fmt.Sprintf("⚽ %s vs %s", m.HomeTeam.DisplayName, m.AwayTeam.DisplayName),
		Description: description,
		Location:    m.Venue,
		Start: &gcal.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: "UTC",
		},
		End: &gcal.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: "UTC",
		},
		Reminders: &gcal.EventReminders{
			UseDefault: false,
			Overrides: []*gcal.EventReminder{
				{Method: "popup", Minutes: 30},
				{Method: "popup", Minutes: 60},
			},
			ForceSendFields: []string{"UseDefault"},
		},
		ExtendedProperties: &gcal.EventExtendedProperties{
			Private: map[string]string{
				markerProp: markerValue,
				keyProp:    MatchKey(m),
				"completed": strconv.FormatBool(m.Completed),
			},
		},
	}
}

// eventDiffers reports whether the existing event deviates from the desired
// one in any field the synchronizer maps.
func eventDiffers(existing, desired *gcal.Event) bool {
	if existing.Summary != desired.Summary ||
		existing.Location != desired.Location ||
		existing.Description != desired.Description {
		return true
	}
	if !sameInstant(existing.Start, desired.Start) || !sameInstant(existing.End, desired.End) {
		return true
	}
	return privateProp(existing, "completed") != privateProp(desired, "completed")
}

// sameInstant compares event times as instants; the provider may echo a
// different RFC3339 offset rendering than the one written.
func sameInstant(a, b *gcal.EventDateTime) bool {
	if a == nil || b == nil {
		return a == b
	}
	at, errA := time.Parse(time.RFC3339, a.DateTime)
	bt, errB := time.Parse(time.RFC3339, b.DateTime)
	if errA != nil || errB != nil {
		return a.DateTime == b.DateTime
	}
	return at.Equal(bt)
}

func privateProp(ev *gcal.Event, key string) string {
	if ev.ExtendedProperties == nil || ev.ExtendedProperties.Private == nil {
		return ""
	}
	return ev.ExtendedProperties.Private[key]
}
