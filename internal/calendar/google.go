package calendar

import (
	"context"
	"fmt"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// NewService builds an authenticated Calendar API handle. When
// credentialsFile is empty, Application Default Credentials are used.
func NewService(ctx context.Context, credentialsFile string) (*gcal.Service, error) {
	opts := []option.ClientOption{option.WithScopes(gcal.CalendarScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("build calendar service: %w", err)
	}
	return svc, nil
}

// GoogleEvents adapts a *calendar.Service to the EventsAPI contract.
type GoogleEvents struct {
	svc *gcal.Service
}

func NewGoogleEvents(svc *gcal.Service) *GoogleEvents {
	return &GoogleEvents{svc: svc}
}

func (g *GoogleEvents) List(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]*gcal.Event, error) {
	var events []*gcal.Event
	call := g.svc.Events.List(calendarID).
		PrivateExtendedProperty(markerProp + "=" + markerValue).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		MaxResults(250).
		Context(ctx)

	err := call.Pages(ctx, func(page *gcal.Events) error {
		events = append(events, page.Items...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (g *GoogleEvents) Insert(ctx context.Context, calendarID string, ev *gcal.Event) (*gcal.Event, error) {
	return g.svc.Events.Insert(calendarID, ev).Context(ctx).Do()
}

func (g *GoogleEvents) Update(ctx context.Context, calendarID, eventID string, ev *gcal.Event) (*gcal.Event, error) {
	return g.svc.Events.Update(calendarID, eventID, ev).Context(ctx).Do()
}
