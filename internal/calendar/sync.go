package calendar

import (
	"context"
	"errors"
	"log/slog"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"fixturesync/internal/domain"
)

// Config holds synchronizer settings.
type Config struct {
	CalendarID    string
	WindowDays    int
	EventDuration time.Duration
}

// Synchronizer reconciles a team's matches against the target calendar.
type Synchronizer struct {
	api      EventsAPI
	notifier Notifier
	cfg      Config
	logger   *slog.Logger
	now      func() time.Time
}

// NewSynchronizer creates a synchronizer. notifier may be nil.
func NewSynchronizer(api EventsAPI, notifier Notifier, cfg Config, logger *slog.Logger) *Synchronizer {
	return &Synchronizer{
		api:      api,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger.With("component", "calendar"),
		now:      time.Now,
	}
}

// Sync creates, updates, or skips one event per match. Per-event failures
// are counted and do not stop the batch; only an unusable provider (auth
// failure, unreachable) aborts, returning the partial report alongside the
// error. Tagged events for matches no longer in the list are left alone.
func (s *Synchronizer) Sync(ctx context.Context, team string, matches []domain.Match) (*domain.SyncReport, error) {
	start := s.now()
	report := &domain.SyncReport{Team: team}

	timeMin := start.Add(-24 * time.Hour)
	timeMax := start.AddDate(0, 0, s.cfg.WindowDays)

	existing, err := s.api.List(ctx, s.cfg.CalendarID, timeMin, timeMax)
	if err != nil {
		fatal := s.classify(err)
		if fatal == nil {
			fatal = &domain.SyncError{Reason: domain.SyncProviderUnavailable, Err: err}
		}
		return report, fatal
	}

	byKey := make(map[string]*gcal.Event, len(existing))
	for _, ev := range existing {
		if key := privateProp(ev, keyProp); key != "" {
			byKey[key] = ev
		}
	}

	s.logger.Info("reconciling matches",
		"team", team,
		"incoming", len(matches),
		"existing", len(byKey),
	)

	for i := range matches {
		m := &matches[i]
		key := MatchKey(*m)
		desired := buildEvent(*m, s.cfg.EventDuration)

		current, ok := byKey[key]
		switch {
		case !ok:
			if _, err := s.api.Insert(ctx, s.cfg.CalendarID, desired); err != nil {
				if fatal := s.classify(err); fatal != nil {
					report.Failed++
					report.Duration = s.now().Sub(start)
					return report, fatal
				}
				s.logger.Warn("create failed", "key", key, "error", err)
				report.Failed++
				continue
			}
			report.Created++
			s.notify(ctx, m, true)

		case eventDiffers(current, desired):
			if _, err := s.api.Update(ctx, s.cfg.CalendarID, current.Id, desired); err != nil {
				if fatal := s.classify(err); fatal != nil {
					report.Failed++
					report.Duration = s.now().Sub(start)
					return report, fatal
				}
				s.logger.Warn("update failed", "key", key, "error", err)
				report.Failed++
				continue
			}
			report.Updated++
			s.notify(ctx, m, false)

		default:
			report.Unchanged++
		}
	}

	report.Duration = s.now().Sub(start)
	s.logger.Info("sync completed",
		"team", team,
		"created", report.Created,
		"updated", report.Updated,
		"unchanged", report.Unchanged,
		"failed", report.Failed,
		"duration", report.Duration,
	)
	return report, nil
}

// classify maps provider errors onto the sync taxonomy. Auth problems and
// transport-level failures are fatal for the batch; any other per-event
// provider error is not.
func (s *Synchronizer) classify(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 401, 403:
			return &domain.SyncError{Reason: domain.SyncAuthFailure, Err: err}
		case 500, 502, 503:
			return &domain.SyncError{Reason: domain.SyncProviderUnavailable, Err: err}
		}
		return nil
	}
	// Anything that is not an HTTP-level rejection means the provider was
	// never reached (transport failure, cancelled context).
	return &domain.SyncError{Reason: domain.SyncProviderUnavailable, Err: err}
}

func (s *Synchronizer) notify(ctx context.Context, m *domain.Match, isNew bool) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, m, isNew); err != nil {
		s.logger.Warn("notification failed", "error", err)
	}
}
