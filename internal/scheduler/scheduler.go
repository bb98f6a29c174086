// Package scheduler runs named jobs on a cadence from a single tick loop.
// Jobs execute sequentially, so two occurrences of the same job can never
// overlap, and a failing job never takes the loop down with it.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// State is the lifecycle state of a scheduled job.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateFailed  State = "failed"
)

// Job is one scheduled unit of work.
type Job struct {
	Name  string
	Every time.Duration
	Run   func(ctx context.Context) error
}

// JobStatus is a point-in-time snapshot of a job's state.
type JobStatus struct {
	Name    string
	State   State
	LastRun time.Time
}

type jobEntry struct {
	job     Job
	state   State
	lastRun time.Time
}

// Scheduler owns the job table and the tick loop.
type Scheduler struct {
	mu      sync.Mutex
	jobs    []*jobEntry
	tick    time.Duration
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a scheduler that polls for due jobs every tick and bounds each
// job run with the given timeout.
func New(tick, timeout time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		tick:    tick,
		timeout: timeout,
		logger:  logger.With("component", "scheduler"),
	}
}

// Add registers a job. Jobs run in registration order when due on the same
// tick. Must be called before Start.
func (s *Scheduler) Add(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, &jobEntry{job: job, state: StateIdle})
}

// Start runs the tick loop until ctx is cancelled. Due jobs run immediately
// on the first tick. An in-flight job is allowed to finish; Start returns
// ctx.Err() once the loop observes the cancellation between runs.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "tick", s.tick, "jobs", len(s.jobs))

	s.runDue(ctx)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runDue(ctx)
		}
	}
}

// Status reports a snapshot of every job.
func (s *Scheduler) Status() []JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]JobStatus, 0, len(s.jobs))
	for _, e := range s.jobs {
		out = append(out, JobStatus{Name: e.job.Name, State: e.state, LastRun: e.lastRun})
	}
	return out
}

func (s *Scheduler) runDue(ctx context.Context) {
	for _, entry := range s.due() {
		if ctx.Err() != nil {
			return
		}
		s.runJob(ctx, entry)
	}
}

func (s *Scheduler) due() []*jobEntry {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	var due []*jobEntry
	for _, e := range s.jobs {
		if e.state == StateRunning {
			continue
		}
		if e.lastRun.IsZero() || now.Sub(e.lastRun) >= e.job.Every {
			due = append(due, e)
		}
	}
	return due
}

func (s *Scheduler) runJob(ctx context.Context, entry *jobEntry) {
	// LastRun is stamped on entry to Running, so a crash mid-run shows up
	// as an overdue next occurrence rather than a silent success.
	s.mu.Lock()
	entry.state = StateRunning
	entry.lastRun = time.Now()
	s.mu.Unlock()

	jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	s.logger.Info("job started", "job", entry.job.Name)
	err := entry.job.Run(jobCtx)

	s.mu.Lock()
	if err != nil {
		entry.state = StateFailed
	} else {
		entry.state = StateIdle
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("job failed", "job", entry.job.Name, "error", err)
		return
	}
	s.logger.Info("job finished", "job", entry.job.Name)
}
