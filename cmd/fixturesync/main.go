package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"fixturesync/internal/calendar"
	"fixturesync/internal/config"
	"fixturesync/internal/domain"
	"fixturesync/internal/fetch"
	"fixturesync/internal/publisher"
	"fixturesync/internal/registry"
	"fixturesync/internal/scheduler"
	"fixturesync/internal/service"
	"fixturesync/internal/source/espn"
	"fixturesync/internal/store"
	filestore "fixturesync/internal/store/file"
	pgstore "fixturesync/internal/store/postgres"
)

const usage = `usage: fixturesync [-config FILE] COMMAND [ARGS]

Commands:
  load-database              fetch fixtures for all registered teams and store them
  add-to-calendar TEAM       sync a team's stored fixtures into the calendar
  add-team-to-calendar TEAM  fetch a team's fixtures and sync them, bypassing the store
  schedule                   run the load and calendar jobs on their configured intervals
`

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	command := flag.Arg(0)

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger = setupLogger(cfg.LogLevel)

	reg, err := registry.New(cfg.Teams)
	if err != nil {
		logger.Error("failed to build team registry", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	if err := run(ctx, command, flag.Args()[1:], cfg, reg, logger); err != nil {
		logger.Error("command failed", "command", command, "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, args []string, cfg *config.Config, reg *registry.Registry, logger *slog.Logger) error {
	switch command {
	case "load-database":
		svc, cleanup, err := buildService(ctx, cfg, reg, logger, false)
		if err != nil {
			return err
		}
		defer cleanup()
		report, err := svc.LoadDatabase(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("loaded %d fixtures across %d competitions (%d teams failed) in %s\n",
			report.Fetched, report.Competitions, report.TeamsFailed, report.Duration)
		return nil

	case "add-to-calendar":
		if len(args) != 1 {
			return errors.New("add-to-calendar requires exactly one team id")
		}
		svc, cleanup, err := buildService(ctx, cfg, reg, logger, true)
		if err != nil {
			return err
		}
		defer cleanup()
		report, err := svc.SyncTeamFromStore(ctx, args[0])
		printSyncReport(report)
		return err

	case "add-team-to-calendar":
		if len(args) != 1 {
			return errors.New("add-team-to-calendar requires exactly one team id")
		}
		svc, cleanup, err := buildService(ctx, cfg, reg, logger, true)
		if err != nil {
			return err
		}
		defer cleanup()
		report, err := svc.SyncTeamFresh(ctx, args[0])
		printSyncReport(report)
		return err

	case "schedule":
		return runSchedule(ctx, cfg, reg, logger)

	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

// buildService wires the pipeline. The calendar client is only constructed
// for commands that reconcile events, so load-database works without
// Google credentials.
func buildService(ctx context.Context, cfg *config.Config, reg *registry.Registry, logger *slog.Logger, withCalendar bool) (*service.Service, func(), error) {
	cleanup := func() {}

	st, closeStore, err := buildStore(cfg, logger)
	if err != nil {
		return nil, cleanup, err
	}

	srcCfg := espn.Config{
		APIBaseURL:  cfg.Source.APIBaseURL,
		SiteBaseURL: cfg.Source.SiteBaseURL,
		League:      cfg.Source.League,
		Timeout:     cfg.Source.Timeout,
	}
	fetcher := fetch.New(logger,
		espn.NewAPIStrategy(srcCfg, logger),
		espn.NewPageStrategy(srcCfg, logger),
	)

	var sync service.Synchronizer
	closeNotifier := func() {}
	if withCalendar {
		svc, err := calendar.NewService(ctx, cfg.Calendar.CredentialsFile)
		if err != nil {
			closeStore()
			return nil, cleanup, err
		}

		var notifier calendar.Notifier
		if cfg.RabbitMQ.Enabled {
			mq, err := publisher.NewRabbitMQ(publisher.Config{
				URL:        cfg.RabbitMQ.URL,
				Exchange:   cfg.RabbitMQ.Exchange,
				RoutingKey: cfg.RabbitMQ.RoutingKey,
				QueueName:  cfg.RabbitMQ.QueueName,
			}, logger)
			if err != nil {
				closeStore()
				return nil, cleanup, err
			}
			notifier = mq
			closeNotifier = func() { mq.Close() }
		}

		sync = calendar.NewSynchronizer(
			calendar.NewGoogleEvents(svc),
			notifier,
			calendar.Config{
				CalendarID:    cfg.Calendar.CalendarID,
				WindowDays:    cfg.Calendar.WindowDays,
				EventDuration: cfg.Calendar.EventDuration,
			},
			logger,
		)
	}

	cleanup = func() {
		closeNotifier()
		closeStore()
	}
	return service.New(reg, fetcher, st, sync, logger), cleanup, nil
}

func buildStore(cfg *config.Config, logger *slog.Logger) (store.Store, func(), error) {
	switch cfg.Storage.Driver {
	case "postgres":
		db, err := sqlx.Connect("postgres", cfg.Storage.Database.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		logger.Info("connected to database")
		return pgstore.New(db), func() { db.Close() }, nil
	case "file":
		st, err := filestore.New(cfg.Storage.Dir, logger)
		if err != nil {
			return nil, nil, err
		}
		return st, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func runSchedule(ctx context.Context, cfg *config.Config, reg *registry.Registry, logger *slog.Logger) error {
	svc, cleanup, err := buildService(ctx, cfg, reg, logger, true)
	if err != nil {
		return err
	}
	defer cleanup()

	sched := scheduler.New(cfg.Sync.Tick, cfg.Sync.JobTimeout, logger)
	sched.Add(scheduler.Job{
		Name:  "load-database",
		Every: cfg.Sync.LoadInterval,
		Run: func(ctx context.Context) error {
			_, err := svc.LoadDatabase(ctx)
			return err
		},
	})
	for _, teamID := range cfg.Calendar.Follow {
		sched.Add(scheduler.Job{
			Name:  "calendar-" + teamID,
			Every: cfg.Sync.CalendarInterval,
			Run: func(ctx context.Context) error {
				_, err := svc.SyncTeamFromStore(ctx, teamID)
				return err
			},
		})
	}

	if err := sched.Start(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

func printSyncReport(report *domain.SyncReport) {
	if report == nil {
		return
	}
	fmt.Printf("team %s: %d created, %d updated, %d unchanged, %d failed in %s\n",
		report.Team, report.Created, report.Updated, report.Unchanged, report.Failed,
		report.Duration)
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
