package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"fixturesync/internal/domain"
	"fixturesync/internal/registry"
)

type Fetcher interface {
	Fetch(ctx context.Context, team registry.Team) ([]domain.Match, error)
}

type Store interface {
	Save(ctx context.Context, competition string, matches []domain.Match) error
	Load(ctx context.Context, competition string) ([]domain.Match, error)
	LoadAll(ctx context.Context) ([]domain.Competition, error)
}

type Synchronizer interface {
	Sync(ctx context.Context, team string, matches []domain.Match) (*domain.SyncReport, error)
}
