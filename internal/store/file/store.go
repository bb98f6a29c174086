// Package file is the default store backend: one JSON document per
// competition, written with a temp-file-then-rename so concurrent readers
// never observe a partial snapshot.
package file

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"fixturesync/internal/domain"
)

var unsafeChars = regexp.MustCompile(`[^a-z0-9]+`)

type Store struct {
	dir    string
	logger *slog.Logger
}

func New(dir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &domain.StoreError{Reason: domain.StoreIOFailure, Err: err}
	}
	return &Store{dir: dir, logger: logger.With("store", "file")}, nil
}

func (s *Store) Save(_ context.Context, competition string, matches []domain.Match) error {
	doc := domain.Competition{Name: competition, Matches: matches}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return &domain.StoreError{Reason: domain.StoreIOFailure, Err: err}
	}

	// Temp file in the target directory keeps the rename on one filesystem.
	tmp, err := os.CreateTemp(s.dir, ".competition-*.tmp")
	if err != nil {
		return &domain.StoreError{Reason: domain.StoreIOFailure, Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &domain.StoreError{Reason: domain.StoreIOFailure, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &domain.StoreError{Reason: domain.StoreIOFailure, Err: err}
	}

	target := s.path(competition)
	if err := os.Rename(tmpName, target); err != nil {
		return &domain.StoreError{Reason: domain.StoreIOFailure, Err: err}
	}

	s.logger.Debug("saved competition", "competition", competition, "matches", len(matches))
	return nil
}

func (s *Store) Load(_ context.Context, competition string) ([]domain.Match, error) {
	doc, err := s.read(s.path(competition))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return doc.Matches, nil
}

func (s *Store) LoadAll(_ context.Context) ([]domain.Competition, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, &domain.StoreError{Reason: domain.StoreIOFailure, Err: err}
	}

	var comps []domain.Competition
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		doc, err := s.read(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		comps = append(comps, doc)
	}
	return comps, nil
}

func (s *Store) read(path string) (domain.Competition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Competition{}, err
		}
		return domain.Competition{}, &domain.StoreError{Reason: domain.StoreIOFailure, Err: err}
	}

	var doc domain.Competition
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Competition{}, &domain.StoreError{
			Reason: domain.StoreCorruptDocument,
			Err:    fmt.Errorf("%s: %w", filepath.Base(path), err),
		}
	}
	return doc, nil
}

// path derives the snapshot filename. Sanitizing alone can collapse distinct
// competition names onto one file, so a short hash of the raw name keeps
// them apart.
func (s *Store) path(competition string) string {
	name := unsafeChars.ReplaceAllString(strings.ToLower(competition), "-")
	name = strings.Trim(name, "-")
	if name == "" {
		name = "competition"
	}
	sum := sha256.Sum256([]byte(competition))
	return filepath.Join(s.dir, name+"-"+hex.EncodeToString(sum[:4])+".json")
}
