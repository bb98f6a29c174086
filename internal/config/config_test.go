package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}"))
	require.NoError(t, err)

	assert.Equal(t, "https://site.api.espn.com/apis/site/v2", cfg.Source.APIBaseURL)
	assert.Equal(t, "https://www.espn.com", cfg.Source.SiteBaseURL)
	assert.Equal(t, "bra.1", cfg.Source.League)
	assert.Equal(t, 30*time.Second, cfg.Source.Timeout)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, "db", cfg.Storage.Dir)
	assert.Equal(t, "primary", cfg.Calendar.CalendarID)
	assert.Equal(t, 60, cfg.Calendar.WindowDays)
	assert.Equal(t, 2*time.Hour, cfg.Calendar.EventDuration)
	assert.Equal(t, 24*time.Hour, cfg.Sync.LoadInterval)
	assert.Equal(t, 6*time.Hour, cfg.Sync.CalendarInterval)
	assert.Equal(t, time.Minute, cfg.Sync.Tick)
	assert.Equal(t, 5*time.Minute, cfg.Sync.JobTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.RabbitMQ.Enabled)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
source:
  league: eng.1
  timeout: 10s
storage:
  driver: postgres
  database:
    host: localhost
    port: 5432
    user: fixtures
    password: secret
    dbname: fixtures
    sslmode: disable
calendar:
  calendar_id: team@group.calendar.google.com
  window_days: 30
  follow:
    - FLAMENGO
sync:
  calendar_interval: 1h
log_level: debug
`))
	require.NoError(t, err)

	assert.Equal(t, "eng.1", cfg.Source.League)
	assert.Equal(t, 10*time.Second, cfg.Source.Timeout)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Contains(t, cfg.Storage.Database.DSN(), "dbname=fixtures")
	assert.Equal(t, "team@group.calendar.google.com", cfg.Calendar.CalendarID)
	assert.Equal(t, 30, cfg.Calendar.WindowDays)
	assert.Equal(t, []string{"FLAMENGO"}, cfg.Calendar.Follow)
	assert.Equal(t, time.Hour, cfg.Sync.CalendarInterval)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "s3cret")

	cfg, err := Load(writeConfig(t, `
storage:
  database:
    password: ${TEST_DB_PASSWORD}
`))
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Storage.Database.Password)
}

func TestLoad_TeamOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
teams:
  - id: FLAMENGO
    display_name: CR Flamengo
    espn_id: "819"
`))
	require.NoError(t, err)
	require.Len(t, cfg.Teams, 1)
	assert.Equal(t, "CR Flamengo", cfg.Teams[0].DisplayName)
	assert.Equal(t, "819", cfg.Teams[0].ESPNID)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "source: [unclosed"))
	assert.Error(t, err)
}
