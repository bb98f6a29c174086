package domain

import "time"

// SyncReport holds per-batch statistics from a calendar reconciliation.
type SyncReport struct {
	Team      string
	Created   int
	Updated   int
	Unchanged int
	Failed    int
	Duration  time.Duration
}

// LoadReport holds statistics from a database-load run.
type LoadReport struct {
	Fetched      int
	Competitions int
	TeamsFailed  int
	Duration     time.Duration
}
