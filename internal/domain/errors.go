package domain

import "fmt"

// FetchReason classifies fixture-fetch failures.
type FetchReason string

const (
	FetchUnavailable FetchReason = "unavailable"
	FetchMalformed   FetchReason = "malformed"
	FetchNotFound    FetchReason = "not_found"
)

// FetchError is returned when fixture acquisition fails for a team.
// Unavailable means every strategy failed; Malformed means a strategy
// produced data but nothing survived normalization.
type FetchError struct {
	Reason FetchReason
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("fetch %s", e.Reason)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NormReason classifies per-entry normalization failures.
type NormReason string

const (
	NormMissingTimestamp NormReason = "missing_timestamp"
	NormUnmappableEntry  NormReason = "unmappable_entry"
)

// NormalizationError reports why a single raw entry was dropped.
type NormalizationError struct {
	Reason NormReason
	Err    error
}

func (e *NormalizationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("normalize %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("normalize %s", e.Reason)
}

func (e *NormalizationError) Unwrap() error { return e.Err }

// SyncReason classifies calendar-sync failures that abort a batch.
type SyncReason string

const (
	SyncAuthFailure         SyncReason = "auth_failure"
	SyncProviderUnavailable SyncReason = "provider_unavailable"
)

// SyncError is returned when the calendar provider is unusable as a whole.
// Individual event failures are counted in SyncReport instead.
type SyncError struct {
	Reason SyncReason
	Err    error
}

func (e *SyncError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("calendar sync %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("calendar sync %s", e.Reason)
}

func (e *SyncError) Unwrap() error { return e.Err }

// StoreReason classifies local-store failures.
type StoreReason string

const (
	StoreIOFailure       StoreReason = "io_failure"
	StoreCorruptDocument StoreReason = "corrupt_document"
)

// StoreError is returned by store backends.
type StoreError struct {
	Reason StoreReason
	Err    error
}

func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("store %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("store %s", e.Reason)
}

func (e *StoreError) Unwrap() error { return e.Err }
