package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfig indicates the connector configuration is incomplete.
	// It aborts the run before any table is processed.
	ErrConfig = errors.New("invalid configuration")

	// ErrUnknownTable indicates a table name that is not in the registry.
	ErrUnknownTable = errors.New("unknown table")

	// ErrSyncInProgress indicates a sync is already running.
	ErrSyncInProgress = errors.New("sync in progress")

	// Record Errors.

	// ErrRecordDropped indicates a single record failed normalisation or
	// primary-key validation. Only that record is skipped.
	ErrRecordDropped = errors.New("record dropped")

	// Upstream Errors.

	// ErrAuthInvalid indicates the API token was rejected.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrUpstreamUnavailable indicates the upstream kept failing with
	// transient errors until the retry budget was spent.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrMalformedResponse indicates a successful status with a body that
	// could not be decoded.
	ErrMalformedResponse = errors.New("malformed response")
)
