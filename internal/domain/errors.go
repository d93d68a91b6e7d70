package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// Configuration errors — fail fast, never retried.
	ErrUnknownTier = errors.New("no codex requirement known for target tier")
	ErrBadBatch    = errors.New("batch count must be positive")

	// Data-fetch errors — raised by the loading layer, propagated as-is.
	ErrClaimNotFound  = errors.New("claim not found")
	ErrCodexNotFound  = errors.New("codex document not found for tier")
	ErrUpstreamDenied = errors.New("upstream path not on proxy whitelist")
)
