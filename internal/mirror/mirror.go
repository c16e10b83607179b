// Package mirror provides best-effort mirroring of collected funnel data
// into an external spreadsheet for human review.
//
// Mirror calls must never block or fail the core flow: callers log returned
// errors and continue.
package mirror

import (
	"context"
	"time"
)

// Mirror receives copies of profile, score and interest data.
type Mirror interface {
	// EnsureHeaders creates the header row if it is missing. Idempotent,
	// meant to run once at startup.
	EnsureHeaders(ctx context.Context) error

	// AppendProfile adds a row for a newly shared contact.
	AppendProfile(ctx context.Context, userID int64, firstName, username, phone string, at time.Time) error

	// RecordScore writes the quiz score next to the user's existing row.
	// Returns an error when the user has no row.
	RecordScore(ctx context.Context, userID int64, score int, at time.Time) error

	// MarkInterest flags the user's row as interested in the academy.
	MarkInterest(ctx context.Context, userID int64) error
}

// Noop is the Mirror used when no spreadsheet is configured.
type Noop struct{}

func (Noop) EnsureHeaders(context.Context) error { return nil }

func (Noop) AppendProfile(context.Context, int64, string, string, string, time.Time) error {
	return nil
}

func (Noop) RecordScore(context.Context, int64, int, time.Time) error { return nil }

func (Noop) MarkInterest(context.Context, int64) error { return nil }
