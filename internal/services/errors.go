package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both "no such row" and "row owned by someone
	// else" for owner-scoped lookups, so callers cannot learn whether a
	// draft id exists under another account.
	ErrNotFound = errors.New("not found")

	ErrAlreadyPending   = errors.New("an upgrade request is already pending")
	ErrAlreadyProcessed = errors.New("upgrade request already processed")
	ErrNoPendingRequest = errors.New("no pending upgrade request")
	ErrInvalidPlan      = errors.New("requested plan is not upgrade-eligible")
	ErrNotUpgrade       = errors.New("requested plan does not exceed current plan")
)

// QuotaError reports a failed draft create with enough context for the UI
// to render an upgrade prompt.
type QuotaError struct {
	Plan       string
	DraftLimit int
	DraftCount int64
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("draft quota reached: plan %s allows %d drafts, have %d", e.Plan, e.DraftLimit, e.DraftCount)
}
