package ledger

import (
	"github.com/google/uuid"
)

// Assignment is one bulk point-assignment request. Points is the raw text
// delta; exactly one of ActivityID or OneTimeActivity names the reason.
type Assignment struct {
	UserIDs         []int64
	Points          string
	ActivityID      *int64
	OneTimeActivity string
}

// State is the terminal state of a batch.
type State string

const (
	StateCompleted          State = "completed"
	StateHaltedOnRangeError State = "halted_on_range_error"
	// StateAbandoned means the request context ended mid-batch.
	StateAbandoned State = "abandoned"
)

// Outcome is the result for one user. Err is nil on success.
type Outcome struct {
	UserID int64
	Err    error
}

type Summary string

const (
	SummarySuccess Summary = "success"
	SummaryPartial Summary = "partial"
	SummaryFailure Summary = "failure"
)

// BulkResult reports a batch. Outcomes follow input order; Skipped holds the
// ids never attempted after a halt.
type BulkResult struct {
	BatchID  uuid.UUID
	State    State
	Outcomes []Outcome
	Skipped  []int64
}

// AllSucceeded is true only if every user was updated and nothing halted.
func (r BulkResult) AllSucceeded() bool {
	if r.State != StateCompleted || len(r.Skipped) > 0 {
		return false
	}

	for _, o := range r.Outcomes {
		if o.Err != nil {
			return false
		}
	}

	return true
}

// PerUser maps user id to outcome. Skipped users are absent. An id listed
// more than once is applied once per listing; the map keeps the last
// outcome, Outcomes keeps them all.
func (r BulkResult) PerUser() map[int64]error {
	m := make(map[int64]error, len(r.Outcomes))
	for _, o := range r.Outcomes {
		m[o.UserID] = o.Err
	}

	return m
}

func (r BulkResult) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err == nil {
			n++
		}
	}

	return n
}

// Summary collapses the batch to one outcome. A range halt is a failure even
// when earlier users committed.
func (r BulkResult) Summary() Summary {
	switch {
	case r.AllSucceeded():
		return SummarySuccess
	case r.State == StateHaltedOnRangeError, r.Succeeded() == 0:
		return SummaryFailure
	default:
		return SummaryPartial
	}
}

// SpendReceipt describes a committed redemption. Balance is the total after it.
type SpendReceipt struct {
	TransactionID int64
	UserID        int64
	RewardID      int64
	Points        int64
	Balance       int64
}
