package ledger

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/fastprodman/pointledger/internal/auth"
	"github.com/fastprodman/pointledger/internal/errs"
	"github.com/fastprodman/pointledger/internal/infra/pgutils"
	"github.com/fastprodman/pointledger/internal/repos/activities"
	"github.com/fastprodman/pointledger/internal/repos/earns"
)

// AssignPoints adds the same delta to each user in order.
//
// Input is validated once, before any user is touched. Each user is then
// updated in its own transactional unit: the balance and its earn record
// commit together or not at all. A missing user or a storage failure is
// recorded and the batch moves on. A balance leaving [0, 2147483647] halts
// the batch; users after it are reported as skipped.
func (e *Engine) AssignPoints(ctx context.Context, caller auth.Caller, req Assignment) (BulkResult, error) {
	if !caller.IsAdmin {
		return BulkResult{}, &errs.AuthorizationError{Reason: "assigning points requires admin rights"}
	}

	note := strings.TrimSpace(req.OneTimeActivity)

	switch {
	case req.ActivityID == nil && note == "":
		return BulkResult{}, &errs.ValidationError{Reason: "no activity specified"}
	case req.ActivityID != nil && note != "":
		return BulkResult{}, &errs.ValidationError{Reason: "choose a listed activity or a one-time activity, not both"}
	}

	delta, err := strconv.ParseInt(strings.TrimSpace(req.Points), 10, 64)
	if err != nil {
		return BulkResult{}, &errs.ValidationError{Reason: "invalid point value"}
	}

	if req.ActivityID != nil {
		_, err = e.activities.Get(ctx, *req.ActivityID)
		if errors.Is(err, activities.ErrActivityNotFound) {
			return BulkResult{}, &errs.NotFoundError{Entity: "activity", ID: *req.ActivityID}
		}

		if err != nil {
			return BulkResult{}, &errs.StorageError{Op: "get activity", Err: err}
		}
	}

	started := time.Now()
	res := BulkResult{
		BatchID:  e.newID(),
		State:    StateCompleted,
		Outcomes: make([]Outcome, 0, len(req.UserIDs)),
	}

	log := e.log.With("batch_id", res.BatchID.String())

	for i, userID := range req.UserIDs {
		err := e.earn(ctx, userID, delta, req.ActivityID, note)
		res.Outcomes = append(res.Outcomes, Outcome{UserID: userID, Err: err})
		e.metrics.UserOutcome(outcomeLabel(err))

		if err != nil {
			log.WarnContext(ctx, "assign points to user failed", "user_id", userID, "delta", delta, "error", err)
		}

		switch {
		case errors.Is(err, errs.ErrOutOfRange):
			res.State = StateHaltedOnRangeError
		case ctx.Err() != nil:
			res.State = StateAbandoned
		default:
			continue
		}

		res.Skipped = slices.Clone(req.UserIDs[i+1:])
		e.metrics.UsersSkipped(len(res.Skipped))

		break
	}

	e.metrics.ObserveBatch(string(res.State), time.Since(started))

	log.InfoContext(ctx, "points assigned",
		"state", res.State,
		"delta", delta,
		"users", len(req.UserIDs),
		"succeeded", res.Succeeded(),
		"skipped", len(res.Skipped),
	)

	return res, nil
}

// earn is the per-user transactional unit of AssignPoints.
func (e *Engine) earn(ctx context.Context, userID, delta int64, activityID *int64, note string) error {
	err := e.tx.WithTx(ctx, func(tx pgutils.DBTX) error {
		balance, err := e.users.LockAndGetBalance(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("lock and get balance: %w", err)
		}

		next := balance + delta
		if !errs.InRange(next) {
			return &errs.OutOfRangeError{UserID: userID, Balance: balance, Delta: delta}
		}

		err = e.users.SetBalance(ctx, tx, userID, next)
		if err != nil {
			return fmt.Errorf("set balance: %w", err)
		}

		_, err = e.earns.Append(ctx, tx, earns.Record{
			UserID:     userID,
			ActivityID: activityID,
			Note:       note,
			Points:     delta,
		})
		if err != nil {
			return fmt.Errorf("append earn: %w", err)
		}

		return nil
	})

	return classify(err, userID, "assign points")
}
