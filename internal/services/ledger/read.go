package ledger

import (
	"context"
	"errors"

	"github.com/fastprodman/pointledger/internal/auth"
	"github.com/fastprodman/pointledger/internal/errs"
	"github.com/fastprodman/pointledger/internal/repos/users"
)

// Balance returns userID's current total without locking.
func (e *Engine) Balance(ctx context.Context, caller auth.Caller, userID int64) (int64, error) {
	if !caller.CanActFor(userID) {
		return 0, &errs.AuthorizationError{Reason: "cannot read another user's balance"}
	}

	balance, err := e.users.GetBalance(ctx, userID)
	if errors.Is(err, users.ErrUserNotFound) {
		return 0, &errs.NotFoundError{Entity: "user", ID: userID}
	}

	if err != nil {
		return 0, &errs.StorageError{Op: "get balance", Err: err}
	}

	return balance, nil
}

// Members lists the non-admin users, the candidates for bulk assignment.
func (e *Engine) Members(ctx context.Context, caller auth.Caller) ([]users.User, error) {
	if !caller.IsAdmin {
		return nil, &errs.AuthorizationError{Reason: "listing members requires admin rights"}
	}

	members, err := e.users.ListMembers(ctx)
	if err != nil {
		return nil, &errs.StorageError{Op: "list members", Err: err}
	}

	return members, nil
}
