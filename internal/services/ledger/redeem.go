package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/fastprodman/pointledger/internal/auth"
	"github.com/fastprodman/pointledger/internal/errs"
	"github.com/fastprodman/pointledger/internal/infra/pgutils"
	"github.com/fastprodman/pointledger/internal/repos/rewards"
	"github.com/fastprodman/pointledger/internal/repos/spends"
)

// Redeem spends the reward's point value from userID's balance and records
// the spend, as one transactional unit. Insufficient points is an
// OutOfRangeError.
func (e *Engine) Redeem(ctx context.Context, caller auth.Caller, userID, rewardID int64) (SpendReceipt, error) {
	if !caller.CanActFor(userID) {
		return SpendReceipt{}, &errs.AuthorizationError{Reason: "cannot redeem for another user"}
	}

	reward, err := e.rewards.Get(ctx, rewardID)
	if errors.Is(err, rewards.ErrRewardNotFound) {
		e.metrics.Redemption("not_found")
		return SpendReceipt{}, &errs.NotFoundError{Entity: "reward", ID: rewardID}
	}

	if err != nil {
		e.metrics.Redemption("storage")
		return SpendReceipt{}, &errs.StorageError{Op: "get reward", Err: err}
	}

	receipt := SpendReceipt{UserID: userID, RewardID: rewardID, Points: reward.PointValue}

	err = e.tx.WithTx(ctx, func(tx pgutils.DBTX) error {
		balance, err := e.users.LockAndGetBalance(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("lock and get balance: %w", err)
		}

		next := balance - reward.PointValue
		if !errs.InRange(next) {
			return &errs.OutOfRangeError{UserID: userID, Balance: balance, Delta: -reward.PointValue}
		}

		err = e.users.SetBalance(ctx, tx, userID, next)
		if err != nil {
			return fmt.Errorf("set balance: %w", err)
		}

		rec, err := e.spends.Append(ctx, tx, spends.Record{UserID: userID, RewardID: rewardID})
		if err != nil {
			return fmt.Errorf("append spend: %w", err)
		}

		receipt.TransactionID = rec.ID
		receipt.Balance = next

		return nil
	})

	err = classify(err, userID, "redeem reward")
	e.metrics.Redemption(outcomeLabel(err))

	if err != nil {
		return SpendReceipt{}, err
	}

	e.log.InfoContext(ctx, "reward redeemed",
		"user_id", userID,
		"reward_id", rewardID,
		"points", reward.PointValue,
		"balance", receipt.Balance,
	)

	return receipt, nil
}
