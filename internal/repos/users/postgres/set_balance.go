package users

import (
	"context"
	"fmt"

	"github.com/fastprodman/pointledger/internal/infra/pgutils"
	"github.com/fastprodman/pointledger/internal/repos/users"
)

func (r *usersRepo) SetBalance(ctx context.Context, tx pgutils.DBTX, userID int64, points int64) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE users
		SET points = $2, updated_at = now()
		WHERE id = $1
	`, userID, points)
	if err != nil {
		return fmt.Errorf("set balance: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return users.ErrUserNotFound
	}

	return nil
}
