package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/pointledger/internal/infra/pgutils"
	"github.com/fastprodman/pointledger/internal/repos/users"
)

// LockAndGetBalance reads the balance and holds the row lock until tx ends.
func (r *usersRepo) LockAndGetBalance(ctx context.Context, tx pgutils.DBTX, userID int64) (int64, error) {
	var points int64

	err := tx.QueryRowContext(ctx, `
		SELECT points
		FROM users
		WHERE id = $1
		FOR UPDATE
	`, userID).Scan(&points)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, users.ErrUserNotFound
		}

		return 0, fmt.Errorf("lock/get balance: %w", err)
	}

	return points, nil
}
