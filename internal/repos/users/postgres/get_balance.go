package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/pointledger/internal/repos/users"
)

func (r *usersRepo) GetBalance(ctx context.Context, userID int64) (int64, error) {
	var points int64

	err := r.db.QueryRowContext(ctx, `
		SELECT points
		FROM users
		WHERE id = $1
	`, userID).Scan(&points)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, users.ErrUserNotFound
		}

		return 0, fmt.Errorf("get balance: %w", err)
	}

	return points, nil
}
