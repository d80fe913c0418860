package users

import (
	"context"
	"fmt"

	"github.com/fastprodman/pointledger/internal/repos/users"
)

// ListMembers returns non-admin users ordered by name.
func (r *usersRepo) ListMembers(ctx context.Context) ([]users.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, points, is_admin, created_at, updated_at
		FROM users
		WHERE NOT is_admin
		ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	//nolint:errcheck
	defer rows.Close()

	var out []users.User

	for rows.Next() {
		var u users.User

		err = rows.Scan(&u.ID, &u.Name, &u.Email, &u.Points, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}

		out = append(out, u)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}

	return out, nil
}
