package activities

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/pointledger/internal/repos/activities"
)

var _ activities.Activities = (*activitiesRepo)(nil)

type activitiesRepo struct{ db *sql.DB }

func New(db *sql.DB) *activitiesRepo {
	return &activitiesRepo{db: db}
}

func (r *activitiesRepo) Get(ctx context.Context, activityID int64) (activities.Activity, error) {
	var (
		a             activities.Activity
		defaultPoints sql.NullInt64
	)

	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, default_points, created_at, updated_at
		FROM activities
		WHERE id = $1
	`, activityID).Scan(&a.ID, &a.Name, &a.Description, &defaultPoints, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return activities.Activity{}, activities.ErrActivityNotFound
		}

		return activities.Activity{}, fmt.Errorf("get activity: %w", err)
	}

	if defaultPoints.Valid {
		a.DefaultPoints = &defaultPoints.Int64
	}

	return a, nil
}
