package rewards

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/pointledger/internal/repos/rewards"
)

var _ rewards.Rewards = (*rewardsRepo)(nil)

type rewardsRepo struct{ db *sql.DB }

func New(db *sql.DB) *rewardsRepo {
	return &rewardsRepo{db: db}
}

func (r *rewardsRepo) Get(ctx context.Context, rewardID int64) (rewards.Reward, error) {
	var rw rewards.Reward

	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, point_value, created_at, updated_at
		FROM rewards
		WHERE id = $1
	`, rewardID).Scan(&rw.ID, &rw.Name, &rw.Description, &rw.PointValue, &rw.CreatedAt, &rw.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rewards.Reward{}, rewards.ErrRewardNotFound
		}

		return rewards.Reward{}, fmt.Errorf("get reward: %w", err)
	}

	return rw, nil
}
