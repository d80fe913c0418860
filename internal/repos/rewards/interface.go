package rewards

import (
	"context"
	"errors"
	"time"
)

var ErrRewardNotFound = errors.New("reward not found")

// Reward is reference data for spend events. PointValue is what a redemption costs.
type Reward struct {
	ID          int64
	Name        string
	Description string
	PointValue  int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Rewards interface {
	Get(ctx context.Context, rewardID int64) (Reward, error)
}
