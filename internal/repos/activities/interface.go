package activities

import (
	"context"
	"errors"
	"time"
)

var ErrActivityNotFound = errors.New("activity not found")

// Activity is reference data for earn events.
type Activity struct {
	ID            int64
	Name          string
	Description   string
	DefaultPoints *int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Activities interface {
	Get(ctx context.Context, activityID int64) (Activity, error)
}
