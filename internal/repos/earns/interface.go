package earns

import (
	"context"
	"iter"
	"time"

	"github.com/fastprodman/pointledger/internal/infra/pgutils"
)

// Record is one immutable earn-log entry. ActivityID is nil for ad-hoc
// activities, which are described by Note instead.
type Record struct {
	ID         int64
	UserID     int64
	ActivityID *int64
	Note       string
	Points     int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Filter narrows a member's earn history. CreatedFrom is inclusive,
// CreatedBefore exclusive; nil fields do not filter.
type Filter struct {
	ActivityID    *int64
	CreatedFrom   *time.Time
	CreatedBefore *time.Time
}

// Log is the append-only earn log.
type Log interface {
	Append(ctx context.Context, tx pgutils.DBTX, rec Record) (Record, error)
	Scan(ctx context.Context) iter.Seq2[Record, error]
	ListByUser(ctx context.Context, userID int64, f Filter) ([]Record, error)
}
