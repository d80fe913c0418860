package spends

import (
	"context"
	"iter"
	"time"

	"github.com/fastprodman/pointledger/internal/infra/pgutils"
)

// Record is one immutable spend-log entry. The points spent are read from the
// referenced reward, not stored here.
type Record struct {
	ID        int64
	UserID    int64
	RewardID  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Log is the append-only spend log.
type Log interface {
	Append(ctx context.Context, tx pgutils.DBTX, rec Record) (Record, error)
	Scan(ctx context.Context) iter.Seq2[Record, error]
}
