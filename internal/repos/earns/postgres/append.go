package earns

import (
	"context"
	"fmt"

	"github.com/fastprodman/pointledger/internal/infra/pgutils"
	"github.com/fastprodman/pointledger/internal/repos/earns"
)

// Append inserts rec and returns it with id and timestamps filled in.
func (r *earnsRepo) Append(ctx context.Context, tx pgutils.DBTX, rec earns.Record) (earns.Record, error) {
	row := tx.QueryRowContext(ctx, `
		INSERT INTO earn_transactions (user_id, activity_id, note, points)
		VALUES ($1, $2, $3, $4)
		RETURNING `+columns,
		rec.UserID, rec.ActivityID, rec.Note, rec.Points)

	out, err := scanRecord(row)
	if err != nil {
		return earns.Record{}, fmt.Errorf("insert earn transaction: %w", err)
	}

	return out, nil
}
