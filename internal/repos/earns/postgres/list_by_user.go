package earns

import (
	"context"
	"fmt"

	"github.com/fastprodman/pointledger/internal/repos/earns"
)

// ListByUser returns the user's earn records newest first.
func (r *earnsRepo) ListByUser(ctx context.Context, userID int64, f earns.Filter) ([]earns.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+columns+`
		FROM earn_transactions
		WHERE user_id = $1
		  AND ($2::BIGINT IS NULL OR activity_id = $2)
		  AND ($3::TIMESTAMPTZ IS NULL OR created_at >= $3)
		  AND ($4::TIMESTAMPTZ IS NULL OR created_at < $4)
		ORDER BY created_at DESC, id DESC
	`, userID, f.ActivityID, f.CreatedFrom, f.CreatedBefore)
	if err != nil {
		return nil, fmt.Errorf("list earn transactions: %w", err)
	}
	//nolint:errcheck
	defer rows.Close()

	var out []earns.Record

	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan earn transaction: %w", err)
		}

		out = append(out, rec)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate earn transactions: %w", err)
	}

	return out, nil
}
