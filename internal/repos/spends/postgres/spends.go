package spends

import (
	"context"
	"database/sql"
	"fmt"
	"iter"

	"github.com/fastprodman/pointledger/internal/infra/pgutils"
	"github.com/fastprodman/pointledger/internal/repos/spends"
)

var _ spends.Log = (*spendsRepo)(nil)

const columns = `id, user_id, reward_id, created_at, updated_at`

type spendsRepo struct{ db *sql.DB }

func New(db *sql.DB) *spendsRepo {
	return &spendsRepo{db: db}
}

func (r *spendsRepo) Append(ctx context.Context, tx pgutils.DBTX, rec spends.Record) (spends.Record, error) {
	var out spends.Record

	err := tx.QueryRowContext(ctx, `
		INSERT INTO spend_transactions (user_id, reward_id)
		VALUES ($1, $2)
		RETURNING `+columns,
		rec.UserID, rec.RewardID,
	).Scan(&out.ID, &out.UserID, &out.RewardID, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return spends.Record{}, fmt.Errorf("insert spend transaction: %w", err)
	}

	return out, nil
}

// Scan lazily walks the whole spend log in insertion order.
func (r *spendsRepo) Scan(ctx context.Context) iter.Seq2[spends.Record, error] {
	return pgutils.Rows(ctx, r.db, func(rows *sql.Rows) (spends.Record, error) {
		var rec spends.Record

		err := rows.Scan(&rec.ID, &rec.UserID, &rec.RewardID, &rec.CreatedAt, &rec.UpdatedAt)

		return rec, err
	}, `
		SELECT `+columns+`
		FROM spend_transactions
		ORDER BY id
	`)
}
