package earns

import (
	"context"
	"database/sql"
	"iter"

	"github.com/fastprodman/pointledger/internal/infra/pgutils"
	"github.com/fastprodman/pointledger/internal/repos/earns"
)

// Scan lazily walks the whole earn log in insertion order.
func (r *earnsRepo) Scan(ctx context.Context) iter.Seq2[earns.Record, error] {
	return pgutils.Rows(ctx, r.db, func(rows *sql.Rows) (earns.Record, error) {
		return scanRecord(rows)
	}, `
		SELECT `+columns+`
		FROM earn_transactions
		ORDER BY id
	`)
}
