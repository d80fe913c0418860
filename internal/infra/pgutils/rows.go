package pgutils

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
)

// Rows returns a one-shot lazy producer over the rows of query. The query runs
// when iteration starts and the rows are closed when it ends, including when
// the consumer stops early. A query or scan failure is yielded once as the
// final element.
func Rows[T any](ctx context.Context, q DBTX, scan func(*sql.Rows) (T, error), query string, args ...any) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T

		rows, err := q.QueryContext(ctx, query, args...)
		if err != nil {
			yield(zero, fmt.Errorf("query: %w", err))
			return
		}
		//nolint:errcheck
		defer rows.Close()

		for rows.Next() {
			v, err := scan(rows)
			if err != nil {
				yield(zero, fmt.Errorf("scan: %w", err))
				return
			}

			if !yield(v, nil) {
				return
			}
		}

		err = rows.Err()
		if err != nil {
			yield(zero, fmt.Errorf("iterate: %w", err))
		}
	}
}
