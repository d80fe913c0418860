package history

import (
	"context"
	"iter"
	"slices"
	"strconv"

	"github.com/fastprodman/pointledger/internal/auth"
	"github.com/fastprodman/pointledger/internal/errs"
)

// spendSign is U+2212, the typographic minus.
const spendSign = "−"

// MergedHistory returns every earn and spend entry, newest first.
//
// The earn log is scanned first, then the spend log, each in id order. A
// record whose user, activity or reward no longer exists ends the scan of
// its log: later records of that log are not returned. Entries with equal
// timestamps keep earn-before-spend order. Only admins may read it.
//
// Each log is read to the end before its references are looked up, so a
// call never holds a cursor while it waits for a second connection.
//
// TODO: skip the dangling record instead of stopping once product signs off
// on the changed output.
func (m *Merger) MergedHistory(ctx context.Context, caller auth.Caller) ([]HistoryRow, error) {
	if !caller.IsAdmin {
		return nil, &errs.AuthorizationError{Reason: "history requires admin rights"}
	}

	res := m.newResolver()

	earned, err := m.earnPass(ctx, res)
	if err != nil {
		return nil, err
	}

	spent, err := m.spendPass(ctx, res)
	if err != nil {
		return nil, err
	}

	m.metrics.HistoryRows(string(Earned), len(earned))
	m.metrics.HistoryRows(string(Spent), len(spent))

	rows := append(earned, spent...)
	slices.SortStableFunc(rows, func(a, b HistoryRow) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return rows, nil
}

func (m *Merger) earnPass(ctx context.Context, res *resolver) ([]HistoryRow, error) {
	var rows []HistoryRow

	recs, err := drain(m.earns.Scan(ctx))
	if err != nil {
		return nil, &errs.StorageError{Op: "scan earn log", Err: err}
	}

	for _, rec := range recs {
		user, ok, err := res.users.find(ctx, rec.UserID)
		if err != nil {
			return nil, &errs.StorageError{Op: "resolve user", Err: err}
		}

		if !ok {
			m.truncated(ctx, "earn", rec.ID, "user", rec.UserID)
			break
		}

		subject := rec.Note
		if rec.ActivityID != nil {
			activity, ok, err := res.activities.find(ctx, *rec.ActivityID)
			if err != nil {
				return nil, &errs.StorageError{Op: "resolve activity", Err: err}
			}

			if !ok {
				m.truncated(ctx, "earn", rec.ID, "activity", *rec.ActivityID)
				break
			}

			subject = activity.Name
		}

		rows = append(rows, HistoryRow{
			Kind:                Earned,
			UserName:            user.Name,
			SubjectName:         subject,
			SignedPointsDisplay: "+" + strconv.FormatInt(rec.Points, 10),
			CreatedAt:           rec.CreatedAt,
			UpdatedAt:           rec.UpdatedAt,
		})
	}

	return rows, nil
}

func (m *Merger) spendPass(ctx context.Context, res *resolver) ([]HistoryRow, error) {
	var rows []HistoryRow

	recs, err := drain(m.spends.Scan(ctx))
	if err != nil {
		return nil, &errs.StorageError{Op: "scan spend log", Err: err}
	}

	for _, rec := range recs {
		user, ok, err := res.users.find(ctx, rec.UserID)
		if err != nil {
			return nil, &errs.StorageError{Op: "resolve user", Err: err}
		}

		if !ok {
			m.truncated(ctx, "spend", rec.ID, "user", rec.UserID)
			break
		}

		reward, ok, err := res.rewards.find(ctx, rec.RewardID)
		if err != nil {
			return nil, &errs.StorageError{Op: "resolve reward", Err: err}
		}

		if !ok {
			m.truncated(ctx, "spend", rec.ID, "reward", rec.RewardID)
			break
		}

		rows = append(rows, HistoryRow{
			Kind:                Spent,
			UserName:            user.Name,
			SubjectName:         reward.Name,
			SignedPointsDisplay: spendSign + strconv.FormatInt(reward.PointValue, 10),
			CreatedAt:           rec.CreatedAt,
			UpdatedAt:           rec.UpdatedAt,
		})
	}

	return rows, nil
}

// drain reads seq to the end, releasing whatever it holds open.
func drain[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var out []T

	for v, err := range seq {
		if err != nil {
			return nil, err
		}

		out = append(out, v)
	}

	return out, nil
}

func (m *Merger) truncated(ctx context.Context, log string, recordID int64, ref string, refID int64) {
	m.metrics.HistoryTruncated(log)
	m.log.WarnContext(ctx, "history pass stopped at dangling reference",
		"log", log,
		"record_id", recordID,
		"reference", ref,
		"reference_id", refID,
	)
}
