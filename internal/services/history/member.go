package history

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/fastprodman/pointledger/internal/auth"
	"github.com/fastprodman/pointledger/internal/errs"
	"github.com/fastprodman/pointledger/internal/repos/earns"
	"github.com/fastprodman/pointledger/internal/repos/users"
)

// Filter narrows MemberActivity. Start and End are calendar days; End
// includes the whole day.
type Filter struct {
	ActivityID *int64
	Start      *time.Time
	End        *time.Time
}

func (f Filter) earnFilter() earns.Filter {
	out := earns.Filter{ActivityID: f.ActivityID}

	if f.Start != nil {
		from := day(*f.Start)
		out.CreatedFrom = &from
	}

	if f.End != nil {
		before := day(*f.End).AddDate(0, 0, 1)
		out.CreatedBefore = &before
	}

	return out
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// MemberActivity lists userID's earn entries newest first. Unlike
// MergedHistory, a deleted activity does not hide anything; its entries carry
// an empty subject.
func (m *Merger) MemberActivity(ctx context.Context, caller auth.Caller, userID int64, f Filter) ([]HistoryRow, error) {
	if !caller.CanActFor(userID) {
		return nil, &errs.AuthorizationError{Reason: "cannot view another user's activity"}
	}

	if f.Start != nil && f.End != nil && day(*f.End).Before(day(*f.Start)) {
		return nil, &errs.ValidationError{Reason: "end date before start date"}
	}

	user, err := m.users.Get(ctx, userID)
	if errors.Is(err, users.ErrUserNotFound) {
		return nil, &errs.NotFoundError{Entity: "user", ID: userID}
	}

	if err != nil {
		return nil, &errs.StorageError{Op: "load member", Err: err}
	}

	recs, err := m.earns.ListByUser(ctx, userID, f.earnFilter())
	if err != nil {
		return nil, &errs.StorageError{Op: "list earns", Err: err}
	}

	res := m.newResolver()
	rows := make([]HistoryRow, 0, len(recs))

	for _, rec := range recs {
		subject := rec.Note
		if rec.ActivityID != nil {
			activity, _, err := res.activities.find(ctx, *rec.ActivityID)
			if err != nil {
				return nil, &errs.StorageError{Op: "resolve activity", Err: err}
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
