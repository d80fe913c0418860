package earns

import (
	"database/sql"

	"github.com/fastprodman/pointledger/internal/repos/earns"
)

var _ earns.Log = (*earnsRepo)(nil)

const columns = `id, user_id, activity_id, note, points, created_at, updated_at`

type earnsRepo struct{ db *sql.DB }

func New(db *sql.DB) *earnsRepo {
	return &earnsRepo{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (earns.Record, error) {
	var (
		rec        earns.Record
		activityID sql.NullInt64
	)

	err := s.Scan(&rec.ID, &rec.UserID, &activityID, &rec.Note, &rec.Points, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return earns.Record{}, err
	}

	if activityID.Valid {
		rec.ActivityID = &activityID.Int64
	}

	return rec, nil
}
