package users

import (
	"context"
	"errors"
	"time"

	"github.com/fastprodman/pointledger/internal/infra/pgutils"
)

var ErrUserNotFound = errors.New("user not found")

type User struct {
	ID        int64
	Name      string
	Email     string
	Points    int64
	IsAdmin   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Users is the balance store. Methods taking a DBTX run inside the caller's
// transactional unit.
type Users interface {
	Get(ctx context.Context, userID int64) (User, error)
	GetBalance(ctx context.Context, userID int64) (int64, error)
	ListMembers(ctx context.Context) ([]User, error)
	LockAndGetBalance(ctx context.Context, tx pgutils.DBTX, userID int64) (int64, error)
	SetBalance(ctx context.Context, tx pgutils.DBTX, userID int64, points int64) error
}
