// Package ledger mutates point balances. Every change to a balance is
// committed together with the log record that explains it, one user at a time.
package ledger

import (
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fastprodman/pointledger/internal/errs"
	"github.com/fastprodman/pointledger/internal/infra/metrics"
	"github.com/fastprodman/pointledger/internal/infra/pgutils"
	"github.com/fastprodman/pointledger/internal/repos/activities"
	pgactivities "github.com/fastprodman/pointledger/internal/repos/activities/postgres"
	"github.com/fastprodman/pointledger/internal/repos/earns"
	pgearns "github.com/fastprodman/pointledger/internal/repos/earns/postgres"
	"github.com/fastprodman/pointledger/internal/repos/rewards"
	pgrewards "github.com/fastprodman/pointledger/internal/repos/rewards/postgres"
	"github.com/fastprodman/pointledger/internal/repos/spends"
	pgspends "github.com/fastprodman/pointledger/internal/repos/spends/postgres"
	"github.com/fastprodman/pointledger/internal/repos/users"
	pgusers "github.com/fastprodman/pointledger/internal/repos/users/postgres"
)

// Deps are the collaborators of an Engine. Metrics and Logger may be nil.
type Deps struct {
	Tx         pgutils.Transactor
	Users      users.Users
	Activities activities.Activities
	Rewards    rewards.Rewards
	Earns      earns.Log
	Spends     spends.Log
	Metrics    *metrics.Ledger
	Logger     *slog.Logger
}

type Engine struct {
	tx         pgutils.Transactor
	users      users.Users
	activities activities.Activities
	rewards    rewards.Rewards
	earns      earns.Log
	spends     spends.Log
	metrics    *metrics.Ledger
	log        *slog.Logger
	newID      func() uuid.UUID
}

// New wires an Engine to Postgres.
func New(db *sql.DB, m *metrics.Ledger, logger *slog.Logger) *Engine {
	return NewWithDeps(Deps{
		Tx:         pgutils.NewTxRunner(db),
		Users:      pgusers.New(db),
		Activities: pgactivities.New(db),
		Rewards:    pgrewards.New(db),
		Earns:      pgearns.New(db),
		Spends:     pgspends.New(db),
		Metrics:    m,
		Logger:     logger,
	})
}

func NewWithDeps(d Deps) *Engine {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		tx:         d.Tx,
		users:      d.Users,
		activities: d.Activities,
		rewards:    d.Rewards,
		earns:      d.Earns,
		spends:     d.Spends,
		metrics:    d.Metrics,
		log:        logger.With("component", "ledger"),
		newID:      uuid.New,
	}
}

// outcomeLabel is the metrics label for a per-user result.
func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, errs.ErrNotFound):
		return "not_found"
	case errors.Is(err, errs.ErrOutOfRange):
		return "out_of_range"
	default:
		return "storage"
	}
}

// classify maps an error from a per-user unit onto the error kinds.
func classify(err error, userID int64, op string) error {
	if err == nil {
		return nil
	}

	var rangeErr *errs.OutOfRangeError
	if errors.As(err, &rangeErr) {
		return rangeErr
	}

	if errors.Is(err, users.ErrUserNotFound) {
		return &errs.NotFoundError{Entity: "user", ID: userID}
	}

	return &errs.StorageError{Op: op, Err: err}
}
