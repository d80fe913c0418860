// Package history renders the earn and spend logs as one typed feed.
package history

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/fastprodman/pointledger/internal/infra/metrics"
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

type Kind string

const (
	Earned Kind = "Earned"
	Spent  Kind = "Spent"
)

// HistoryRow is one rendered log entry.
type HistoryRow struct {
	Kind                Kind
	UserName            string
	SubjectName         string
	SignedPointsDisplay string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Deps are the collaborators of a Merger. Metrics and Logger may be nil.
type Deps struct {
	Users      users.Users
	Activities activities.Activities
	Rewards    rewards.Rewards
	Earns      earns.Log
	Spends     spends.Log
	Metrics    *metrics.Ledger
	Logger     *slog.Logger
}

type Merger struct {
	users      users.Users
	activities activities.Activities
	rewards    rewards.Rewards
	earns      earns.Log
	spends     spends.Log
	metrics    *metrics.Ledger
	log        *slog.Logger
}

func New(db *sql.DB, m *metrics.Ledger, logger *slog.Logger) *Merger {
	return NewWithDeps(Deps{
		Users:      pgusers.New(db),
		Activities: pgactivities.New(db),
		Rewards:    pgrewards.New(db),
		Earns:      pgearns.New(db),
		Spends:     pgspends.New(db),
		Metrics:    m,
		Logger:     logger,
	})
}

func NewWithDeps(d Deps) *Merger {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Merger{
		users:      d.Users,
		activities: d.Activities,
		rewards:    d.Rewards,
		earns:      d.Earns,
		spends:     d.Spends,
		metrics:    d.Metrics,
		log:        logger.With("component", "history"),
	}
}
