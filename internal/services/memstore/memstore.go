// Package memstore is an in-memory implementation of the repository
// interfaces and of pgutils.Transactor, used to test services without Postgres.
//
// WithTx serializes units and snapshots balances and log lengths; when the
// unit fails the snapshot is restored, so a failed unit leaves no trace.
package memstore

import (
	"context"
	"errors"
	"iter"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/fastprodman/pointledger/internal/infra/pgutils"
	"github.com/fastprodman/pointledger/internal/repos/activities"
	"github.com/fastprodman/pointledger/internal/repos/earns"
	"github.com/fastprodman/pointledger/internal/repos/rewards"
	"github.com/fastprodman/pointledger/internal/repos/spends"
	"github.com/fastprodman/pointledger/internal/repos/users"
)

type op int

const (
	opSetBalance op = iota
	opAppendEarn
	opAppendSpend
)

type failKey struct {
	op     op
	userID int64
}

type Store struct {
	txMu sync.Mutex

	mu         sync.Mutex
	users      map[int64]users.User
	activities map[int64]activities.Activity
	rewards    map[int64]rewards.Reward
	earns      []earns.Record
	spends     []spends.Record
	nextID     int64
	failures   map[failKey]error
	commits    int
	rollbacks  int

	// Now stamps appended records.
	Now func() time.Time
}

func New() *Store {
	return &Store{
		users:      make(map[int64]users.User),
		activities: make(map[int64]activities.Activity),
		rewards:    make(map[int64]rewards.Reward),
		failures:   make(map[failKey]error),
		Now:        time.Now,
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// --- seeding and inspection ---

func (s *Store) AddUser(name string, points int64, isAdmin bool) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.id()
	now := s.Now()
	s.users[id] = users.User{ID: id, Name: name, Points: points, IsAdmin: isAdmin, CreatedAt: now, UpdatedAt: now}

	return id
}

// RemoveUser deletes the user and leaves its log records in place.
func (s *Store) RemoveUser(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.users, id)
}

func (s *Store) AddActivity(name string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.id()
	s.activities[id] = activities.Activity{ID: id, Name: name}

	return id
}

func (s *Store) RemoveActivity(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.activities, id)
}

func (s *Store) AddReward(name string, pointValue int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.id()
	s.rewards[id] = rewards.Reward{ID: id, Name: name, PointValue: pointValue}

	return id
}

// AddEarn appends rec as given, keeping its timestamps when set.
func (s *Store) AddEarn(rec earns.Record) earns.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.appendEarn(rec)
}

// AddSpend appends rec as given, keeping its timestamps when set.
func (s *Store) AddSpend(rec spends.Record) spends.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.appendSpend(rec)
}

// FailSetBalance makes SetBalance for userID return err.
func (s *Store) FailSetBalance(userID int64, err error) { s.fail(opSetBalance, userID, err) }

// FailAppendEarn makes earn appends for userID return err.
func (s *Store) FailAppendEarn(userID int64, err error) { s.fail(opAppendEarn, userID, err) }

// FailAppendSpend makes spend appends for userID return err.
func (s *Store) FailAppendSpend(userID int64, err error) { s.fail(opAppendSpend, userID, err) }

func (s *Store) fail(o op, userID int64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failures[failKey{op: o, userID: userID}] = err
}

func (s *Store) Points(userID int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.users[userID].Points
}

func (s *Store) EarnRecords() []earns.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.earns)
}

func (s *Store) SpendRecords() []spends.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.spends)
}

// Units reports how many transactional units committed and rolled back.
func (s *Store) Units() (commits, rollbacks int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commits, s.rollbacks
}

// --- transactional unit ---

type snapshot struct {
	users  map[int64]users.User
	earns  int
	spends int
	nextID int64
}

func (s *Store) Transactor() pgutils.Transactor { return transactor{s} }

type transactor struct{ s *Store }

func (t transactor) WithTx(ctx context.Context, fn func(pgutils.DBTX) error) (err error) {
	s := t.s

	s.txMu.Lock()
	defer s.txMu.Unlock()

	err = ctx.Err()
	if err != nil {
		return err
	}

	s.mu.Lock()
	snap := snapshot{users: maps.Clone(s.users), earns: len(s.earns), spends: len(s.spends), nextID: s.nextID}
	s.mu.Unlock()

	defer func() {
		p := recover()
		if p != nil {
			s.restore(snap)
			panic(p)
		}
	}()

	err = fn(nil)
	if err != nil {
		s.restore(snap)
		return err
	}

	s.mu.Lock()
	s.commits++
	s.mu.Unlock()

	return nil
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = snap.users
	s.earns = s.earns[:snap.earns]
	s.spends = s.spends[:snap.spends]
	s.nextID = snap.nextID
	s.rollbacks++
}

func (s *Store) appendEarn(rec earns.Record) earns.Record {
	rec.ID = s.id()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.Now()
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = rec.CreatedAt
	}

	s.earns = append(s.earns, rec)

	return rec
}

func (s *Store) appendSpend(rec spends.Record) spends.Record {
	rec.ID = s.id()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.Now()
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = rec.CreatedAt
	}

	s.spends = append(s.spends, rec)

	return rec
}

// --- repositories ---

func (s *Store) Users() users.Users                { return usersRepo{s} }
func (s *Store) Activities() activities.Activities { return activitiesRepo{s} }
func (s *Store) Rewards() rewards.Rewards          { return rewardsRepo{s} }
func (s *Store) Earns() earns.Log                  { return earnsRepo{s} }
func (s *Store) Spends() spends.Log                { return spendsRepo{s} }

type usersRepo struct{ s *Store }

func (r usersRepo) Get(_ context.Context, userID int64) (users.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return users.User{}, users.ErrUserNotFound
	}

	return u, nil
}

func (r usersRepo) GetBalance(ctx context.Context, userID int64) (int64, error) {
	u, err := r.Get(ctx, userID)
	return u.Points, err
}

func (r usersRepo) LockAndGetBalance(ctx context.Context, _ pgutils.DBTX, userID int64) (int64, error) {
	return r.GetBalance(ctx, userID)
}

func (r usersRepo) SetBalance(_ context.Context, _ pgutils.DBTX, userID int64, points int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	err := r.s.failures[failKey{op: opSetBalance, userID: userID}]
	if err != nil {
		return err
	}

	u, ok := r.s.users[userID]
	if !ok {
		return users.ErrUserNotFound
	}

	if points < 0 {
		return errors.New("points check violation")
	}

	u.Points = points
	u.UpdatedAt = r.s.Now()
	r.s.users[userID] = u

	return nil
}

func (r usersRepo) ListMembers(_ context.Context) ([]users.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []users.User

	for _, u := range r.s.users {
		if !u.IsAdmin {
			out = append(out, u)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

type activitiesRepo struct{ s *Store }

func (r activitiesRepo) Get(_ context.Context, activityID int64) (activities.Activity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.activities[activityID]
	if !ok {
		return activities.Activity{}, activities.ErrActivityNotFound
	}

	return a, nil
}

type rewardsRepo struct{ s *Store }

func (r rewardsRepo) Get(_ context.Context, rewardID int64) (rewards.Reward, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rw, ok := r.s.rewards[rewardID]
	if !ok {
		return rewards.Reward{}, rewards.ErrRewardNotFound
	}

	return rw, nil
}

type earnsRepo struct{ s *Store }

func (r earnsRepo) Append(_ context.Context, _ pgutils.DBTX, rec earns.Record) (earns.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	err := r.s.failures[failKey{op: opAppendEarn, userID: rec.UserID}]
	if err != nil {
		return earns.Record{}, err
	}

	if _, ok := r.s.users[rec.UserID]; !ok {
		return earns.Record{}, errors.New("earn user foreign key violation")
	}

	rec.CreatedAt, rec.UpdatedAt = time.Time{}, time.Time{}

	return r.s.appendEarn(rec), nil
}

func (r earnsRepo) Scan(ctx context.Context) iter.Seq2[earns.Record, error] {
	return func(yield func(earns.Record, error) bool) {
		for _, rec := range r.s.EarnRecords() {
			err := ctx.Err()
			if err != nil {
				yield(earns.Record{}, err)
				return
			}

			if !yield(rec, nil) {
				return
			}
		}
	}
}

func (r earnsRepo) ListByUser(_ context.Context, userID int64, f earns.Filter) ([]earns.Record, error) {
	var out []earns.Record

	for _, rec := range r.s.EarnRecords() {
		switch {
		case rec.UserID != userID:
		case f.ActivityID != nil && (rec.ActivityID == nil || *rec.ActivityID != *f.ActivityID):
		case f.CreatedFrom != nil && rec.CreatedAt.Before(*f.CreatedFrom):
		case f.CreatedBefore != nil && !rec.CreatedAt.Before(*f.CreatedBefore):
		default:
			out = append(out, rec)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})

	return out, nil
}

type spendsRepo struct{ s *Store }

func (r spendsRepo) Append(_ context.Context, _ pgutils.DBTX, rec spends.Record) (spends.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	err := r.s.failures[failKey{op: opAppendSpend, userID: rec.UserID}]
	if err != nil {
		return spends.Record{}, err
	}

	rec.CreatedAt, rec.UpdatedAt = time.Time{}, time.Time{}

	return r.s.appendSpend(rec), nil
}

func (r spendsRepo) Scan(ctx context.Context) iter.Seq2[spends.Record, error] {
	return func(yield func(spends.Record, error) bool) {
		for _, rec := range r.s.SpendRecords() {
			err := ctx.Err()
			if err != nil {
				yield(spends.Record{}, err)
				return
			}

			if !yield(rec, nil) {
				return
			}
		}
	}
}
