package history

import (
	"context"
	"errors"

	"github.com/fastprodman/pointledger/internal/repos/activities"
	"github.com/fastprodman/pointledger/internal/repos/rewards"
	"github.com/fastprodman/pointledger/internal/repos/users"
)

// lookup memoises one reference table for the duration of a call. Misses are
// cached too.
type lookup[T any] struct {
	get  func(ctx context.Context, id int64) (T, error)
	miss error
	seen map[int64]entry[T]
}

type entry[T any] struct {
	val T
	ok  bool
}

func newLookup[T any](get func(context.Context, int64) (T, error), miss error) *lookup[T] {
	return &lookup[T]{get: get, miss: miss, seen: make(map[int64]entry[T])}
}

// find reports ok=false when id does not resolve. Any other failure is returned.
func (l *lookup[T]) find(ctx context.Context, id int64) (T, bool, error) {
	e, hit := l.seen[id]
	if hit {
		return e.val, e.ok, nil
	}

	val, err := l.get(ctx, id)
	switch {
	case errors.Is(err, l.miss):
		l.seen[id] = entry[T]{}
		return val, false, nil
	case err != nil:
		return val, false, err
	}

	l.seen[id] = entry[T]{val: val, ok: true}

	return val, true, nil
}

type resolver struct {
	users      *lookup[users.User]
	activities *lookup[activities.Activity]
	rewards    *lookup[rewards.Reward]
}

func (m *Merger) newResolver() *resolver {
	return &resolver{
		users:      newLookup(m.users.Get, users.ErrUserNotFound),
		activities: newLookup(m.activities.Get, activities.ErrActivityNotFound),
		rewards:    newLookup(m.rewards.Get, rewards.ErrRewardNotFound),
	}
}
