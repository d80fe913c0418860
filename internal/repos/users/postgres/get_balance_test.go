package users

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/fastprodman/pointledger/internal/infra/pgtestutil"
	"github.com/fastprodman/pointledger/internal/repos/users"
)

func TestUsers_GetBalance_TableDriven(t *testing.T) {
	t.Parallel()

	type tc struct {
		name        string
		seed        func(db *sql.DB, t *testing.T) int64
		wantBalance int64
		wantErr     error
	}

	tests := []tc{
		{
			name: "ok_user_exists",
			seed: func(db *sql.DB, t *testing.T) int64 {
				return pgtestutil.InsertUser(t, db, "Alice", 1000, false)
			},
			wantBalance: 1000,
		},
		{
			name: "ok_max_balance",
			seed: func(db *sql.DB, t *testing.T) int64 {
				return pgtestutil.InsertUser(t, db, "Max", 2147483647, false)
			},
			wantBalance: 2147483647,
		},
		{
			name:    "error_user_not_found",
			seed:    func(_ *sql.DB, _ *testing.T) int64 { return 999 },
			wantErr: users.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, cleanup := pgtestutil.NewTestDB(t)
			defer cleanup()

			userID := tt.seed(db, t)
			repo := New(db)

			got, err := repo.GetBalance(t.Context(), userID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want %v, got %v (balance=%d)", tt.wantErr, err, got)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.wantBalance {
				t.Fatalf("balance: want %d, got %d", tt.wantBalance, got)
			}
		})
	}
}

func TestUsers_Get(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	id := pgtestutil.InsertUser(t, db, "Bob", 42, true)
	repo := New(db)

	u, err := repo.Get(t.Context(), id)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}

	if u.ID != id || u.Name != "Bob" || u.Email != "bob@example.com" || u.Points != 42 || !u.IsAdmin {
		t.Fatalf("unexpected user: %+v", u)
	}

	if u.CreatedAt.IsZero() || u.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not loaded: %+v", u)
	}

	_, err = repo.Get(t.Context(), id+100)
	if !errors.Is(err, users.ErrUserNotFound) {
		t.Fatalf("want ErrUserNotFound, got %v", err)
	}
}
