package users

import (
	"testing"

	"github.com/fastprodman/pointledger/internal/infra/pgtestutil"
)

func TestUsers_ListMembers_ExcludesAdminsSortedByName(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	pgtestutil.InsertUser(t, db, "Zed", 0, false)
	pgtestutil.InsertUser(t, db, "Admin", 0, true)
	pgtestutil.InsertUser(t, db, "Carol", 5, false)
	pgtestutil.InsertUser(t, db, "Alice", 10, false)

	repo := New(db)

	got, err := repo.ListMembers(t.Context())
	if err != nil {
		t.Fatalf("list members: %v", err)
	}

	want := []string{"Alice", "Carol", "Zed"}
	if len(got) != len(want) {
		t.Fatalf("want %d members, got %d (%+v)", len(want), len(got), got)
	}

	for i, name := range want {
		if got[i].Name != name {
			t.Fatalf("member %d: want %s, got %s", i, name, got[i].Name)
		}

		if got[i].IsAdmin {
			t.Fatalf("admin listed as member: %+v", got[i])
		}
	}
}
