package activities

import (
	"errors"
	"testing"

	"github.com/fastprodman/pointledger/internal/infra/pgtestutil"
	"github.com/fastprodman/pointledger/internal/repos/activities"
)

func TestActivities_Get(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	var withDefault int64

	err := db.QueryRow(`
		INSERT INTO activities (name, description, default_points)
		VALUES ('Volunteer shift', 'Two hours', 25)
		RETURNING id
	`).Scan(&withDefault)
	if err != nil {
		t.Fatalf("seed activity: %v", err)
	}

	noDefault := pgtestutil.InsertActivity(t, db, "Social event")

	repo := New(db)

	a, err := repo.Get(t.Context(), withDefault)
	if err != nil {
		t.Fatalf("get activity: %v", err)
	}

	if a.Name != "Volunteer shift" || a.Description != "Two hours" || a.DefaultPoints == nil || *a.DefaultPoints != 25 {
		t.Fatalf("unexpected activity: %+v", a)
	}

	b, err := repo.Get(t.Context(), noDefault)
	if err != nil {
		t.Fatalf("get activity: %v", err)
	}

	if b.DefaultPoints != nil {
		t.Fatalf("want nil default points, got %d", *b.DefaultPoints)
	}

	_, err = repo.Get(t.Context(), noDefault+100)
	if !errors.Is(err, activities.ErrActivityNotFound) {
		t.Fatalf("want ErrActivityNotFound, got %v", err)
	}
}
