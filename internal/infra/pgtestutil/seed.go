package pgtestutil

import (
	"database/sql"
	"testing"
)

// InsertUser seeds a user row and returns its id.
func InsertUser(t *testing.T, db *sql.DB, name string, points int64, isAdmin bool) int64 {
	t.Helper()

	var id int64

	err := db.QueryRow(`
		INSERT INTO users (name, email, points, is_admin)
		VALUES ($1, lower($1) || '@example.com', $2, $3)
		RETURNING id
	`, name, points, isAdmin).Scan(&id)
	if err != nil {
		t.Fatalf("seed user %q: %v", name, err)
	}

	return id
}

// InsertActivity seeds an activity row and returns its id.
func InsertActivity(t *testing.T, db *sql.DB, name string) int64 {
	t.Helper()

	var id int64

	err := db.QueryRow(`
		INSERT INTO activities (name) VALUES ($1) RETURNING id
	`, name).Scan(&id)
	if err != nil {
		t.Fatalf("seed activity %q: %v", name, err)
	}

	return id
}

// InsertReward seeds a reward row and returns its id.
func InsertReward(t *testing.T, db *sql.DB, name string, pointValue int64) int64 {
	t.Helper()

	var id int64

	err := db.QueryRow(`
		INSERT INTO rewards (name, point_value) VALUES ($1, $2) RETURNING id
	`, name, pointValue).Scan(&id)
	if err != nil {
		t.Fatalf("seed reward %q: %v", name, err)
	}

	return id
}
