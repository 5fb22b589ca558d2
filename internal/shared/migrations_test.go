package shared

import (
	"database/sql"
	"testing"
)

func migratedDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()

	var count int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name,
	).Scan(&count)
	if err != nil {
		t.Fatalf("failed to inspect schema: %v", err)
	}
	return count > 0
}

func TestMigrations(t *testing.T) {
	t.Run("Creates The Runs Schema", func(t *testing.T) {
		db := migratedDB(t)

		for _, table := range []string{"runs", "runs_sequence", "schema_migrations"} {
			if !tableExists(t, db, table) {
				t.Errorf("expected table %s to exist", table)
			}
		}

		var value int
		if err := db.QueryRow("SELECT value FROM runs_sequence WHERE id = 1").Scan(&value); err != nil {
			t.Fatalf("sequence row not seeded: %v", err)
		}
		if value != 0 {
			t.Errorf("expected sequence seeded at 0, got %d", value)
		}
	})

	t.Run("Reapplying Is A No Op", func(t *testing.T) {
		db := migratedDB(t)

		if err := RunMigrations(db); err != nil {
			t.Fatalf("expected rerun to succeed, got %v", err)
		}

		var rows int
		if err := db.QueryRow("SELECT COUNT(*) FROM runs_sequence").Scan(&rows); err != nil {
			t.Fatalf("failed to count sequence rows: %v", err)
		}
		if rows != 1 {
			t.Errorf("rerun duplicated seed rows: %d", rows)
		}
	})

	t.Run("Rollback Drops The Schema", func(t *testing.T) {
		db := migratedDB(t)

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("expected rollback to succeed, got %v", err)
		}
		if tableExists(t, db, "runs") {
			t.Error("expected runs table to be dropped")
		}

		if err := RollbackMigration(db); err == nil {
			t.Error("expected an error with nothing left to roll back")
		}
	})
}
