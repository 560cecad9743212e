package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestMigrationsSeedDictionary(t *testing.T) {
	repo := newTestRepo(t)

	entries, err := repo.GetDictionary(context.Background())
	if err != nil {
		t.Fatalf("GetDictionary() error = %v", err)
	}

	for _, key := range []string{"email", "phone", "address", "profile_description"} {
		if _, ok := entries[key]; !ok {
			t.Errorf("expected seeded dictionary key %q", key)
		}
	}
}

func TestTableCounts(t *testing.T) {
	repo := newTestRepo(t)

	counts, err := repo.TableCounts(context.Background())
	if err != nil {
		t.Fatalf("TableCounts() error = %v", err)
	}
	if counts["dictionary"] != 4 {
		t.Errorf("dictionary count = %d, want 4 seeded rows", counts["dictionary"])
	}
	if counts["expenses"] != 0 {
		t.Errorf("expenses count = %d, want 0", counts["expenses"])
	}
}
