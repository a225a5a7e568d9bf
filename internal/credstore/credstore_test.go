package credstore_test

import (
	"os"
	"path/filepath"
	"testing"

	"todo/internal/credstore"
)

func stores(t *testing.T) map[string]credstore.Store {
	t.Helper()

	dir := t.TempDir()
	file, err := credstore.Open(credstore.KindFile, dir)
	if err != nil {
		t.Fatalf("open file store: %v", err)
	}
	db, err := credstore.Open(credstore.KindSQLite, dir)
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { db.(*credstore.SQLiteStore).Close() })

	return map[string]credstore.Store{"file": file, "sqlite": db}
}

func TestStore_EmptyLoadsAbsent(t *testing.T) {
	for name, s := range stores(t) {
		got, err := s.Load()
		if err != nil {
			t.Errorf("%s: unexpected error: %v", name, err)
		}
		if got != "" {
			t.Errorf("%s: expected no token, got %q", name, got)
		}
	}
}

func TestStore_SaveLoadClear(t *testing.T) {
	for name, s := range stores(t) {
		if err := s.Save("abc123"); err != nil {
			t.Fatalf("%s: save: %v", name, err)
		}
		got, err := s.Load()
		if err != nil || got != "abc123" {
			t.Errorf("%s: expected abc123, got %q (err %v)", name, got, err)
		}

		if err := s.Save("def456"); err != nil {
			t.Fatalf("%s: overwrite: %v", name, err)
		}
		if got, _ := s.Load(); got != "def456" {
			t.Errorf("%s: expected overwritten token, got %q", name, got)
		}

		if err := s.Clear(); err != nil {
			t.Fatalf("%s: clear: %v", name, err)
		}
		if got, _ := s.Load(); got != "" {
			t.Errorf("%s: expected cleared token, got %q", name, got)
		}

		// Clearing twice is harmless
		if err := s.Clear(); err != nil {
			t.Errorf("%s: second clear: %v", name, err)
		}
	}
}

func TestStore_NullSentinelIsAbsent(t *testing.T) {
	for name, s := range stores(t) {
		if err := s.Save(credstore.NoneSentinel); err != nil {
			t.Fatalf("%s: save: %v", name, err)
		}
		got, err := s.Load()
		if err != nil {
			t.Errorf("%s: unexpected error: %v", name, err)
		}
		if got != "" {
			t.Errorf("%s: expected sentinel to load as absent, got %q", name, got)
		}
	}
}

func TestFileStore_Mode0600(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	s := credstore.NewFileStore(path)
	if err := s.Save("tok"); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %o", info.Mode().Perm())
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	s := credstore.NewFileStore(path)
	if _, err := s.Load(); err == nil {
		t.Error("expected error for corrupt token file")
	}
}

func TestOpen_UnknownKind(t *testing.T) {
	if _, err := credstore.Open("keychain", t.TempDir()); err == nil {
		t.Error("expected error for unknown store kind")
	}
}
