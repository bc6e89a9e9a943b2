package cache

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()

	if _, ok := s.Get("missing"); ok {
		t.Error("Get() should report absent keys")
	}

	if err := s.Set("k", "v"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if v, ok := s.Get("k"); !ok || v != "v" {
		t.Errorf("Get() = %q, %v, want %q, true", v, ok, "v")
	}

	if err := s.Remove("k"); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if _, ok := s.Get("k"); ok {
		t.Error("Get() should report removed keys as absent")
	}
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()

	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}

	t.Run("roundTrip", func(t *testing.T) {
		if err := s.Set("menuprog:week:abc", `{"hello":1}`); err != nil {
			t.Fatalf("Set() error: %v", err)
		}
		v, ok := s.Get("menuprog:week:abc")
		if !ok || v != `{"hello":1}` {
			t.Errorf("Get() = %q, %v, want the stored value", v, ok)
		}
	})

	t.Run("keySanitization", func(t *testing.T) {
		if err := s.Set("a/b:c", "x"); err != nil {
			t.Fatalf("Set() error: %v", err)
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("ReadDir() error: %v", err)
		}
		for _, e := range entries {
			if filepath.Ext(e.Name()) != ".json" {
				t.Errorf("unexpected file %q, want only .json entries", e.Name())
			}
		}
		if v, ok := s.Get("a/b:c"); !ok || v != "x" {
			t.Errorf("Get() after sanitized Set() = %q, %v", v, ok)
		}
	})

	t.Run("removeMissingIsNoError", func(t *testing.T) {
		if err := s.Remove("never-written"); err != nil {
			t.Errorf("Remove() on a missing key should not error, got %v", err)
		}
	})

	t.Run("removeDeletesFile", func(t *testing.T) {
		s.Set("gone", "x")
		if err := s.Remove("gone"); err != nil {
			t.Fatalf("Remove() error: %v", err)
		}
		if _, ok := s.Get("gone"); ok {
			t.Error("Get() should report removed keys as absent")
		}
	})

	t.Run("createsMissingDirectory", func(t *testing.T) {
		nested := filepath.Join(dir, "deep", "cache")
		if _, err := NewFileStore(nested); err != nil {
			t.Fatalf("NewFileStore() error: %v", err)
		}
		if _, err := os.Stat(nested); err != nil {
			t.Errorf("NewFileStore() did not create %s: %v", nested, err)
		}
	})
}
