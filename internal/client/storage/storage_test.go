package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func testOptions(t *testing.T) Options {
	t.Helper()
	return Options{
		Path:          filepath.Join(t.TempDir(), "claims.store"),
		ID:            "medical-claims-storage",
		EncryptionKey: "test-encryption-key",
	}
}

func TestOpen_FileNotExist(t *testing.T) {
	ls, err := Open(testOptions(t))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, ok := ls.Get("anything"); ok {
		t.Errorf("expected empty store")
	}
}

func TestSetGetDelete(t *testing.T) {
	ls, err := Open(testOptions(t))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if err := ls.Set("k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	v, ok := ls.Get("k")
	if !ok || v != "v" {
		t.Errorf("Get returned %q, %v", v, ok)
	}

	if err := ls.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := ls.Get("k"); ok {
		t.Errorf("expected key to be deleted")
	}
	// deleting an absent key is fine
	if err := ls.Delete("nonexistent"); err != nil {
		t.Errorf("Delete of absent key failed: %v", err)
	}
}

func TestValuesSurviveReopen(t *testing.T) {
	opts := testOptions(t)

	ls, err := Open(opts)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := ls.Set("token", "abc123"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	reopened, err := Open(opts)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	v, ok := reopened.Get("token")
	if !ok || v != "abc123" {
		t.Errorf("expected persisted value, got %q, %v", v, ok)
	}
}

func TestClearAll(t *testing.T) {
	ls, err := Open(testOptions(t))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	_ = ls.Set("a", "1")
	_ = ls.Set("b", "2")

	if err := ls.ClearAll(); err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}
	if _, ok := ls.Get("a"); ok {
		t.Errorf("expected a to be cleared")
	}
	if _, ok := ls.Get("b"); ok {
		t.Errorf("expected b to be cleared")
	}
}

func TestOpen_WrongKey(t *testing.T) {
	opts := testOptions(t)
	ls, err := Open(opts)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := ls.Set("k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	opts.EncryptionKey = "another-key"
	if _, err := Open(opts); !errors.Is(err, ErrStorageUnavailable) {
		t.Errorf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestOpen_WrongID(t *testing.T) {
	opts := testOptions(t)
	ls, err := Open(opts)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := ls.Set("k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	opts.ID = "another-namespace"
	if _, err := Open(opts); !errors.Is(err, ErrStorageUnavailable) {
		t.Errorf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestOpen_CorruptFile(t *testing.T) {
	opts := testOptions(t)
	if err := os.WriteFile(opts.Path, []byte("garbage bytes that are no ciphertext"), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := Open(opts); !errors.Is(err, ErrStorageUnavailable) {
		t.Errorf("expected ErrStorageUnavailable, got %v", err)
	}

	if err := os.WriteFile(opts.Path, []byte("x"), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := Open(opts); !errors.Is(err, ErrStorageUnavailable) {
		t.Errorf("expected ErrStorageUnavailable for truncated file, got %v", err)
	}
}
