package session

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestFileStorage_MissingFileIsEmptySession(t *testing.T) {
	storage := NewFileStorageAt(filepath.Join(t.TempDir(), "session.json"))

	state, err := storage.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if state.User != nil || state.Token != "" {
		t.Errorf("Load() = %+v, want empty state", state)
	}
}

func TestFileStorage_SaveLoadRoundTrip(t *testing.T) {
	storage := NewFileStorageAt(filepath.Join(t.TempDir(), "nested", "session.json"))

	saved := &State{
		User:  &User{ID: 7, Name: "Dana", Email: "dana@x.com", Role: RoleAdmin},
		Token: "tok-7",
	}
	if err := storage.Save(saved); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := storage.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Token != saved.Token {
		t.Errorf("Token = %q, want %q", loaded.Token, saved.Token)
	}
	if loaded.User == nil || *loaded.User != *saved.User {
		t.Errorf("User = %+v, want %+v", loaded.User, saved.User)
	}
}

func TestFileStorage_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}

	path := filepath.Join(t.TempDir(), "session.json")
	storage := NewFileStorageAt(path)

	if err := storage.Save(&State{Token: "secret"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file mode = %o, want 0600", perm)
	}
}

func TestFileStorage_ClearIsIdempotent(t *testing.T) {
	storage := NewFileStorageAt(filepath.Join(t.TempDir(), "session.json"))

	if err := storage.Save(&State{Token: "tok"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := storage.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	// Clearing an already-empty storage is fine
	if err := storage.Clear(); err != nil {
		t.Fatalf("second Clear() error = %v", err)
	}

	state, err := storage.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if state.User != nil || state.Token != "" {
		t.Errorf("Load() after Clear() = %+v, want empty state", state)
	}
}
