package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	configDirName   = "deskd"
	sessionFileName = "session.json"
)

// State is the persisted session record: exactly the user profile and
// the token, nothing else.
type State struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// Storage persists the session across process restarts.
type Storage interface {
	Load() (*State, error)
	Save(state *State) error
	Clear() error
}

// FileStorage keeps the session record in a JSON file under the user's
// config directory.
type FileStorage struct {
	path string
}

// NewFileStorage creates a file-backed storage at the default path
// (~/.config/deskd/session.json).
func NewFileStorage() (*FileStorage, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	return &FileStorage{
		path: filepath.Join(homeDir, ".config", configDirName, sessionFileName),
	}, nil
}

// NewFileStorageAt creates a file-backed storage at an explicit path
func NewFileStorageAt(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Load reads the persisted session record. A missing file is an empty
// session, not an error.
func (f *FileStorage) Load() (*State, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{}, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}

	return &state, nil
}

// Save writes the session record. The file holds a credential, so it
// is not group or world readable.
func (f *FileStorage) Save(state *State) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(f.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// Clear removes the persisted record. Already-absent is not an error.
func (f *FileStorage) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
