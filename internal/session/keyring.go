package session

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "deskd"
	keyringKey     = "api-token"
)

// KeyringStorage keeps the token in the OS keychain/credential manager
// and the user profile in the regular session file. Load reassembles
// the two halves into one record.
type KeyringStorage struct {
	profile *FileStorage
}

// NewKeyringStorage creates a keyring-backed storage. The profile half
// still lives in the default session file.
func NewKeyringStorage() (*KeyringStorage, error) {
	profile, err := NewFileStorage()
	if err != nil {
		return nil, err
	}
	return &KeyringStorage{profile: profile}, nil
}

func (k *KeyringStorage) Load() (*State, error) {
	state, err := k.profile.Load()
	if err != nil {
		return nil, err
	}

	token, err := keyring.Get(keyringService, keyringKey)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			// No token means no session, whatever the profile says.
			return &State{}, nil
		}
		return nil, fmt.Errorf("failed to load token: %w", err)
	}

	state.Token = token
	return state, nil
}

func (k *KeyringStorage) Save(state *State) error {
	if err := keyring.Set(keyringService, keyringKey, state.Token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	// The file half never carries the token in this backend.
	return k.profile.Save(&State{User: state.User})
}

func (k *KeyringStorage) Clear() error {
	if err := keyring.Delete(keyringService, keyringKey); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return k.profile.Clear()
}
