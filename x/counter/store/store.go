package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	errorsmod "cosmossdk.io/errors"

	"github.com/initia-labs/counterd/x/counter/types"
)

// StateFileName is the file the view state is kept in, relative to home.
const StateFileName = "state.json"

// StateStore persists the view state between invocations.
type StateStore struct {
	path string
}

// NewStateStore returns a store keeping its file in home.
func NewStateStore(home string) *StateStore {
	return &StateStore{path: filepath.Join(home, StateFileName)}
}

// Path returns the file backing the store.
func (s *StateStore) Path() string {
	return s.path
}

// Load returns the stored state. A missing file yields the default state
// for packageID and found == false.
func (s *StateStore) Load(packageID string) (types.UIState, bool, error) {
	bz, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return types.DefaultUIState(packageID), false, nil
	}
	if err != nil {
		return types.UIState{}, false, errorsmod.Wrapf(err, "read %s", s.path)
	}

	state := types.DefaultUIState(packageID)
	if err := json.Unmarshal(bz, &state); err != nil {
		return types.UIState{}, false, errorsmod.Wrapf(err, "decode %s", s.path)
	}

	return state, true, nil
}

// Save writes state through a temp file, then replaces the target.
func (s *StateStore) Save(state types.UIState) error {
	bz, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}

	f, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp) // no-op after a successful rename

	if _, err := f.Write(bz); err != nil {
		f.Close()
		return err
	}
	if err := f.Chmod(0o600); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	return os.Rename(tmp, s.path)
}
