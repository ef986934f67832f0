package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/FrenchMajesty/agrilens/pkg/types"
)

// State is the persisted part of a session
type State struct {
	ID            string      `json:"id"`
	User          *types.User `json:"user,omitempty"`
	Token         string      `json:"token,omitempty"`
	Authenticated bool        `json:"is_authenticated"`
}

// Store loads and saves session state
type Store interface {
	Load() (*State, error)
	Save(state *State) error
	Clear() error
}

// FileStore implements Store using a JSON file
type FileStore struct {
	path string
}

// NewFileStore creates a new file-based session store
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file the store writes to
func (f *FileStore) Path() string {
	return f.path
}

// Load reads the state from the file. If the file doesn't exist, returns an empty state.
func (f *FileStore) Load() (*State, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return &State{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session from file %s: %w", f.path, err)
	}

	state := &State{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session from file %s: %w", f.path, err)
	}
	return state, nil
}

// Save writes the state to the file. The file holds a bearer token so it is
// only readable by the owner.
func (f *FileStore) Save(state *State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create session directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session to file %s: %w", f.path, err)
	}
	return nil
}

// Clear removes the session file. A missing file is not an error.
func (f *FileStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file %s: %w", f.path, err)
	}
	return nil
}

// MemoryStore keeps state in memory
type MemoryStore struct {
	mu    sync.Mutex
	state *State
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the stored state
func (m *MemoryStore) Load() (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == nil {
		return &State{}, nil
	}
	cp := *m.state
	return &cp, nil
}

// Save stores a copy of state
func (m *MemoryStore) Save(state *State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *state
	m.state = &cp
	return nil
}

// Clear drops the stored state
func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = nil
	return nil
}
