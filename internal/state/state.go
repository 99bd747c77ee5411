package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/dm/sysmap-go/internal/model"
)

// State is everything sysmap remembers between sessions.
type State struct {
	Endpoint EndpointState `toml:"endpoint"`
	Camera   *model.Camera `toml:"camera,omitempty"`
}

// EndpointState records the last backend that answered a health probe.
type EndpointState struct {
	BaseURL string `toml:"base_url"`
}

// Store reads and writes State as a TOML file.
type Store struct {
	path string
}

// Dir returns the sysmap state directory path.
func Dir() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "sysmap")
}

// DefaultPath returns the default state file path.
func DefaultPath() string {
	return filepath.Join(Dir(), "state.toml")
}

// NewStore returns a store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

// Load reads the state file. A missing file yields an empty State.
func (s *Store) Load() (*State, error) {
	st := &State{}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return st, nil
		}
		return nil, err
	}
	if err := toml.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return st, nil
}

// Save replaces the state file. The new content is written to a temporary
// file first and renamed over the old one so readers never see a torn file.
func (s *Store) Save(st *State) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	f, err := os.CreateTemp(dir, ".state-*.toml")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err := toml.NewEncoder(f).Encode(st); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode state: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, s.path)
}

// Endpoint returns the persisted base URL, or "" when none is stored.
func (s *Store) Endpoint() (string, error) {
	st, err := s.Load()
	if err != nil {
		return "", err
	}
	return st.Endpoint.BaseURL, nil
}

// SetEndpoint persists base as the backend to try first next time.
func (s *Store) SetEndpoint(base string) error {
	return s.update(func(st *State) { st.Endpoint.BaseURL = base })
}

// Camera returns the persisted camera, or false when none is stored.
func (s *Store) Camera() (model.Camera, bool, error) {
	st, err := s.Load()
	if err != nil {
		return model.Camera{}, false, err
	}
	if st.Camera == nil {
		return model.Camera{}, false, nil
	}
	return *st.Camera, true, nil
}

// SetCamera persists the camera snapshot.
func (s *Store) SetCamera(cam model.Camera) error {
	return s.update(func(st *State) { st.Camera = &cam })
}

// update applies fn to the current state and saves it. An unreadable file
// is replaced rather than blocking every future save.
func (s *Store) update(fn func(*State)) error {
	st, err := s.Load()
	if err != nil {
		st = &State{}
	}
	fn(st)
	return s.Save(st)
}
