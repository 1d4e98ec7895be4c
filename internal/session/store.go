package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/jonathan/unemployment-navigator/internal/schemas"
	"github.com/jonathan/unemployment-navigator/internal/types"
	schemafiles "github.com/jonathan/unemployment-navigator/schemas"
)

// Store persists session snapshots. Load returns nil, nil when no snapshot
// exists for id.
type Store interface {
	Load(ctx context.Context, id string) (*types.Session, error)
	Save(ctx context.Context, snapshot *types.Session) error
	Delete(ctx context.Context, id string) error
}

// ErrCorrupt is wrapped by Decode when stored data cannot be used.
var ErrCorrupt = errors.New("corrupt session snapshot")

// ErrInvalidID is returned for session IDs that cannot be used as keys.
var ErrInvalidID = errors.New("invalid session id")

var validID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// ValidateID checks that id is usable as a storage key.
func ValidateID(id string) error {
	if !validID.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// Encode serializes a snapshot as JSON.
func Encode(snapshot *types.Session) ([]byte, error) {
	if snapshot == nil {
		return nil, errors.New("nil session snapshot")
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session %s: %w", snapshot.ID, err)
	}
	return data, nil
}

// Decode parses and validates a stored snapshot. Timestamps are normalized
// to UTC and missing collections are filled in.
func Decode(data []byte) (*types.Session, error) {
	if err := schemas.ValidateDocument(schemafiles.Session, data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	var s types.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	s.Normalize()
	return &s, nil
}

// MemoryStore keeps snapshots in memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Load implements Store.
func (m *MemoryStore) Load(_ context.Context, id string) (*types.Session, error) {
	m.mu.RLock()
	data, ok := m.data[id]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return Decode(data)
}

// Save implements Store.
func (m *MemoryStore) Save(_ context.Context, snapshot *types.Session) error {
	data, err := Encode(snapshot)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[snapshot.ID] = data
	m.mu.Unlock()
	return nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.data, id)
	m.mu.Unlock()
	return nil
}

// FileStore keeps one JSON file per session in a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create session directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(id string) (string, error) {
	if err := ValidateID(id); err != nil {
		return "", err
	}
	return filepath.Join(f.dir, id+".json"), nil
}

// Load implements Store.
func (f *FileStore) Load(_ context.Context, id string) (*types.Session, error) {
	path, err := f.path(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", id, err)
	}
	return Decode(data)
}

// Save implements Store. The file is replaced atomically.
func (f *FileStore) Save(_ context.Context, snapshot *types.Session) error {
	data, err := Encode(snapshot)
	if err != nil {
		return err
	}
	path, err := f.path(snapshot.ID)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.dir, snapshot.ID+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write session %s: %w", snapshot.ID, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write session %s: %w", snapshot.ID, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to save session %s: %w", snapshot.ID, err)
	}
	return nil
}

// Delete implements Store.
func (f *FileStore) Delete(_ context.Context, id string) error {
	path, err := f.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return nil
}
