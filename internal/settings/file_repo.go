package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// FileRepo keeps every user's raw settings blob in one JSON file. Blobs are
// stored as written and merged over defaults on read.
type FileRepo struct {
	mu   sync.RWMutex
	path string
	s    map[string]json.RawMessage
}

func NewFileRepo(dataDir string) (*FileRepo, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	r := &FileRepo{
		path: filepath.Join(dataDir, "settings.json"),
		s:    map[string]json.RawMessage{},
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *FileRepo) load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	loaded := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &loaded); err != nil {
		return err
	}
	r.s = loaded
	return nil
}

func (r *FileRepo) saveLocked() error {
	b, err := json.MarshalIndent(r.s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, b, 0o644)
}

// Get returns the user's settings merged over defaults.
func (r *FileRepo) Get(userID string) Settings {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Merge(r.s[userID])
}

// Put replaces the user's stored settings.
func (r *FileRepo) Put(userID string, s Settings) error {
	blob, err := json.Marshal(s)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.s[userID] = blob
	return r.saveLocked()
}
