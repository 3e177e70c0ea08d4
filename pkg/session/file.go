package session

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/matzehuels/wordstream/pkg/errors"
)

// FileStore keeps one JSON document per session in a directory.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore opens dir, defaulting to ~/.config/wordstream/sessions.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "locate config directory")
		}
		dir = filepath.Join(base, "wordstream", "sessions")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create session directory")
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(id string) string {
	return filepath.Join(f.dir, id+".json")
}

func (f *FileStore) Get(_ context.Context, id string) (*Session, error) {
	if err := ValidateName(id); err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	path := f.path(id)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read session %s", id)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSession, err, "parse session %s", id)
	}
	if s.IsExpired(time.Now()) {
		os.Remove(path)
		return nil, nil
	}
	return &s, nil
}

func (f *FileStore) Set(_ context.Context, s *Session) error {
	if err := ValidateName(s.ID); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode session")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.WriteFile(f.path(s.ID), data, 0o600); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write session %s", s.ID)
	}
	return nil
}

func (f *FileStore) Delete(_ context.Context, id string) error {
	if err := ValidateName(id); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path(id)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeInternal, err, "remove session %s", id)
	}
	return nil
}

func (f *FileStore) Cleanup(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "read session directory")
	}
	now := time.Now()
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		path := filepath.Join(f.dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var s Session
		if err := json.Unmarshal(data, &s); err != nil {
			continue
		}
		if s.IsExpired(now) {
			os.Remove(path)
		}
	}
	return nil
}

func (f *FileStore) Close() error { return nil }

// Dir returns the directory holding session files.
func (f *FileStore) Dir() string { return f.dir }

var _ Store = (*FileStore)(nil)
