package storage

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStorage implements fiber's session storage interface on a directory of
// one-file-per-key entries, so browser sessions survive restarts without a
// database
type FileStorage struct {
	dir string
	mu  sync.RWMutex
}

// NewFileStorage creates session storage rooted at dir
func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	return &FileStorage{dir: dir}, nil
}

func (s *FileStorage) path(key string) string {
	// Session IDs are opaque tokens; flatten anything path-like
	return filepath.Join(s.dir, filepath.Base(key)+".session")
}

// Get returns the value for key, or nil when absent or expired
func (s *FileStorage) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path := s.path(key)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	// Expiry is tracked via the file modification time set on write
	if time.Now().After(info.ModTime()) {
		os.Remove(path)
		return nil, nil
	}

	return os.ReadFile(path)
}

// Set stores a value for key with the given expiry
func (s *FileStorage) Set(key string, val []byte, exp time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(key)
	if err := os.WriteFile(path, val, 0600); err != nil {
		return err
	}

	expiresAt := time.Now().Add(exp)
	if exp <= 0 {
		expiresAt = time.Now().Add(365 * 24 * time.Hour)
	}
	return os.Chtimes(path, expiresAt, expiresAt)
}

// Delete removes a key
func (s *FileStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Reset removes all keys
func (s *FileStorage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if filepath.Ext(entry.Name()) != ".session" {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Close is a no-op; there is no connection to release
func (s *FileStorage) Close() error {
	return nil
}
