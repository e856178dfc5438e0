package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gofrs/flock"
)

const (
	lockFileName      = ".lock"
	evidenceExtension = ".json"
	reminderExtension = ".txt"
)

// FileStorage stores each key as a file under a data directory.
// Writes take an advisory lock and replace the file atomically.
type FileStorage struct {
	dataDir string
	mu      sync.Mutex
}

// NewFileStorage creates a file-backed store rooted at dataDir. The directory
// is created on the first write.
func NewFileStorage(dataDir string) *FileStorage {
	return &FileStorage{
		dataDir: dataDir,
	}
}

// DataDir returns the directory holding the stored files.
func (s *FileStorage) DataDir() string {
	return s.dataDir
}

func (s *FileStorage) path(key Key) string {
	ext := evidenceExtension
	if IsReminderKey(key) {
		ext = reminderExtension
	}
	return filepath.Join(s.dataDir, string(key)+ext)
}

// lock acquires the data directory lock, blocking until other writers finish.
func (s *FileStorage) lock() (*flock.Flock, error) {
	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	fileLock := flock.New(filepath.Join(s.dataDir, lockFileName))
	if err := fileLock.Lock(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLocked, err)
	}
	return fileLock, nil
}

// Save writes content under key, replacing any previous value.
func (s *FileStorage) Save(key Key, content string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fileLock, err := s.lock()
	if err != nil {
		return err
	}
	defer fileLock.Close()

	path := s.path(key)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}

	return nil
}

// Get returns the stored content, or an empty string when key was never saved.
func (s *FileStorage) Get(key Key) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return string(data), nil
}

// Delete removes the stored value. Deleting a missing key is not an error.
func (s *FileStorage) Delete(key Key) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.dataDir); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	fileLock, err := s.lock()
	if err != nil {
		return err
	}
	defer fileLock.Close()

	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Keys lists the keys that have a stored file.
func (s *FileStorage) Keys() ([]Key, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list data directory: %w", err)
	}

	var keys []Key
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		var key Key
		switch {
		case strings.HasSuffix(name, evidenceExtension):
			key = Key(strings.TrimSuffix(name, evidenceExtension))
			if IsReminderKey(key) {
				continue
			}
		case strings.HasSuffix(name, reminderExtension):
			key = Key(strings.TrimSuffix(name, reminderExtension))
			if !IsReminderKey(key) {
				continue
			}
		default:
			continue
		}
		keys = append(keys, key)
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys, nil
}
