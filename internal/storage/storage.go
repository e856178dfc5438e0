// Package storage persists the evidence that hook invocations hand to each other:
// the latest test run, lint run, proposed modification, todo snapshot, guard
// config, and reminder timestamps.
package storage

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Key identifies one stored value. Saving under a key replaces the previous value in full.
type Key string

const (
	KeyTest          Key = "test"
	KeyTodo          Key = "todo"
	KeyModifications Key = "modifications"
	KeyLint          Key = "lint"
	KeyConfig        Key = "config"

	reminderPrefix = "reminder_"
)

var (
	ErrInvalidKey = errors.New("invalid storage key")
	ErrLocked     = errors.New("storage is locked by another process")
)

// Storage is a keyed store with overwrite semantics.
// Get returns an empty string and no error for keys that were never saved.
type Storage interface {
	Save(key Key, content string) error
	Get(key Key) (string, error)
	Delete(key Key) error
	// Keys returns every key that currently holds a value.
	Keys() ([]Key, error)
}

// ReminderKey returns the storage key holding the reminder attempt for name.
func ReminderKey(name string) Key {
	return Key(reminderPrefix + name)
}

// IsReminderKey reports whether key holds a reminder attempt.
func IsReminderKey(key Key) bool {
	return strings.HasPrefix(string(key), reminderPrefix)
}

// ValidateKey rejects keys that cannot be mapped onto a single file name.
func ValidateKey(key Key) error {
	s := string(key)
	if s == "" || strings.ContainsAny(s, `/\`) || strings.Contains(s, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	return nil
}

// SaveReminderAttempt records when a reminder of the given kind was last attempted.
func SaveReminderAttempt(s Storage, name string, at time.Time) error {
	return s.Save(ReminderKey(name), strconv.FormatInt(at.UnixMilli(), 10))
}

// GetReminderAttempt returns the last attempt time for a reminder.
// The boolean is false when no attempt is recorded or the stored value is unreadable.
func GetReminderAttempt(s Storage, name string) (time.Time, bool, error) {
	value, err := s.Get(ReminderKey(name))
	if err != nil {
		return time.Time{}, false, err
	}
	if value == "" {
		return time.Time{}, false, nil
	}

	millis, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return time.Time{}, false, nil
	}
	return time.UnixMilli(millis), true, nil
}

// ClearReminderAttempt forgets the last attempt of a reminder.
func ClearReminderAttempt(s Storage, name string) error {
	return s.Delete(ReminderKey(name))
}

// Reset deletes every stored value, including guard config and reminders,
// except the keys listed in keep.
func Reset(s Storage, keep ...Key) error {
	keys, err := s.Keys()
	if err != nil {
		return err
	}
	for _, key := range keys {
		if slices.Contains(keep, key) {
			continue
		}
		if err := s.Delete(key); err != nil {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}
	return nil
}
