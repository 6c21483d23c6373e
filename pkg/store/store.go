// Package store implements a JSON-document record store shared between
// processes. Each store owns one file holding a single object keyed by record
// id; every operation loads the whole document and writers rewrite it
// wholesale. Mutations are serialized through a sentinel-file advisory lock,
// and every write lands via temp-file-then-rename so readers never observe a
// torn document.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// ErrDuplicateKey is returned by Insert when the id already exists in the
// document. The check and the insert happen inside the same critical section.
var ErrDuplicateKey = errors.New("store: key already exists")

const defaultLockTimeout = 5 * time.Second

// Config carries the file paths and lock bounds for one document. Paths are
// explicit constructor input; the store keeps no process-wide state.
type Config struct {
	// Path is the backing JSON document.
	Path string
	// LockTimeout bounds Acquire on every mutating operation. Zero means the
	// default of five seconds.
	LockTimeout time.Duration
}

// ConfigFromEnv builds a Config whose path comes from the environment
// variable pathVar, falling back to fallbackPath. STORE_LOCK_TIMEOUT_MS
// bounds lock acquisition for every document.
func ConfigFromEnv(pathVar, fallbackPath string) Config {
	path := os.Getenv(pathVar)
	if path == "" {
		path = fallbackPath
	}
	cfg := Config{Path: path}
	if raw := os.Getenv("STORE_LOCK_TIMEOUT_MS"); raw != "" {
		if ms, err := strconv.Atoi(raw); err == nil && ms > 0 {
			cfg.LockTimeout = time.Duration(ms) * time.Millisecond
		}
	}
	return cfg
}

// Store is a record store for one document, generic over the record type.
type Store[T any] struct {
	path        string
	lock        *FileLock
	lockTimeout time.Duration
}

// New opens a store over cfg.Path. The file does not need to exist yet; a
// missing or unparsable document reads as empty.
func New[T any](cfg Config) *Store[T] {
	timeout := cfg.LockTimeout
	if timeout == 0 {
		timeout = defaultLockTimeout
	}
	return &Store[T]{
		path:        cfg.Path,
		lock:        NewFileLock(cfg.Path + ".lock"),
		lockTimeout: timeout,
	}
}

// load reads the whole document. Absent or corrupt files recover as an empty
// document rather than an error: a truncated or freshly-initialized store is
// "no records yet".
func (s *Store[T]) load() map[string]T {
	records := make(map[string]T)
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return records
	}
	if err := json.Unmarshal(raw, &records); err != nil {
		return make(map[string]T)
	}
	return records
}

// save writes the whole document atomically: marshal, write a temp file,
// rename over the target. A reader sees either the old or the new document.
func (s *Store[T]) save(records map[string]T) error {
	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// withLock runs fn inside the document's critical section. The lock is
// released on every exit path.
func (s *Store[T]) withLock(fn func() error) error {
	if err := s.lock.Acquire(s.lockTimeout); err != nil {
		return err
	}
	defer s.lock.Release()
	return fn()
}

// Create inserts the record produced by build under a generated id and
// returns that id. genID runs inside the critical section and is re-invoked
// until it yields an unused key, so concurrent Create calls never collide.
func (s *Store[T]) Create(genID func() string, build func(id string) T) (string, error) {
	var id string
	err := s.withLock(func() error {
		records := s.load()
		id = genID()
		for {
			if _, exists := records[id]; !exists {
				break
			}
			id = genID()
		}
		records[id] = build(id)
		return s.save(records)
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// Insert adds rec under id, failing with ErrDuplicateKey if the id is
// already present. Used for records whose key is caller-derived, such as
// accounts keyed by normalized email.
func (s *Store[T]) Insert(id string, rec T) error {
	return s.withLock(func() error {
		records := s.load()
		if _, exists := records[id]; exists {
			return ErrDuplicateKey
		}
		records[id] = rec
		return s.save(records)
	})
}

// Get returns the record for id. Reads do not take the lock: atomic
// replacement on the write side guarantees a consistent snapshot.
func (s *Store[T]) Get(id string) (T, bool) {
	rec, ok := s.load()[id]
	return rec, ok
}

// List returns a one-shot snapshot of the whole document.
func (s *Store[T]) List() map[string]T {
	return s.load()
}

// FilterBy returns the records for which pred holds, scanning the current
// snapshot in memory.
func (s *Store[T]) FilterBy(pred func(id string, rec T) bool) map[string]T {
	out := make(map[string]T)
	for id, rec := range s.load() {
		if pred(id, rec) {
			out[id] = rec
		}
	}
	return out
}

// Update reloads the document fresh inside the critical section, applies
// mutate to the record if it exists, and writes back. It reports false with
// no side effects when the id is absent.
func (s *Store[T]) Update(id string, mutate func(rec *T)) (bool, error) {
	found := false
	err := s.withLock(func() error {
		records := s.load()
		rec, ok := records[id]
		if !ok {
			return nil
		}
		found = true
		mutate(&rec)
		records[id] = rec
		return s.save(records)
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// Delete removes the record for id and reports whether it existed.
func (s *Store[T]) Delete(id string) (bool, error) {
	found := false
	err := s.withLock(func() error {
		records := s.load()
		if _, ok := records[id]; !ok {
			return nil
		}
		found = true
		delete(records, id)
		return s.save(records)
	})
	if err != nil {
		return false, err
	}
	return found, nil
}
