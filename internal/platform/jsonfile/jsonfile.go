// Copyright (c) 2026 Librarium. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package jsonfile implements the flat-file entity datastore.

Each entity kind lives in its own file as a single JSON array (books.json,
users.json, issues.json). A collection is loaded once at startup, mutated in
memory, and flushed back in full on every write. Flushes go through a
temporary file followed by an atomic rename, so a crash mid-write leaves the
previous durable copy intact.

# Concurrency

The [DB] owns a single readers-writer lock covering every collection opened
from it. All read-modify-write sequences — the stock-availability check
followed by the decrement and issue creation, the import merge-or-create,
the signup uniqueness check — must run inside [DB.Write]; plain lookups run
inside [DB.Read]. Collection methods themselves do not lock: calling them
outside a DB.Read/DB.Write block is a bug.

This is the single-writer serialization that closes the race of two
concurrent borrows both passing the availability check on the last copy.

# Value Semantics

Records are stored and returned by value. Callers receive copies, never
references into the in-memory slice, so stock counts cannot be mutated
behind the invariant checks. Record types must therefore be plain value
types (no maps, no shared slices).
*/
package jsonfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	jsoniter "github.com/json-iterator/go"
)

// ErrNotFound is returned by Update/Delete when no record carries the ID.
var ErrNotFound = errors.New("jsonfile: record not found")

// codec is the JSON codec for durable collections. jsoniter is drop-in
// compatible with encoding/json and markedly faster on full-array rewrites.
var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// # Datastore Handle

// DB is the handle to a data directory holding the entity collections.
//
// It carries the single-writer lock shared by every collection.
type DB struct {
	dir string
	mu  sync.RWMutex
}

// Open prepares the data directory and returns the datastore handle.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("jsonfile: create data dir %s: %w", dir, err)
	}
	return &DB{dir: dir}, nil
}

// Dir returns the datastore's directory path.
func (db *DB) Dir() string { return db.dir }

// Read runs fn while holding the shared read lock.
func (db *DB) Read(fn func() error) error {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return fn()
}

// Write runs fn while holding the exclusive write lock.
//
// Every mutation of any collection, including its preceding checks, must
// happen inside a single Write block to stay atomic with respect to other
// requests.
func (db *DB) Write(fn func() error) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return fn()
}

// Ping verifies the data directory is still present and writable.
// Used by the readiness probe.
func (db *DB) Ping() error {
	probe, err := os.CreateTemp(db.dir, ".probe-*")
	if err != nil {
		return fmt.Errorf("jsonfile: data dir not writable: %w", err)
	}
	name := probe.Name()
	_ = probe.Close()
	return os.Remove(name)
}

// # Collections

// Collection is one durable entity collection backed by a JSON-array file.
//
// The identify function extracts the record's opaque ID.
type Collection[T any] struct {
	db       *DB
	path     string
	identify func(T) string
	records  []T
}

// OpenCollection loads the named collection file from the datastore.
// A missing file yields an empty collection (first run).
func OpenCollection[T any](db *DB, name string, identify func(T) string) (*Collection[T], error) {
	c := &Collection[T]{
		db:       db,
		path:     filepath.Join(db.dir, name),
		identify: identify,
	}

	raw, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		c.records = []T{}
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("jsonfile: read %s: %w", c.path, err)
	}

	if err := codec.Unmarshal(raw, &c.records); err != nil {
		return nil, fmt.Errorf("jsonfile: decode %s: %w", c.path, err)
	}

	return c, nil
}

// Len returns the number of records.
func (c *Collection[T]) Len() int { return len(c.records) }

// All returns a copy of every record, in insertion order.
func (c *Collection[T]) All() []T {
	out := make([]T, len(c.records))
	copy(out, c.records)
	return out
}

// Get returns the record with the given ID.
func (c *Collection[T]) Get(id string) (T, bool) {
	for _, record := range c.records {
		if c.identify(record) == id {
			return record, true
		}
	}
	var zero T
	return zero, false
}

// Find returns the first record matching the predicate.
func (c *Collection[T]) Find(pred func(T) bool) (T, bool) {
	for _, record := range c.records {
		if pred(record) {
			return record, true
		}
	}
	var zero T
	return zero, false
}

// Filter returns every record matching the predicate, in insertion order.
func (c *Collection[T]) Filter(pred func(T) bool) []T {
	var out []T
	for _, record := range c.records {
		if pred(record) {
			out = append(out, record)
		}
	}
	return out
}

// Insert appends a record and flushes the collection.
func (c *Collection[T]) Insert(record T) error {
	c.records = append(c.records, record)
	if err := c.flush(); err != nil {
		// Roll the in-memory state back so memory and disk stay in sync.
		c.records = c.records[:len(c.records)-1]
		return err
	}
	return nil
}

// Update replaces the record with the same ID and flushes the collection.
// Returns [ErrNotFound] if no record carries the ID.
func (c *Collection[T]) Update(record T) error {
	id := c.identify(record)
	for i := range c.records {
		if c.identify(c.records[i]) == id {
			previous := c.records[i]
			c.records[i] = record
			if err := c.flush(); err != nil {
				c.records[i] = previous
				return err
			}
			return nil
		}
	}
	return ErrNotFound
}

// Delete removes the record with the given ID and flushes the collection.
// Returns [ErrNotFound] if no record carries the ID.
func (c *Collection[T]) Delete(id string) error {
	for i := range c.records {
		if c.identify(c.records[i]) == id {
			previous := c.records
			c.records = append(c.records[:i:i], c.records[i+1:]...)
			if err := c.flush(); err != nil {
				c.records = previous
				return err
			}
			return nil
		}
	}
	return ErrNotFound
}

// flush rewrites the whole collection file through a temp file + rename,
// so readers of the durable copy never observe a partial write.
func (c *Collection[T]) flush() error {
	payload, err := codec.MarshalIndent(c.records, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile: encode %s: %w", c.path, err)
	}

	tmp, err := os.CreateTemp(c.db.dir, filepath.Base(c.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("jsonfile: create temp for %s: %w", c.path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("jsonfile: write temp for %s: %w", c.path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("jsonfile: sync temp for %s: %w", c.path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("jsonfile: close temp for %s: %w", c.path, err)
	}

	if err := os.Rename(tmpName, c.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("jsonfile: replace %s: %w", c.path, err)
	}

	return nil
}
