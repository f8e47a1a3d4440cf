// Package jsonfile persists the whole application document as a single JSON
// file. The document is loaded once at open, held in memory behind a lock,
// and rewritten in full after every update. Counters are reconciled against
// the data on load and before every write.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/homeskillhub/core/internal/domain/entities"
)

// Store is a DocumentStore backed by one JSON file.
type Store struct {
	mu   sync.RWMutex
	path string
	doc  *entities.Document
}

// Open loads the document from path, creating an empty document (and its
// parent directory) when no file exists yet.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	doc, err := load(path)
	if err != nil {
		return nil, err
	}

	s := &Store{path: path, doc: doc}
	// Persist immediately so a fresh file exists with initialized counters.
	if err := s.flushLocked(); err != nil {
		return nil, err
	}
	return s, nil
}

func load(path string) (*entities.Document, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return entities.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	var doc entities.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse data file %s: %w", path, err)
	}
	doc.Reconcile()
	return &doc, nil
}

// View runs fn with shared read access to the document.
func (s *Store) View(ctx context.Context, fn func(doc *entities.Document) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.doc)
}

// Update runs fn with exclusive access and writes the full document back.
// When fn fails the previous on-disk state is restored into memory so a
// partially applied mutation never survives.
func (s *Store) Update(ctx context.Context, fn func(doc *entities.Document) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.doc); err != nil {
		reloaded, loadErr := load(s.path)
		if loadErr == nil {
			s.doc = reloaded
		}
		return err
	}
	return s.flushLocked()
}

// flushLocked serializes the document and replaces the backing file. Callers
// must hold the write lock.
func (s *Store) flushLocked() error {
	s.doc.Reconcile()

	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize document: %w", err)
	}

	// Write-then-rename keeps the previous document intact if the process
	// dies mid-write.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write data file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace data file: %w", err)
	}
	return nil
}

// Close is a no-op for the file engine; it exists to satisfy the store
// contract shared with the bolt engine.
func (s *Store) Close() error {
	return nil
}
