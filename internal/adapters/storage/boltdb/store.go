// Package boltdb persists the application document inside a bbolt bucket.
// It offers the same whole-document transactional contract as the jsonfile
// engine for deployments that prefer an embedded key-value file over a
// human-editable JSON document.
package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/homeskillhub/core/internal/domain/entities"
)

var (
	bucketName  = []byte("document")
	documentKey = []byte("root")
)

// Store is a DocumentStore backed by a bbolt file.
type Store struct {
	mu  sync.RWMutex
	db  *bolt.DB
	doc *entities.Document
}

// Open initializes the bbolt file, ensures the bucket exists and loads the
// stored document (or starts an empty one).
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt file: %w", err)
	}

	var raw []byte
	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		if v := b.Get(documentKey); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize bolt bucket: %w", err)
	}

	doc := entities.NewDocument()
	if raw != nil {
		doc = &entities.Document{}
		if err := json.Unmarshal(raw, doc); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to parse stored document: %w", err)
		}
	}
	doc.Reconcile()

	s := &Store{db: db, doc: doc}
	if err := s.flushLocked(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
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

// Update runs fn with exclusive access and snapshots the full document into
// the bucket. A failed fn restores the last persisted state.
func (s *Store) Update(ctx context.Context, fn func(doc *entities.Document) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.doc); err != nil {
		if reloaded, loadErr := s.reload(); loadErr == nil {
			s.doc = reloaded
		}
		return err
	}
	return s.flushLocked()
}

func (s *Store) reload() (*entities.Document, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketName).Get(documentKey); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return entities.NewDocument(), nil
	}
	doc := &entities.Document{}
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, err
	}
	doc.Reconcile()
	return doc, nil
}

func (s *Store) flushLocked() error {
	s.doc.Reconcile()

	data, err := json.Marshal(s.doc)
	if err != nil {
		return fmt.Errorf("failed to serialize document: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put(documentKey, data)
	})
}

// Close releases the underlying bolt file.
func (s *Store) Close() error {
	return s.db.Close()
}
