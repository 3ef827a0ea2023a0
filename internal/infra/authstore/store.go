// Package authstore implements the Auth Blob Store (C3): a thin gob-archive
// layer over SESSION_STORAGE_PATH, serialized per instance with a sync.Map
// of per-instance mutexes, grounded on the same "infra adapter wrapping an
// external resource" shape as internal/infra/repository/sqlite/connection.go.
//
// whatsmeow already persists device credentials through the sqlstore
// Container the teacher wires; this store exists for the narrower contract
// the engine needs above that: an export archive a reset/delete endpoint can
// remove without touching any other instance's device row.
package authstore

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"wagateway/internal/domain/lifecycle"
	"wagateway/internal/domain/session"
	"wagateway/pkg/logger"
)

// Blob is the exported auth archive for one instance.
type Blob struct {
	InstanceID string
	DeviceJID  string
	Payload    []byte
	SavedAt    time.Time
}

// Store is the gob-archive Auth Blob Store.
type Store struct {
	basePath string
	locks    sync.Map // map[string]*sync.Mutex, keyed by instance id
	logger   logger.Logger
}

// New creates a Store rooted at basePath, creating the directory if needed.
func New(basePath string, log logger.Logger) (*Store, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("authstore: create base dir: %w", err)
	}
	return &Store{basePath: basePath, logger: log}, nil
}

func (s *Store) lockFor(id string) *sync.Mutex {
	actual, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

func (s *Store) pathFor(id session.SessionID) string {
	return filepath.Join(s.basePath, id.String()+".gob")
}

// Exists reports whether an archive is present for id.
func (s *Store) Exists(id session.SessionID) bool {
	lock := s.lockFor(id.String())
	lock.Lock()
	defer lock.Unlock()

	_, err := os.Stat(s.pathFor(id))
	return err == nil
}

// Save writes the blob for id, replacing any prior archive. The write goes
// to a temp file in the same directory first and is renamed into place, so
// a crash mid-write never leaves a half-written archive behind.
func (s *Store) Save(id session.SessionID, blob Blob) error {
	lock := s.lockFor(id.String())
	lock.Lock()
	defer lock.Unlock()

	blob.InstanceID = id.String()
	blob.SavedAt = time.Now()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(blob); err != nil {
		return fmt.Errorf("authstore: encode blob for %s: %w", id.String(), err)
	}

	target := s.pathFor(id)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("authstore: write temp archive for %s: %w", id.String(), err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("authstore: rename archive for %s: %w", id.String(), err)
	}
	return nil
}

// Load reads the archived blob for id. Returns os.ErrNotExist (wrapped) if
// no archive exists.
func (s *Store) Load(id session.SessionID) (*Blob, error) {
	lock := s.lockFor(id.String())
	lock.Lock()
	defer lock.Unlock()

	data, err := os.ReadFile(s.pathFor(id))
	if err != nil {
		return nil, fmt.Errorf("authstore: read archive for %s: %w", id.String(), err)
	}

	var blob Blob
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&blob); err != nil {
		return nil, fmt.Errorf("authstore: decode archive for %s: %w", id.String(), err)
	}
	return &blob, nil
}

// Delete removes the archive for id, if any. Implements
// lifecycle.AuthBlobStore so the controller can call it directly on an
// UNPAIRED observation (spec §4.2). Deleting a missing archive is not an
// error — the common case is an instance that never authenticated.
func (s *Store) Delete(ctx context.Context, id session.SessionID) error {
	lock := s.lockFor(id.String())
	lock.Lock()
	defer lock.Unlock()

	err := os.Remove(s.pathFor(id))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("authstore: delete archive for %s: %w", id.String(), err)
	}

	s.locks.Delete(id.String())
	return nil
}

var _ lifecycle.AuthBlobStore = (*Store)(nil)
