package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"forest-focus-bot/internal/logging"
	"forest-focus-bot/internal/models"
)

// FileStore keeps the whole user map in memory and rewrites one JSON
// document on every mutation. Simple and good enough for a single bot
// process; the mutex keeps concurrent update handling safe.
type FileStore struct {
	mu     sync.RWMutex
	users  map[string]*models.UserRecord
	path   string
	logger logging.Logger
	now    func() time.Time
}

func NewFileStore(path string, logger logging.Logger) (*FileStore, error) {
	s := &FileStore{
		users:  make(map[string]*models.UserRecord),
		path:   path,
		logger: logger,
		now:    time.Now,
	}
	if err := s.load(); err != nil {
		logger.Errorf("storage: failed to load user data: %v", err)
		return nil, err
	}
	return s, nil
}

func (s *FileStore) load() error {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	var users map[string]*models.UserRecord
	if err := json.NewDecoder(file).Decode(&users); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode %s: %w", s.path, err)
	}
	s.users = users
	if s.users == nil {
		s.users = make(map[string]*models.UserRecord)
	}
	return nil
}

// atomicWriteJSON writes via a temp file and rename so a crash mid-write
// never leaves a truncated store behind.
func atomicWriteJSON(filePath string, data interface{}) error {
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

// persistLocked rewrites the whole store; callers hold the write lock.
func (s *FileStore) persistLocked() error {
	return atomicWriteJSON(s.path, s.users)
}

func (s *FileStore) GetOrCreate(ctx context.Context, id string) (*models.UserRecord, error) {
	s.mu.RLock()
	if rec, ok := s.users[id]; ok {
		defer s.mu.RUnlock()
		return rec.Clone(), nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.users[id]; ok {
		return rec.Clone(), nil
	}

	rec := models.NewUserRecord(id, s.now())
	s.users[id] = rec
	if err := s.persistLocked(); err != nil {
		delete(s.users, id)
		return nil, err
	}
	s.logger.Infof("storage: created user %s", id)
	return rec.Clone(), nil
}

func (s *FileStore) Update(ctx context.Context, id string, patch UserPatch) (*models.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("update %s: %w", id, ErrUserNotFound)
	}

	updated := rec.Clone()
	patch.apply(updated)
	s.users[id] = updated
	if err := s.persistLocked(); err != nil {
		s.users[id] = rec
		return nil, err
	}
	return updated.Clone(), nil
}

func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked()
}

var _ UserStore = (*FileStore)(nil)
