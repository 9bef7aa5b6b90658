package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"git.mills.io/prologic/bitcask"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"vidrelay/internal/model"
)

const (
	// MaxEntries is the number of records kept after a trim.
	MaxEntries = 10
	// MaxAge is how long a record survives before the next read purges it.
	MaxAge = 24 * time.Hour

	historyKey = "download_history"
)

// Store is the single writer of the persisted download history. The whole
// collection lives under one key as a JSON array, newest first, and every
// mutation writes the full collection back before returning.
type Store struct {
	mu       sync.Mutex
	db       *bitcask.Bitcask
	onChange func()
	now      func() time.Time
}

// Open initializes a Store backed by a bitcask database at path.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "/" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create history directory %s: %w", dir, err)
		}
	}

	db, err := bitcask.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database at %s: %w", path, err)
	}
	log.Infof("History database opened at %s", path)
	return &Store{db: db, now: time.Now}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// SetOnChange registers a callback invoked after every mutation.
func (s *Store) SetOnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Load returns the current history, newest first, after purging expired
// records. An absent or malformed persisted value is treated as empty.
func (s *Store) Load() []model.DownloadRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pruneLocked()
}

// Record inserts the result as the newest history entry. Any existing
// record with the same download URL is removed first, and the collection
// is trimmed to MaxEntries.
func (s *Store) Record(result model.DownloadResult) model.DownloadRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := model.DownloadRecord{
		ID:          uuid.NewString(),
		Timestamp:   s.now(),
		Title:       result.Title,
		Format:      result.Format,
		Platform:    result.Platform,
		DownloadURL: result.DownloadURL,
		SizeMB:      result.SizeMB,
	}

	records := s.readLocked()
	kept := records[:0]
	for _, r := range records {
		if r.DownloadURL != record.DownloadURL {
			kept = append(kept, r)
		}
	}

	records = append([]model.DownloadRecord{record}, kept...)
	if len(records) > MaxEntries {
		records = records[:MaxEntries]
	}

	s.writeLocked(records)
	s.notifyLocked()
	return record
}

// Remove deletes the record with the given id. Removing an unknown id is
// a no-op, not an error.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.readLocked()
	kept := records[:0]
	for _, r := range records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}

	s.writeLocked(kept)
	s.notifyLocked()
}

// Clear empties the history. Callers are expected to confirm with the
// user before invoking this.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.writeLocked(nil)
	s.notifyLocked()
}

// pruneLocked drops records at or past MaxAge, persists the survivors if
// anything was dropped, and returns them in stored order.
func (s *Store) pruneLocked() []model.DownloadRecord {
	records := s.readLocked()
	now := s.now()

	kept := records[:0]
	for _, r := range records {
		if now.Sub(r.Timestamp) < MaxAge {
			kept = append(kept, r)
		}
	}

	if len(kept) != len(records) {
		s.writeLocked(kept)
	}
	return kept
}

func (s *Store) readLocked() []model.DownloadRecord {
	data, err := s.db.Get([]byte(historyKey))
	if err != nil {
		return nil
	}

	var records []model.DownloadRecord
	if err := json.Unmarshal(data, &records); err != nil {
		log.Warnf("Discarding malformed history value: %v", err)
		return nil
	}
	return records
}

// writeLocked persists the full collection. Persistence is best effort; a
// write failure must never fail the download flow.
func (s *Store) writeLocked(records []model.DownloadRecord) {
	if records == nil {
		records = []model.DownloadRecord{}
	}

	data, err := json.Marshal(records)
	if err != nil {
		log.Errorf("Failed to marshal history: %v", err)
		return
	}
	if err := s.db.Put([]byte(historyKey), data); err != nil {
		log.Errorf("Failed to persist history: %v", err)
		return
	}
	if err := s.db.Sync(); err != nil {
		log.Warnf("Failed to sync history database: %v", err)
	}
}

func (s *Store) notifyLocked() {
	if s.onChange != nil {
		s.onChange()
	}
}
