// Package ingest implements the ingestion pipeline: dedup decisions against
// the local record store, delete-then-write replacement in the vector store,
// and artifact publication.
package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rahatk-dev/pathagar/internal/models"
)

const recordsFilename = "chapters_metadata.json"

// RecordStore persists one IngestionRecord per (class, chapter) key in a
// JSON file keyed class_{level} -> chapterId. The file is the single source
// of truth for dedup decisions and must survive restarts.
type RecordStore struct {
	mu   sync.Mutex
	path string
	data map[string]map[string]models.IngestionRecord
}

func classKey(classLevel int) string {
	return fmt.Sprintf("class_%d", classLevel)
}

// OpenRecordStore loads the record file from dataDir, creating the directory
// if needed. A missing file is an empty store, not an error.
func OpenRecordStore(dataDir string) (*RecordStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &RecordStore{
		path: filepath.Join(dataDir, recordsFilename),
		data: make(map[string]map[string]models.IngestionRecord),
	}

	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.data); err != nil {
			return nil, fmt.Errorf("parse records: %w", err)
		}
	}
	return s, nil
}

// Get returns the record for (classLevel, chapterID) and whether it exists.
func (s *RecordStore) Get(classLevel int, chapterID string) (models.IngestionRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chapters, ok := s.data[classKey(classLevel)]
	if !ok {
		return models.IngestionRecord{}, false
	}
	rec, ok := chapters[chapterID]
	return rec, ok
}

// Put overwrites the record for its key and persists the whole store.
func (s *RecordStore) Put(classLevel int, chapterID string, rec models.IngestionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := classKey(classLevel)
	if s.data[key] == nil {
		s.data[key] = make(map[string]models.IngestionRecord)
	}
	s.data[key][chapterID] = rec
	return s.persistLocked()
}

// Delete removes the record if present and persists.
func (s *RecordStore) Delete(classLevel int, chapterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := classKey(classLevel)
	if s.data[key] == nil {
		return nil
	}
	if _, ok := s.data[key][chapterID]; !ok {
		return nil
	}
	delete(s.data[key], chapterID)
	return s.persistLocked()
}

// List returns a copy of all records for one class level.
func (s *RecordStore) List(classLevel int) map[string]models.IngestionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]models.IngestionRecord)
	for id, rec := range s.data[classKey(classLevel)] {
		out[id] = rec
	}
	return out
}

// persistLocked writes to a temp file and renames it over the record file so
// a crash mid-write cannot corrupt the store. Caller holds mu.
func (s *RecordStore) persistLocked() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace records: %w", err)
	}
	return nil
}
