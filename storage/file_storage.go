package storage

import (
	"encoding/json"
	"os"
	"path"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/wardenhq/warden/storage/model"
)

// FileRecordStorage is a record storage backend for storing timed status
// records in flat JSON files, one file per policy kind. Every mutation
// rewrites the whole file before returning.
type FileRecordStorage struct {
	files map[model.PolicyKind]*recordFile
}

type recordFile struct {
	path  string
	mutex sync.RWMutex
}

// NewFileRecordStorage creates a new FileRecordStorage at the given path
func NewFileRecordStorage(basepath string) *FileRecordStorage {
	return &FileRecordStorage{
		files: map[model.PolicyKind]*recordFile{
			model.KindLeaveOfAbsence: {path: path.Join(basepath, "loa.json")},
			model.KindZeroTolerance:  {path: path.Join(basepath, "ztp.json")},
			model.KindSuspension:     {path: path.Join(basepath, "suspensions.json")},
		},
	}
}

// Load implements model.RecordStorageBackend
func (store *FileRecordStorage) Load() error {
	return nil
}

func (store *FileRecordStorage) file(kind model.PolicyKind) (*recordFile, error) {
	f, ok := store.files[kind]
	if !ok {
		return nil, errors.Errorf("no record file for policy kind '%s'", kind)
	}
	return f, nil
}

// readUnlocked reads the full record map for a file. A missing file yields
// an empty map; a corrupt file is logged and also treated as empty, so a
// bad store file degrades instead of taking the process down. The next
// flush overwrites it.
func (f *recordFile) readUnlocked() (map[string]model.TimedStatusRecord, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]model.TimedStatusRecord{}, nil
		}
		return nil, err
	}
	var records map[string]model.TimedStatusRecord
	if err = json.Unmarshal(data, &records); err != nil {
		log.WithError(err).WithField("file", f.path).Error("record file corrupt, starting empty")
		return map[string]model.TimedStatusRecord{}, nil
	}
	if records == nil {
		records = map[string]model.TimedStatusRecord{}
	}
	return records, nil
}

func (f *recordFile) writeUnlocked(records map[string]model.TimedStatusRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0600)
}

// Record implements model.RecordStorageBackend
func (store *FileRecordStorage) Record(kind model.PolicyKind, subjectID string) (*model.TimedStatusRecord, error) {
	f, err := store.file(kind)
	if err != nil {
		return nil, err
	}
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	records, err := f.readUnlocked()
	if err != nil {
		return nil, err
	}
	r, ok := records[subjectID]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

// Write implements model.RecordStorageBackend
func (store *FileRecordStorage) Write(record model.TimedStatusRecord) error {
	f, err := store.file(record.Kind)
	if err != nil {
		return err
	}
	f.mutex.Lock()
	defer f.mutex.Unlock()
	records, err := f.readUnlocked()
	if err != nil {
		return err
	}
	records[record.SubjectID] = record
	return f.writeUnlocked(records)
}

// Delete implements model.RecordStorageBackend
func (store *FileRecordStorage) Delete(kind model.PolicyKind, subjectID string) error {
	return store.DeleteBatch(kind, []string{subjectID})
}

// DeleteBatch implements model.RecordStorageBackend; all listed subjects
// are removed in a single flush.
func (store *FileRecordStorage) DeleteBatch(kind model.PolicyKind, subjectIDs []string) error {
	if len(subjectIDs) == 0 {
		return nil
	}
	f, err := store.file(kind)
	if err != nil {
		return err
	}
	f.mutex.Lock()
	defer f.mutex.Unlock()
	records, err := f.readUnlocked()
	if err != nil {
		return err
	}
	for _, id := range subjectIDs {
		delete(records, id)
	}
	return f.writeUnlocked(records)
}

// List implements model.RecordStorageBackend
func (store *FileRecordStorage) List(kind model.PolicyKind) ([]model.TimedStatusRecord, error) {
	f, err := store.file(kind)
	if err != nil {
		return nil, err
	}
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	records, err := f.readUnlocked()
	if err != nil {
		return nil, err
	}
	out := make([]model.TimedStatusRecord, 0, len(records))
	for _, r := range records {
		out = append(out, r)
	}
	return out, nil
}
