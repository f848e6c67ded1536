package storage

import (
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/wardenhq/warden/storage/model"
)

// NewBadgerRecordStorage creates a new BadgerRecordStorage at the passed
// storage location
func NewBadgerRecordStorage(path string) (*BadgerRecordStorage, error) {
	store := &BadgerRecordStorage{path: path}
	err := store.Load()
	return store, err
}

// BadgerRecordStorage is a record storage backend on top of a Badger
// key-value database; record values are msgpack-encoded.
type BadgerRecordStorage struct {
	*badger.DB
	path   string
	loaded bool
}

// Load implements model.RecordStorageBackend
func (store *BadgerRecordStorage) Load() error {
	if store.loaded {
		return nil
	}
	db, err := badger.Open(badger.DefaultOptions(store.path))
	if err != nil {
		return err
	}
	store.DB = db

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
		again:
			err := db.RunValueLogGC(0.7)
			if err == nil {
				goto again
			}
		}
	}()
	store.loaded = true
	return nil
}

func recordKey(kind model.PolicyKind, subjectID string) []byte {
	return []byte(kind.String() + ":" + subjectID)
}

// Record implements model.RecordStorageBackend
func (store *BadgerRecordStorage) Record(kind model.PolicyKind, subjectID string) (*model.TimedStatusRecord, error) {
	var record model.TimedStatusRecord
	found := true
	err := store.View(
		func(txn *badger.Txn) error {
			item, err := txn.Get(recordKey(kind, subjectID))
			if errors.Is(err, badger.ErrKeyNotFound) {
				found = false
				return nil
			}
			if err != nil {
				return err
			}
			return item.Value(
				func(val []byte) error {
					return msgpack.Unmarshal(val, &record)
				},
			)
		},
	)
	if err != nil || !found {
		return nil, err
	}
	return &record, nil
}

// Write implements model.RecordStorageBackend
func (store *BadgerRecordStorage) Write(record model.TimedStatusRecord) error {
	data, err := msgpack.Marshal(record)
	if err != nil {
		return err
	}
	return store.Update(
		func(txn *badger.Txn) error {
			return txn.Set(recordKey(record.Kind, record.SubjectID), data)
		},
	)
}

// Delete implements model.RecordStorageBackend
func (store *BadgerRecordStorage) Delete(kind model.PolicyKind, subjectID string) error {
	return store.Update(
		func(txn *badger.Txn) error {
			return txn.Delete(recordKey(kind, subjectID))
		},
	)
}

// DeleteBatch implements model.RecordStorageBackend
func (store *BadgerRecordStorage) DeleteBatch(kind model.PolicyKind, subjectIDs []string) error {
	if len(subjectIDs) == 0 {
		return nil
	}
	return store.Update(
		func(txn *badger.Txn) error {
			for _, id := range subjectIDs {
				if err := txn.Delete(recordKey(kind, id)); err != nil {
					return err
				}
			}
			return nil
		},
	)
}

// List implements model.RecordStorageBackend
func (store *BadgerRecordStorage) List(kind model.PolicyKind) (records []model.TimedStatusRecord, err error) {
	err = store.View(
		func(txn *badger.Txn) error {
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()
			prefix := []byte(kind.String() + ":")
			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				var record model.TimedStatusRecord
				if err := it.Item().Value(
					func(val []byte) error {
						return msgpack.Unmarshal(val, &record)
					},
				); err != nil {
					return err
				}
				records = append(records, record)
			}
			return nil
		},
	)
	return
}
