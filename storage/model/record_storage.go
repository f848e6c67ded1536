package model

// RecordStorageBackend is an interface to store TimedStatusRecords
type RecordStorageBackend interface {
	// Record returns the record for the given (kind, subject) pair or nil
	// if there is none.
	Record(kind PolicyKind, subjectID string) (*TimedStatusRecord, error)
	// Write upserts the record, replacing any existing record for its
	// (kind, subject) pair, and persists before returning.
	Write(record TimedStatusRecord) error
	// Delete removes the record for the given (kind, subject) pair. It is
	// not an error if there is none.
	Delete(kind PolicyKind, subjectID string) error
	// DeleteBatch removes all listed subjects for a kind in a single flush.
	DeleteBatch(kind PolicyKind, subjectIDs []string) error
	// List returns all records of the given kind.
	List(kind PolicyKind) ([]TimedStatusRecord, error)
	// Load initializes the backend.
	Load() error
}
