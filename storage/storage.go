package storage

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wardenhq/warden/storage/model"
)

// Storage is a GORM-based storage implementation for everything that
// outlives a timed status record: audit events, authorization levels and
// admin users.
type Storage struct {
	db         *gorm.DB
	userParams Argon2idParams
}

var models = []any{
	&model.AuditEvent{},
	&model.AuthorizationEntry{},
	&model.User{},
}

// NewStorage creates a new GORM-based storage
func NewStorage(config Config) (*Storage, error) {
	db, err := Connect(config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto migrate the schemas
	if err = db.AutoMigrate(models...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// Fill user hash params with defaults if zero values
	params := config.UsersHash
	if params.Time == 0 {
		params = defaultArgon2idParams()
	}

	return &Storage{
		db:         db,
		userParams: params,
	}, nil
}

// EventsStorage returns an EventsStorage
func (s *Storage) EventsStorage() *EventsStorage {
	return &EventsStorage{db: s.db}
}

// AuthzStorage returns an AuthzStorage
func (s *Storage) AuthzStorage() *AuthzStorage {
	return &AuthzStorage{db: s.db}
}

// Users storage is implemented in users_storage.go

// EventsStorage implements model.EventStore using GORM
type EventsStorage struct {
	db *gorm.DB
}

// Append implements model.EventStore
func (s *EventsStorage) Append(event model.AuditEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}
	return s.db.Create(&event).Error
}

// List implements model.EventStore
func (s *EventsStorage) List(subjectID, kind string, limit int) ([]model.AuditEvent, error) {
	q := s.db.Model(&model.AuditEvent{}).Order("timestamp desc, id desc")
	if subjectID != "" {
		q = q.Where("subject_id = ?", subjectID)
	}
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var events []model.AuditEvent
	if err := q.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
