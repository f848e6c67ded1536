package storage

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wardenhq/warden/storage/model"
)

// AuthzStorage implements model.AuthzStore using GORM
type AuthzStorage struct {
	db *gorm.DB
}

// Set implements model.AuthzStore; the previous decision for the subject,
// if any, is replaced.
func (s *AuthzStorage) Set(entry model.AuthorizationEntry) error {
	return s.db.Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "subject_id"}},
			DoUpdates: clause.AssignmentColumns(
				[]string{
					"decision",
					"access_level",
					"authorized_by",
					"updated_at",
				},
			),
		},
	).Create(&entry).Error
}

// Level implements model.AuthzStore
func (s *AuthzStorage) Level(subjectID string) (int, error) {
	var entry model.AuthorizationEntry
	err := s.db.Where("subject_id = ?", subjectID).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	if entry.Decision != model.AuthzAccepted {
		return 0, nil
	}
	return entry.AccessLevel, nil
}

// List implements model.AuthzStore
func (s *AuthzStorage) List() ([]model.AuthorizationEntry, error) {
	var entries []model.AuthorizationEntry
	if err := s.db.Order("subject_id").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Delete implements model.AuthzStore
func (s *AuthzStorage) Delete(subjectID string) error {
	res := s.db.Where("subject_id = ?", subjectID).Delete(&model.AuthorizationEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.NotFoundErrorFmt("no authorization entry for subject %s", subjectID)
	}
	return nil
}
