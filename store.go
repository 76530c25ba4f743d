package main

import (
	"errors"

	"silayan/models"

	"gorm.io/gorm"
)

// ErrNotFound is returned by SubmissionStore lookups for unknown ids.
var ErrNotFound = errors.New("submission not found")

// SubmissionStore is the persistence surface of the status-update workflow.
// Each request re-reads from the store; nothing is cached.
type SubmissionStore interface {
	// FindSubmission loads one submission or returns ErrNotFound.
	FindSubmission(id uint) (*models.Submission, error)
	// UpdateStatus performs a conditional single-row update
	// (id AND current status must still match) and reports whether a row
	// actually changed. A false return means a concurrent writer won.
	UpdateStatus(id uint, oldStatus, newStatus string) (bool, error)
	// CreateLog persists one immutable notification audit row.
	CreateLog(entry *models.NotificationLog) error
}

type gormStore struct {
	db *gorm.DB
}

func newGormStore(db *gorm.DB) *gormStore {
	return &gormStore{db: db}
}

func (s *gormStore) FindSubmission(id uint) (*models.Submission, error) {
	var sub models.Submission
	if err := s.db.First(&sub, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (s *gormStore) UpdateStatus(id uint, oldStatus, newStatus string) (bool, error) {
	res := s.db.Model(&models.Submission{}).
		Where("id = ? AND status = ?", id, oldStatus).
		Update("status", newStatus)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *gormStore) CreateLog(entry *models.NotificationLog) error {
	return s.db.Create(entry).Error
}
