package repository

import (
	"github.com/sejins/studyhub/internal/models"
	"gorm.io/gorm"
)

// GormEventRepository is a GORM implementation of EventRepository
type GormEventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &GormEventRepository{db: db}
}

// Create creates a new event
func (r *GormEventRepository) Create(event *models.Event) error {
	return r.db.Create(event).Error
}

// FindByID finds an event with its enrollments in enrolledAt order.
// The enrollment engine relies on that ordering for waitlist promotion.
func (r *GormEventRepository) FindByID(id uint64) (*models.Event, error) {
	var event models.Event
	err := r.db.
		Preload("Enrollments", func(db *gorm.DB) *gorm.DB {
			return db.Order("enrollments.enrolled_at ASC")
		}).
		Preload("Enrollments.Account").
		Preload("CreatedBy").
		First(&event, id).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// ListByStudy lists a study's events ordered by start time
func (r *GormEventRepository) ListByStudy(studyID uint64) ([]models.Event, error) {
	var events []models.Event
	err := r.db.
		Preload("Enrollments", func(db *gorm.DB) *gorm.DB {
			return db.Order("enrollments.enrolled_at ASC")
		}).
		Where("study_id = ?", studyID).
		Order("starts_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// Update persists scalar field changes
func (r *GormEventRepository) Update(event *models.Event) error {
	return r.db.Omit("Enrollments", "CreatedBy").Save(event).Error
}

// Delete removes an event and its enrollments in a transaction
func (r *GormEventRepository) Delete(event *models.Event) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", event.ID).Delete(&models.Enrollment{}).Error; err != nil {
			return err
		}
		return tx.Delete(event).Error
	})
}
