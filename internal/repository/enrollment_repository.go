package repository

import (
	"github.com/sejins/studyhub/internal/models"
	"gorm.io/gorm"
)

// GormEnrollmentRepository is a GORM implementation of EnrollmentRepository
type GormEnrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &GormEnrollmentRepository{db: db}
}

// Create creates a new enrollment
func (r *GormEnrollmentRepository) Create(enrollment *models.Enrollment) error {
	return r.db.Create(enrollment).Error
}

// FindByID finds an enrollment by ID
func (r *GormEnrollmentRepository) FindByID(id uint64) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := r.db.Preload("Account").First(&enrollment, id).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// FindByEventAndAccount finds the enrollment for an (event, account) pair
func (r *GormEnrollmentRepository) FindByEventAndAccount(eventID, accountID uint64) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.db.Where("event_id = ? AND account_id = ?", eventID, accountID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// ExistsByEventAndAccount reports whether the pair is already enrolled
func (r *GormEnrollmentRepository) ExistsByEventAndAccount(eventID, accountID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.Enrollment{}).
		Where("event_id = ? AND account_id = ?", eventID, accountID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save persists changes to an enrollment
func (r *GormEnrollmentRepository) Save(enrollment *models.Enrollment) error {
	return r.db.Omit("Account").Save(enrollment).Error
}

// SaveAll persists a batch of promoted enrollments atomically
func (r *GormEnrollmentRepository) SaveAll(enrollments []*models.Enrollment) error {
	if len(enrollments) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, enrollment := range enrollments {
			if err := tx.Omit("Account").Save(enrollment).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes an enrollment
func (r *GormEnrollmentRepository) Delete(enrollment *models.Enrollment) error {
	return r.db.Delete(enrollment).Error
}
