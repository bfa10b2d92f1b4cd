package repository

import (
	"github.com/sejins/studyhub/internal/database"
	"github.com/sejins/studyhub/internal/models"
	"github.com/sejins/studyhub/internal/utils"
	"gorm.io/gorm"
)

// GormStudyRepository is a GORM implementation of StudyRepository
type GormStudyRepository struct {
	db *gorm.DB
}

// NewStudyRepository creates a new StudyRepository
func NewStudyRepository(db *gorm.DB) StudyRepository {
	return &GormStudyRepository{db: db}
}

// Create creates a study together with its manager association
func (r *GormStudyRepository) Create(study *models.Study) error {
	return r.db.Create(study).Error
}

// FindByPath finds a study by its path slug with all relations
func (r *GormStudyRepository) FindByPath(path string) (*models.Study, error) {
	var study models.Study
	err := r.db.
		Preload("Managers").
		Preload("Members").
		Preload("Tags").
		Preload("Zones").
		Where("path = ?", path).
		First(&study).Error
	if err != nil {
		return nil, err
	}
	return &study, nil
}

// FindByPathWithManagers finds a study with only managers preloaded
func (r *GormStudyRepository) FindByPathWithManagers(path string) (*models.Study, error) {
	var study models.Study
	err := r.db.
		Preload("Managers").
		Where("path = ?", path).
		First(&study).Error
	if err != nil {
		return nil, err
	}
	return &study, nil
}

// FindByPathWithMembers finds a study with managers and members preloaded
func (r *GormStudyRepository) FindByPathWithMembers(path string) (*models.Study, error) {
	var study models.Study
	err := r.db.
		Preload("Managers").
		Preload("Members").
		Where("path = ?", path).
		First(&study).Error
	if err != nil {
		return nil, err
	}
	return &study, nil
}

// ExistsByPath reports whether a study with the path exists
func (r *GormStudyRepository) ExistsByPath(path string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Study{}).Where("path = ?", path).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update persists scalar field changes
func (r *GormStudyRepository) Update(study *models.Study) error {
	return r.db.Omit("Managers", "Members", "Tags", "Zones").Save(study).Error
}

// Delete removes a study, its events and their enrollments in a transaction
func (r *GormStudyRepository) Delete(study *models.Study) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var eventIDs []uint64
		if err := tx.Model(&models.Event{}).Where("study_id = ?", study.ID).
			Pluck("id", &eventIDs).Error; err != nil {
			return err
		}

		if len(eventIDs) > 0 {
			if err := tx.Where("event_id IN ?", eventIDs).Delete(&models.Enrollment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("study_id = ?", study.ID).Delete(&models.Event{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(study).Association("Managers").Clear(); err != nil {
			return err
		}
		if err := tx.Model(study).Association("Members").Clear(); err != nil {
			return err
		}
		if err := tx.Model(study).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Model(study).Association("Zones").Clear(); err != nil {
			return err
		}

		return tx.Delete(study).Error
	})
}

// ReplaceMembers synchronizes the member association with the study's
// in-memory member set
func (r *GormStudyRepository) ReplaceMembers(study *models.Study) error {
	members := make([]*models.Account, len(study.Members))
	for i := range study.Members {
		members[i] = &study.Members[i]
	}
	return r.db.Model(study).Association("Members").Replace(members)
}

// AddTag adds a tag to the study
func (r *GormStudyRepository) AddTag(study *models.Study, tag models.Tag) error {
	return r.db.Model(study).Association("Tags").Append(&tag)
}

// RemoveTag removes a tag from the study
func (r *GormStudyRepository) RemoveTag(study *models.Study, tag models.Tag) error {
	return r.db.Model(study).Association("Tags").Delete(&tag)
}

// AddZone adds a zone to the study
func (r *GormStudyRepository) AddZone(study *models.Study, zone models.Zone) error {
	return r.db.Model(study).Association("Zones").Append(&zone)
}

// RemoveZone removes a zone from the study
func (r *GormStudyRepository) RemoveZone(study *models.Study, zone models.Zone) error {
	return r.db.Model(study).Association("Zones").Delete(&zone)
}

// Search lists published studies matching the keyword over title and tag
// titles, newest first
func (r *GormStudyRepository) Search(filter StudySearchFilter) ([]models.Study, int64, error) {
	base := func() *gorm.DB {
		q := r.db.Model(&models.Study{}).
			Where("studies.published = ? AND studies.closed = ?", true, false)
		if filter.Keyword != "" {
			pattern := "%" + filter.Keyword + "%"
			q = q.
				Joins("LEFT JOIN study_tags ON study_tags.study_id = studies.id").
				Joins("LEFT JOIN tags ON tags.id = study_tags.tag_id").
				Where("studies.title LIKE ? OR tags.title LIKE ?", pattern, pattern)
		}
		return q
	}

	// Count over distinct ids; the tag join can produce duplicate study rows.
	var total int64
	if err := base().Distinct("studies.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base()
	if filter.Keyword != "" {
		query = query.Distinct("studies.*")
	}

	var studies []models.Study
	params := utils.PaginationParams{
		Page:   filter.Page,
		Limit:  filter.PageSize,
		Offset: (filter.Page - 1) * filter.PageSize,
	}
	err := query.
		Preload("Tags").
		Preload("Zones").
		Order("studies.published_at DESC").
		Scopes(database.Paginate(params)).
		Find(&studies).Error
	if err != nil {
		return nil, 0, err
	}

	return studies, total, nil
}
