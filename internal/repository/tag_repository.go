package repository

import (
	"github.com/sejins/studyhub/internal/models"
	"gorm.io/gorm"
)

// GormTagRepository is a GORM implementation of TagRepository
type GormTagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new TagRepository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &GormTagRepository{db: db}
}

// FindOrCreateByTitle returns the tag with the title, creating it if needed
func (r *GormTagRepository) FindOrCreateByTitle(title string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.Where(models.Tag{Title: title}).FirstOrCreate(&tag).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// FindByTitle finds a tag by title
func (r *GormTagRepository) FindByTitle(title string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.Where("title = ?", title).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// List returns all tags
func (r *GormTagRepository) List() ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.Order("title ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}
