package repository

import (
	"github.com/sejins/studyhub/internal/models"
	"gorm.io/gorm"
)

// GormZoneRepository is a GORM implementation of ZoneRepository
type GormZoneRepository struct {
	db *gorm.DB
}

// NewZoneRepository creates a new ZoneRepository
func NewZoneRepository(db *gorm.DB) ZoneRepository {
	return &GormZoneRepository{db: db}
}

// FindByID finds a zone by ID
func (r *GormZoneRepository) FindByID(id uint64) (*models.Zone, error) {
	var zone models.Zone
	if err := r.db.First(&zone, id).Error; err != nil {
		return nil, err
	}
	return &zone, nil
}

// List returns all zones
func (r *GormZoneRepository) List() ([]models.Zone, error) {
	var zones []models.Zone
	if err := r.db.Order("city ASC").Find(&zones).Error; err != nil {
		return nil, err
	}
	return zones, nil
}
