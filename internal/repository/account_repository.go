package repository

import (
	"github.com/sejins/studyhub/internal/models"
	"gorm.io/gorm"
)

// GormAccountRepository is a GORM implementation of AccountRepository
type GormAccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &GormAccountRepository{db: db}
}

// Create creates a new account
func (r *GormAccountRepository) Create(account *models.Account) error {
	return r.db.Create(account).Error
}

// FindByID finds an account by ID
func (r *GormAccountRepository) FindByID(id uint64) (*models.Account, error) {
	var account models.Account
	if err := r.db.First(&account, id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// FindByEmail finds an account by email
func (r *GormAccountRepository) FindByEmail(email string) (*models.Account, error) {
	var account models.Account
	if err := r.db.Where("email = ?", email).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// FindByNickname finds an account by nickname
func (r *GormAccountRepository) FindByNickname(nickname string) (*models.Account, error) {
	var account models.Account
	if err := r.db.Where("nickname = ?", nickname).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// FindByIDWithInterests finds an account with tags and zones preloaded
func (r *GormAccountRepository) FindByIDWithInterests(id uint64) (*models.Account, error) {
	var account models.Account
	if err := r.db.Preload("Tags").Preload("Zones").First(&account, id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// FindByInterests lists verified accounts whose tags and zones intersect
// the given sets. Used for study-published notification fanout.
func (r *GormAccountRepository) FindByInterests(tagIDs, zoneIDs []uint64) ([]models.Account, error) {
	if len(tagIDs) == 0 || len(zoneIDs) == 0 {
		return nil, nil
	}

	var accounts []models.Account
	err := r.db.
		Distinct("accounts.*").
		Joins("JOIN account_tags ON account_tags.account_id = accounts.id").
		Joins("JOIN account_zones ON account_zones.account_id = accounts.id").
		Where("accounts.email_verified = ?", true).
		Where("account_tags.tag_id IN ?", tagIDs).
		Where("account_zones.zone_id IN ?", zoneIDs).
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// Update persists changes to an account
func (r *GormAccountRepository) Update(account *models.Account) error {
	return r.db.Save(account).Error
}

// AddTag adds a tag to the account's interest set
func (r *GormAccountRepository) AddTag(account *models.Account, tag models.Tag) error {
	return r.db.Model(account).Association("Tags").Append(&tag)
}

// RemoveTag removes a tag from the account's interest set
func (r *GormAccountRepository) RemoveTag(account *models.Account, tag models.Tag) error {
	return r.db.Model(account).Association("Tags").Delete(&tag)
}

// AddZone adds a zone to the account's interest set
func (r *GormAccountRepository) AddZone(account *models.Account, zone models.Zone) error {
	return r.db.Model(account).Association("Zones").Append(&zone)
}

// RemoveZone removes a zone from the account's interest set
func (r *GormAccountRepository) RemoveZone(account *models.Account, zone models.Zone) error {
	return r.db.Model(account).Association("Zones").Delete(&zone)
}
