package repository

import (
	"github.com/sejins/studyhub/internal/models"
	"gorm.io/gorm"
)

// GormNotificationRepository is a GORM implementation of NotificationRepository
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Create creates a notification
func (r *GormNotificationRepository) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// CreateBatch creates many notifications in one statement
func (r *GormNotificationRepository) CreateBatch(notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.Create(&notifications).Error
}

// ListByAccount lists an account's notifications, newest first
func (r *GormNotificationRepository) ListByAccount(accountID uint64, checked bool) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.
		Where("account_id = ? AND checked = ?", accountID, checked).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// CountUnchecked counts unread notifications
func (r *GormNotificationRepository) CountUnchecked(accountID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("account_id = ? AND checked = ?", accountID, false).
		Count(&count).Error
	return count, err
}

// MarkChecked marks the given notifications as read
func (r *GormNotificationRepository) MarkChecked(accountID uint64, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.Notification{}).
		Where("account_id = ? AND id IN ?", accountID, ids).
		Update("checked", true).Error
}

// DeleteChecked removes all read notifications of the account
func (r *GormNotificationRepository) DeleteChecked(accountID uint64) error {
	return r.db.
		Where("account_id = ? AND checked = ?", accountID, true).
		Delete(&models.Notification{}).Error
}
