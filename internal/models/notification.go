package models

import "time"

// NotificationType categorizes a notification for filtering in the UI.
type NotificationType string

const (
	NotificationStudyCreated     NotificationType = "STUDY_CREATED"
	NotificationStudyUpdated     NotificationType = "STUDY_UPDATED"
	NotificationEnrollmentResult NotificationType = "EVENT_ENROLLMENT"
)

// Notification is an in-app message for one account.
type Notification struct {
	ID        uint64           `gorm:"primarykey" json:"id"`
	Title     string           `gorm:"type:varchar(255);not null" json:"title"`
	Link      string           `gorm:"type:varchar(255)" json:"link"`
	Message   string           `gorm:"type:text" json:"message"`
	Checked   bool             `gorm:"not null;default:false;index" json:"checked"`
	AccountID uint64           `gorm:"not null;index" json:"account_id"`
	Type      NotificationType `gorm:"type:varchar(30);not null" json:"type"`
	CreatedAt time.Time        `json:"created_at"`
}
