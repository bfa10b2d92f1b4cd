package dto

import (
	"time"

	"github.com/sejins/studyhub/internal/models"
)

// NotificationDTO represents a notification in API responses
type NotificationDTO struct {
	ID        uint64                  `json:"id"`
	Title     string                  `json:"title"`
	Link      string                  `json:"link,omitempty"`
	Message   string                  `json:"message,omitempty"`
	Checked   bool                    `json:"checked"`
	Type      models.NotificationType `json:"type"`
	CreatedAt time.Time               `json:"created_at"`
}

// NotificationListResponse represents a list of notifications with the
// unchecked count for badge rendering
type NotificationListResponse struct {
	Notifications  []NotificationDTO `json:"notifications"`
	UncheckedCount int64             `json:"unchecked_count"`
}

// ToNotificationDTO converts a notification model to its API representation
func ToNotificationDTO(notification *models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        notification.ID,
		Title:     notification.Title,
		Link:      notification.Link,
		Message:   notification.Message,
		Checked:   notification.Checked,
		Type:      notification.Type,
		CreatedAt: notification.CreatedAt,
	}
}
