package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sejins/studyhub/internal/dto"
	apierrors "github.com/sejins/studyhub/internal/errors"
	"github.com/sejins/studyhub/internal/middleware"
	"github.com/sejins/studyhub/internal/services"
)

// NotificationHandler coordinates in-app notification HTTP handlers.
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// ListNotifications returns the account's notifications, newest first.
// Pass checked=true to list already-read ones instead.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	accountID, _ := middleware.GetAccountID(c)
	checked := c.Query("checked") == "true"

	notifications, err := h.notificationService.ListNotifications(accountID, checked)
	if err != nil {
		apierrors.InternalError(c, "Failed to list notifications")
		return
	}

	unchecked, err := h.notificationService.CountUnchecked(accountID)
	if err != nil {
		apierrors.InternalError(c, "Failed to count notifications")
		return
	}

	resp := dto.NotificationListResponse{
		Notifications:  make([]dto.NotificationDTO, 0, len(notifications)),
		UncheckedCount: unchecked,
	}
	for i := range notifications {
		resp.Notifications = append(resp.Notifications, dto.ToNotificationDTO(&notifications[i]))
	}

	c.JSON(http.StatusOK, resp)
}

// MarkChecked marks the given notifications as read.
func (h *NotificationHandler) MarkChecked(c *gin.Context) {
	type MarkCheckedRequest struct {
		IDs []uint64 `json:"ids" binding:"required,min=1"`
	}

	accountID, _ := middleware.GetAccountID(c)

	var req MarkCheckedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.notificationService.MarkChecked(accountID, req.IDs); err != nil {
		apierrors.InternalError(c, "Failed to mark notifications")
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteChecked removes all read notifications of the account.
func (h *NotificationHandler) DeleteChecked(c *gin.Context) {
	accountID, _ := middleware.GetAccountID(c)

	if err := h.notificationService.DeleteChecked(accountID); err != nil {
		apierrors.InternalError(c, "Failed to delete notifications")
		return
	}

	c.Status(http.StatusNoContent)
}
