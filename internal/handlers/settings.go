package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sejins/studyhub/internal/dto"
	apierrors "github.com/sejins/studyhub/internal/errors"
	"github.com/sejins/studyhub/internal/middleware"
	"github.com/sejins/studyhub/internal/services"
)

// SettingsHandler coordinates account-settings HTTP handlers.
type SettingsHandler struct {
	accountService *services.AccountService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(accountService *services.AccountService) *SettingsHandler {
	return &SettingsHandler{
		accountService: accountService,
	}
}

// UpdateProfile updates the authenticated account's profile fields.
func (h *SettingsHandler) UpdateProfile(c *gin.Context) {
	type ProfileRequest struct {
		Bio          string `json:"bio" binding:"max=255"`
		URL          string `json:"url" binding:"max=255"`
		Occupation   string `json:"occupation" binding:"max=100"`
		Location     string `json:"location" binding:"max=100"`
		ProfileImage string `json:"profile_image"`
	}

	accountID, _ := middleware.GetAccountID(c)

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	account, err := h.accountService.UpdateProfile(accountID, services.ProfileInput{
		Bio:          req.Bio,
		URL:          req.URL,
		Occupation:   req.Occupation,
		Location:     req.Location,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		respondAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountDTO(account))
}

// UpdatePassword replaces the authenticated account's password.
func (h *SettingsHandler) UpdatePassword(c *gin.Context) {
	type PasswordRequest struct {
		NewPassword string `json:"new_password" binding:"required"`
	}

	accountID, _ := middleware.GetAccountID(c)

	var req PasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.accountService.UpdatePassword(accountID, req.NewPassword); err != nil {
		respondAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password updated",
	})
}

// UpdateNickname changes the authenticated account's nickname.
func (h *SettingsHandler) UpdateNickname(c *gin.Context) {
	type NicknameRequest struct {
		Nickname string `json:"nickname" binding:"required,min=3,max=20"`
	}

	accountID, _ := middleware.GetAccountID(c)

	var req NicknameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	account, err := h.accountService.UpdateNickname(accountID, req.Nickname)
	if err != nil {
		respondAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountDTO(account))
}

// GetNotificationPreferences returns the account's notification toggles.
func (h *SettingsHandler) GetNotificationPreferences(c *gin.Context) {
	accountID, _ := middleware.GetAccountID(c)

	account, err := h.accountService.GetAccount(accountID)
	if err != nil {
		respondAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToNotificationPreferencesDTO(account))
}

// UpdateNotificationPreferences replaces the account's notification toggles.
func (h *SettingsHandler) UpdateNotificationPreferences(c *gin.Context) {
	type PreferencesRequest struct {
		StudyCreatedByEmail          bool `json:"study_created_by_email"`
		StudyCreatedByWeb            bool `json:"study_created_by_web"`
		StudyEnrollmentResultByEmail bool `json:"study_enrollment_result_by_email"`
		StudyEnrollmentResultByWeb   bool `json:"study_enrollment_result_by_web"`
		StudyUpdatedByEmail          bool `json:"study_updated_by_email"`
		StudyUpdatedByWeb            bool `json:"study_updated_by_web"`
	}

	accountID, _ := middleware.GetAccountID(c)

	var req PreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	account, err := h.accountService.UpdateNotificationPreferences(accountID, services.NotificationPreferencesInput{
		StudyCreatedByEmail:          req.StudyCreatedByEmail,
		StudyCreatedByWeb:            req.StudyCreatedByWeb,
		StudyEnrollmentResultByEmail: req.StudyEnrollmentResultByEmail,
		StudyEnrollmentResultByWeb:   req.StudyEnrollmentResultByWeb,
		StudyUpdatedByEmail:          req.StudyUpdatedByEmail,
		StudyUpdatedByWeb:            req.StudyUpdatedByWeb,
	})
	if err != nil {
		respondAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToNotificationPreferencesDTO(account))
}

// AddTag adds a tag of interest to the authenticated account, creating
// the tag when it does not exist yet.
func (h *SettingsHandler) AddTag(c *gin.Context) {
	type TagRequest struct {
		Title string `json:"title" binding:"required,max=50"`
	}

	accountID, _ := middleware.GetAccountID(c)

	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.accountService.AddTag(accountID, req.Title); err != nil {
		respondAccountError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RemoveTag removes a tag of interest from the authenticated account.
func (h *SettingsHandler) RemoveTag(c *gin.Context) {
	type TagRequest struct {
		Title string `json:"title" binding:"required,max=50"`
	}

	accountID, _ := middleware.GetAccountID(c)

	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.accountService.RemoveTag(accountID, req.Title); err != nil {
		respondAccountError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AddZone adds a zone of interest to the authenticated account.
func (h *SettingsHandler) AddZone(c *gin.Context) {
	accountID, _ := middleware.GetAccountID(c)

	zoneID, err := strconv.ParseUint(c.Param("zoneId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid zone ID")
		return
	}

	if err := h.accountService.AddZone(accountID, zoneID); err != nil {
		respondAccountError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RemoveZone removes a zone of interest from the authenticated account.
func (h *SettingsHandler) RemoveZone(c *gin.Context) {
	accountID, _ := middleware.GetAccountID(c)

	zoneID, err := strconv.ParseUint(c.Param("zoneId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid zone ID")
		return
	}

	if err := h.accountService.RemoveZone(accountID, zoneID); err != nil {
		respondAccountError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
