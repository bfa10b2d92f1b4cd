package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sejins/studyhub/internal/dto"
	apierrors "github.com/sejins/studyhub/internal/errors"
	"github.com/sejins/studyhub/internal/middleware"
	"github.com/sejins/studyhub/internal/models"
	"github.com/sejins/studyhub/internal/services"
)

// StudySettingsHandler coordinates manager-only study HTTP handlers. All
// routes are guarded by RequireStudyManager, which loads the study into
// the request context.
type StudySettingsHandler struct {
	studyService *services.StudyService
}

// NewStudySettingsHandler creates a new StudySettingsHandler.
func NewStudySettingsHandler(studyService *services.StudyService) *StudySettingsHandler {
	return &StudySettingsHandler{
		studyService: studyService,
	}
}

// UpdateDescription updates the study descriptions.
func (h *StudySettingsHandler) UpdateDescription(c *gin.Context) {
	type DescriptionRequest struct {
		ShortDescription string `json:"short_description" binding:"max=255"`
		FullDescription  string `json:"full_description"`
	}

	var req DescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	study, _ := middleware.GetStudy(c)
	if err := h.studyService.UpdateDescription(&study, services.UpdateDescriptionInput{
		ShortDescription: req.ShortDescription,
		FullDescription:  req.FullDescription,
	}); err != nil {
		respondStudyError(c, err)
		return
	}

	c.JSON(http.StatusOK, studyDTO(c, &study))
}

// UpdateImage replaces the study banner image.
func (h *StudySettingsHandler) UpdateImage(c *gin.Context) {
	type ImageRequest struct {
		Image string `json:"image" binding:"required"`
	}

	var req ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	study, _ := middleware.GetStudy(c)
	if err := h.studyService.UpdateImage(&study, req.Image); err != nil {
		respondStudyError(c, err)
		return
	}

	c.JSON(http.StatusOK, studyDTO(c, &study))
}

// SetBanner toggles whether the study renders its banner image.
func (h *StudySettingsHandler) SetBanner(c *gin.Context) {
	type BannerRequest struct {
		Enabled *bool `json:"enabled" binding:"required"`
	}

	var req BannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	study, _ := middleware.GetStudy(c)
	if err := h.studyService.SetBanner(&study, *req.Enabled); err != nil {
		respondStudyError(c, err)
		return
	}

	c.JSON(http.StatusOK, studyDTO(c, &study))
}

// UpdateTitle renames the study.
func (h *StudySettingsHandler) UpdateTitle(c *gin.Context) {
	type TitleRequest struct {
		Title string `json:"title" binding:"required,max=100"`
	}

	var req TitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	study, _ := middleware.GetStudy(c)
	if err := h.studyService.UpdateTitle(&study, req.Title); err != nil {
		respondStudyError(c, err)
		return
	}

	c.JSON(http.StatusOK, studyDTO(c, &study))
}

// UpdatePath moves the study to a new URL path.
func (h *StudySettingsHandler) UpdatePath(c *gin.Context) {
	type PathRequest struct {
		Path string `json:"path" binding:"required,max=100"`
	}

	var req PathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	study, _ := middleware.GetStudy(c)
	if err := h.studyService.UpdatePath(&study, req.Path); err != nil {
		respondStudyError(c, err)
		return
	}

	c.JSON(http.StatusOK, studyDTO(c, &study))
}

// Publish makes the study publicly visible.
func (h *StudySettingsHandler) Publish(c *gin.Context) {
	study, _ := middleware.GetStudy(c)
	if err := h.studyService.Publish(&study); err != nil {
		respondStudyError(c, err)
		return
	}

	c.JSON(http.StatusOK, studyDTO(c, &study))
}

// Close terminates the study.
func (h *StudySettingsHandler) Close(c *gin.Context) {
	study, _ := middleware.GetStudy(c)
	if err := h.studyService.Close(&study); err != nil {
		respondStudyError(c, err)
		return
	}

	c.JSON(http.StatusOK, studyDTO(c, &study))
}

// StartRecruit opens member recruiting.
func (h *StudySettingsHandler) StartRecruit(c *gin.Context) {
	study, _ := middleware.GetStudy(c)
	if err := h.studyService.StartRecruit(&study); err != nil {
		respondStudyError(c, err)
		return
	}

	c.JSON(http.StatusOK, studyDTO(c, &study))
}

// StopRecruit closes member recruiting.
func (h *StudySettingsHandler) StopRecruit(c *gin.Context) {
	study, _ := middleware.GetStudy(c)
	if err := h.studyService.StopRecruit(&study); err != nil {
		respondStudyError(c, err)
		return
	}

	c.JSON(http.StatusOK, studyDTO(c, &study))
}

// AddTag attaches a subject tag to the study.
func (h *StudySettingsHandler) AddTag(c *gin.Context) {
	type TagRequest struct {
		Title string `json:"title" binding:"required,max=50"`
	}

	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	study, _ := middleware.GetStudy(c)
	if err := h.studyService.AddTag(&study, req.Title); err != nil {
		respondStudyError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RemoveTag detaches a subject tag from the study.
func (h *StudySettingsHandler) RemoveTag(c *gin.Context) {
	type TagRequest struct {
		Title string `json:"title" binding:"required,max=50"`
	}

	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	study, _ := middleware.GetStudy(c)
	if err := h.studyService.RemoveTag(&study, req.Title); err != nil {
		respondStudyError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AddZone attaches an activity zone to the study.
func (h *StudySettingsHandler) AddZone(c *gin.Context) {
	type ZoneRequest struct {
		ZoneID uint64 `json:"zone_id" binding:"required"`
	}

	var req ZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	study, _ := middleware.GetStudy(c)
	if err := h.studyService.AddZone(&study, req.ZoneID); err != nil {
		respondStudyError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RemoveZone detaches an activity zone from the study.
func (h *StudySettingsHandler) RemoveZone(c *gin.Context) {
	type ZoneRequest struct {
		ZoneID uint64 `json:"zone_id" binding:"required"`
	}

	var req ZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	study, _ := middleware.GetStudy(c)
	if err := h.studyService.RemoveZone(&study, req.ZoneID); err != nil {
		respondStudyError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RemoveStudy deletes an unpublished study.
func (h *StudySettingsHandler) RemoveStudy(c *gin.Context) {
	accountID, _ := middleware.GetAccountID(c)

	if err := h.studyService.RemoveStudy(accountID, c.Param("path")); err != nil {
		respondStudyError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func studyDTO(c *gin.Context, study *models.Study) dto.StudyDTO {
	accountID, _ := middleware.GetAccountID(c)
	return dto.ToStudyDTO(study, accountID)
}
