package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sejins/studyhub/internal/dto"
	apierrors "github.com/sejins/studyhub/internal/errors"
	"github.com/sejins/studyhub/internal/middleware"
	"github.com/sejins/studyhub/internal/models"
	"github.com/sejins/studyhub/internal/repository"
	"github.com/sejins/studyhub/internal/services"
	"github.com/sejins/studyhub/internal/utils"
)

// StudyHandler coordinates study HTTP handlers.
type StudyHandler struct {
	studyService   *services.StudyService
	accountService *services.AccountService
}

// NewStudyHandler creates a new StudyHandler.
func NewStudyHandler(studyService *services.StudyService, accountService *services.AccountService) *StudyHandler {
	return &StudyHandler{
		studyService:   studyService,
		accountService: accountService,
	}
}

// CreateStudy creates a draft study managed by the current account.
func (h *StudyHandler) CreateStudy(c *gin.Context) {
	type CreateStudyRequest struct {
		Path             string `json:"path" binding:"required,max=100"`
		Title            string `json:"title" binding:"required,max=100"`
		ShortDescription string `json:"short_description" binding:"max=255"`
		FullDescription  string `json:"full_description"`
	}

	accountID, _ := middleware.GetAccountID(c)

	var req CreateStudyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	creator, err := h.accountService.GetAccount(accountID)
	if err != nil {
		respondAccountError(c, err)
		return
	}

	study, err := h.studyService.CreateNewStudy(*creator, services.CreateStudyInput{
		Path:             req.Path,
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		FullDescription:  req.FullDescription,
	})
	if err != nil {
		respondStudyError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToStudyDTO(study, accountID))
}

// GetStudy returns a study by its path.
func (h *StudyHandler) GetStudy(c *gin.Context) {
	accountID, _ := middleware.GetAccountID(c)

	study, err := h.studyService.GetStudy(c.Param("path"))
	if err != nil {
		respondStudyError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToStudyDTO(study, accountID))
}

// SearchStudies lists published studies matching an optional keyword.
func (h *StudyHandler) SearchStudies(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	studies, total, err := h.studyService.SearchStudies(repository.StudySearchFilter{
		Keyword:  c.Query("keyword"),
		Page:     params.Page,
		PageSize: params.Limit,
	})
	if err != nil {
		respondStudyError(c, err)
		return
	}

	resp := dto.StudyListResponse{
		Studies:    make([]dto.StudyListItemDTO, 0, len(studies)),
		Page:       params.Page,
		PageSize:   params.Limit,
		TotalCount: total,
	}
	for i := range studies {
		resp.Studies = append(resp.Studies, dto.ToStudyListItemDTO(&studies[i]))
	}

	c.JSON(http.StatusOK, resp)
}

// JoinStudy enrolls the current account as a study member.
func (h *StudyHandler) JoinStudy(c *gin.Context) {
	accountID, _ := middleware.GetAccountID(c)

	account, err := h.accountService.GetAccount(accountID)
	if err != nil {
		respondAccountError(c, err)
		return
	}

	study, err := h.studyService.JoinStudy(*account, c.Param("path"))
	if err != nil {
		respondStudyError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToStudyDTO(study, accountID))
}

// LeaveStudy removes the current account from the study members.
func (h *StudyHandler) LeaveStudy(c *gin.Context) {
	accountID, _ := middleware.GetAccountID(c)

	account, err := h.accountService.GetAccount(accountID)
	if err != nil {
		respondAccountError(c, err)
		return
	}

	study, err := h.studyService.LeaveStudy(*account, c.Param("path"))
	if err != nil {
		respondStudyError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToStudyDTO(study, accountID))
}

func respondStudyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrStudyNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrStudyPathTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidStudyPath):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAccessDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrStudyNotRemovable):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrTagNotFound),
		errors.Is(err, services.ErrZoneNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, models.ErrInvalidStateTransition):
		apierrors.InvalidTransition(c, err.Error())
	case errors.Is(err, models.ErrNotJoinable),
		errors.Is(err, models.ErrNotRemovable):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
