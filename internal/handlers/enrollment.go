package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sejins/studyhub/internal/dto"
	apierrors "github.com/sejins/studyhub/internal/errors"
	"github.com/sejins/studyhub/internal/middleware"
	"github.com/sejins/studyhub/internal/models"
	"github.com/sejins/studyhub/internal/services"
)

// EnrollmentHandler coordinates enrollment HTTP handlers. Enroll and
// Disenroll act for the current account; the remaining handlers are
// manager actions guarded by RequireStudyManager.
type EnrollmentHandler struct {
	eventService   *services.EventService
	studyService   *services.StudyService
	accountService *services.AccountService
}

// NewEnrollmentHandler creates a new EnrollmentHandler.
func NewEnrollmentHandler(eventService *services.EventService, studyService *services.StudyService, accountService *services.AccountService) *EnrollmentHandler {
	return &EnrollmentHandler{
		eventService:   eventService,
		studyService:   studyService,
		accountService: accountService,
	}
}

// Enroll adds the current account to the event. Under FCFS the
// enrollment is accepted immediately while spots remain.
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	accountID, _ := middleware.GetAccountID(c)

	account, err := h.accountService.GetAccount(accountID)
	if err != nil {
		respondAccountError(c, err)
		return
	}

	event, ok := h.loadEvent(c)
	if !ok {
		return
	}

	if err := h.eventService.NewEnrollment(event, *account); err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventDTO(event, accountID, time.Now()))
}

// Disenroll cancels the current account's enrollment. Cancelling an
// accepted FCFS enrollment promotes the first waiting one.
func (h *EnrollmentHandler) Disenroll(c *gin.Context) {
	accountID, _ := middleware.GetAccountID(c)

	account, err := h.accountService.GetAccount(accountID)
	if err != nil {
		respondAccountError(c, err)
		return
	}

	event, ok := h.loadEvent(c)
	if !ok {
		return
	}

	if err := h.eventService.CancelEnrollment(event, *account); err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventDTO(event, accountID, time.Now()))
}

// Accept confirms a waiting enrollment of a confirmative event.
func (h *EnrollmentHandler) Accept(c *gin.Context) {
	h.managerAction(c, h.eventService.AcceptEnrollment)
}

// Reject withdraws acceptance from an enrollment of a confirmative event.
func (h *EnrollmentHandler) Reject(c *gin.Context) {
	h.managerAction(c, h.eventService.RejectEnrollment)
}

// CheckIn marks an accepted enrollment as attended.
func (h *EnrollmentHandler) CheckIn(c *gin.Context) {
	h.managerAction(c, h.eventService.CheckInEnrollment)
}

// CancelCheckIn reverts an attendance mark.
func (h *EnrollmentHandler) CancelCheckIn(c *gin.Context) {
	h.managerAction(c, h.eventService.CancelCheckInEnrollment)
}

func (h *EnrollmentHandler) managerAction(c *gin.Context, action func(*models.Event, uint64) error) {
	accountID, _ := middleware.GetAccountID(c)

	enrollmentID, err := strconv.ParseUint(c.Param("enrollmentId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid enrollment ID")
		return
	}

	event, ok := h.loadEvent(c)
	if !ok {
		return
	}

	if err := action(event, enrollmentID); err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventDTO(event, accountID, time.Now()))
}

func (h *EnrollmentHandler) loadEvent(c *gin.Context) (*models.Event, bool) {
	return loadStudyEvent(c, h.studyService, h.eventService)
}
