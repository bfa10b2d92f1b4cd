package handlers

import (
	"errors"
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

// EventHandler coordinates event HTTP handlers.
type EventHandler struct {
	eventService   *services.EventService
	studyService   *services.StudyService
	accountService *services.AccountService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(eventService *services.EventService, studyService *services.StudyService, accountService *services.AccountService) *EventHandler {
	return &EventHandler{
		eventService:   eventService,
		studyService:   studyService,
		accountService: accountService,
	}
}

// EventRequest is the JSON body for creating or updating an event.
type EventRequest struct {
	Title             string    `json:"title" binding:"required,max=50"`
	Description       string    `json:"description"`
	EventType         string    `json:"event_type" binding:"required,oneof=FCFS CONFIRMATIVE"`
	LimitOfEnrollment *int      `json:"limit_of_enrollment"`
	EndEnrollmentAt   time.Time `json:"end_enrollment_at" binding:"required"`
	StartsAt          time.Time `json:"starts_at" binding:"required"`
	EndsAt            time.Time `json:"ends_at" binding:"required"`
}

func (r EventRequest) toInput() services.EventInput {
	return services.EventInput{
		Title:             r.Title,
		Description:       r.Description,
		EventType:         models.EventType(r.EventType),
		LimitOfEnrollment: r.LimitOfEnrollment,
		EndEnrollmentAt:   r.EndEnrollmentAt,
		StartsAt:          r.StartsAt,
		EndsAt:            r.EndsAt,
	}
}

// CreateEvent creates an event inside a managed study.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	accountID, _ := middleware.GetAccountID(c)

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	creator, err := h.accountService.GetAccount(accountID)
	if err != nil {
		respondAccountError(c, err)
		return
	}

	study, _ := middleware.GetStudy(c)
	event, err := h.eventService.CreateEvent(&study, *creator, req.toInput())
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToEventDTO(event, accountID, time.Now()))
}

// GetEvent returns an event with its enrollments.
func (h *EventHandler) GetEvent(c *gin.Context) {
	accountID, _ := middleware.GetAccountID(c)

	event, ok := h.loadEvent(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.ToEventDTO(event, accountID, time.Now()))
}

// ListEvents lists the events of a study.
func (h *EventHandler) ListEvents(c *gin.Context) {
	study, err := h.studyService.GetStudy(c.Param("path"))
	if err != nil {
		respondStudyError(c, err)
		return
	}

	events, err := h.eventService.ListEvents(study.ID)
	if err != nil {
		respondEventError(c, err)
		return
	}

	items := make([]dto.EventListItemDTO, 0, len(events))
	for i := range events {
		items = append(items, dto.ToEventListItemDTO(&events[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"events": items,
	})
}

// UpdateEvent modifies an event inside a managed study. Raising the
// limit of an FCFS event promotes waiting enrollments.
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	accountID, _ := middleware.GetAccountID(c)

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	event, ok := h.loadEvent(c)
	if !ok {
		return
	}

	if err := h.eventService.UpdateEvent(event, req.toInput()); err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventDTO(event, accountID, time.Now()))
}

// DeleteEvent removes an event and its enrollments.
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	event, ok := h.loadEvent(c)
	if !ok {
		return
	}

	if err := h.eventService.DeleteEvent(event); err != nil {
		respondEventError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *EventHandler) loadEvent(c *gin.Context) (*models.Event, bool) {
	return loadStudyEvent(c, h.studyService, h.eventService)
}

// loadStudyEvent parses the :eventId parameter and loads the event,
// checking that it belongs to the study at :path.
func loadStudyEvent(c *gin.Context, studySvc *services.StudyService, eventSvc *services.EventService) (*models.Event, bool) {
	eventID, err := strconv.ParseUint(c.Param("eventId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid event ID")
		return nil, false
	}

	study, err := studySvc.GetStudy(c.Param("path"))
	if err != nil {
		respondStudyError(c, err)
		return nil, false
	}

	event, err := eventSvc.GetEvent(eventID)
	if err != nil {
		respondEventError(c, err)
		return nil, false
	}
	if event.StudyID != study.ID {
		apierrors.NotFound(c, "Event not found")
		return nil, false
	}

	return event, true
}

func respondEventError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEventNotFound),
		errors.Is(err, services.ErrEnrollmentNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidEventTimes),
		errors.Is(err, services.ErrLimitTooSmall):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrLimitBelowAccepted):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, models.ErrNotAccepted):
		apierrors.PolicyViolation(c, err.Error())
	case errors.Is(err, models.ErrPolicyViolation):
		apierrors.PolicyViolation(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
