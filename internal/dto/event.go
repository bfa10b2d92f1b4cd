package dto

import (
	"time"

	"github.com/sejins/studyhub/internal/models"
)

// EnrollmentDTO represents an enrollment in API responses
type EnrollmentDTO struct {
	ID         uint64            `json:"id"`
	Account    AccountSummaryDTO `json:"account"`
	EnrolledAt time.Time         `json:"enrolled_at"`
	Accepted   bool              `json:"accepted"`
	Attended   bool              `json:"attended"`
}

// EventListItemDTO represents an event in list responses
type EventListItemDTO struct {
	ID                uint64           `json:"id"`
	Title             string           `json:"title"`
	EventType         models.EventType `json:"event_type"`
	LimitOfEnrollment *int             `json:"limit_of_enrollment"`
	AcceptedCount     int              `json:"accepted_count"`
	EndEnrollmentAt   time.Time        `json:"end_enrollment_at"`
	StartsAt          time.Time        `json:"starts_at"`
	EndsAt            time.Time        `json:"ends_at"`
}

// EventDTO represents an event in detail responses
type EventDTO struct {
	ID                uint64           `json:"id"`
	StudyID           uint64           `json:"study_id"`
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	EventType         models.EventType `json:"event_type"`
	LimitOfEnrollment *int             `json:"limit_of_enrollment"`
	AcceptedCount     int              `json:"accepted_count"`
	RemainSpots       int              `json:"remain_spots"`
	EndEnrollmentAt   time.Time        `json:"end_enrollment_at"`
	StartsAt          time.Time        `json:"starts_at"`
	EndsAt            time.Time        `json:"ends_at"`
	CreatedAt         time.Time        `json:"created_at"`

	CreatedBy   AccountSummaryDTO `json:"created_by"`
	Enrollments []EnrollmentDTO   `json:"enrollments,omitempty"`

	// Viewer-dependent flags, populated for authenticated requests.
	Enrollable    bool `json:"enrollable"`
	Disenrollable bool `json:"disenrollable"`
	Attended      bool `json:"attended"`
}

// ToEnrollmentDTO converts an enrollment model to its API representation
func ToEnrollmentDTO(enrollment *models.Enrollment) EnrollmentDTO {
	return EnrollmentDTO{
		ID:         enrollment.ID,
		Account:    ToAccountSummaryDTO(&enrollment.Account),
		EnrolledAt: enrollment.EnrolledAt,
		Accepted:   enrollment.Accepted,
		Attended:   enrollment.Attended,
	}
}

// ToEventListItemDTO converts an event model to its list representation
func ToEventListItemDTO(event *models.Event) EventListItemDTO {
	return EventListItemDTO{
		ID:                event.ID,
		Title:             event.Title,
		EventType:         event.EventType,
		LimitOfEnrollment: event.LimitOfEnrollment,
		AcceptedCount:     event.AcceptedCount(),
		EndEnrollmentAt:   event.EndEnrollmentAt,
		StartsAt:          event.StartsAt,
		EndsAt:            event.EndsAt,
	}
}

// ToEventDTO converts an event model to its detail representation. The
// viewer's account ID drives the enrollment flags; pass 0 for anonymous
// views.
func ToEventDTO(event *models.Event, viewerID uint64, now time.Time) EventDTO {
	d := EventDTO{
		ID:                event.ID,
		StudyID:           event.StudyID,
		Title:             event.Title,
		Description:       event.Description,
		EventType:         event.EventType,
		LimitOfEnrollment: event.LimitOfEnrollment,
		AcceptedCount:     event.AcceptedCount(),
		RemainSpots:       event.NumberOfRemainSpots(),
		EndEnrollmentAt:   event.EndEnrollmentAt,
		StartsAt:          event.StartsAt,
		EndsAt:            event.EndsAt,
		CreatedAt:         event.CreatedAt,
		CreatedBy:         ToAccountSummaryDTO(&event.CreatedBy),
	}
	for i := range event.Enrollments {
		d.Enrollments = append(d.Enrollments, ToEnrollmentDTO(&event.Enrollments[i]))
	}
	if viewerID != 0 {
		d.Enrollable = event.IsEnrollableFor(viewerID, now)
		d.Disenrollable = event.IsDisenrollableFor(viewerID, now)
		d.Attended = event.IsAttendedBy(viewerID)
	}
	return d
}
