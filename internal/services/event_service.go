package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/sejins/studyhub/internal/models"
	"github.com/sejins/studyhub/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrInvalidEventTimes  = errors.New("event times must satisfy end-of-enrollment <= start <= end, in the future")
	ErrLimitTooSmall      = errors.New("limit of enrollment must be at least 2")
	ErrLimitBelowAccepted = errors.New("limit of enrollment cannot be below the accepted count")
)

const minLimitOfEnrollment = 2

// EventService manages events and their enrollment rosters. All roster
// mutations run through the enrollment engine on models.Event so that
// accepted counts never exceed the limit and waitlist promotion follows
// submission order.
type EventService struct {
	eventRepo       repository.EventRepository
	enrollmentRepo  repository.EnrollmentRepository
	notificationSvc *NotificationService
}

// NewEventService creates a new EventService. notificationSvc may be nil;
// enrollment-result notifications are then skipped.
func NewEventService(eventRepo repository.EventRepository, enrollmentRepo repository.EnrollmentRepository, notificationSvc *NotificationService) *EventService {
	return &EventService{
		eventRepo:       eventRepo,
		enrollmentRepo:  enrollmentRepo,
		notificationSvc: notificationSvc,
	}
}

// EventInput represents the event fields supplied by a manager.
type EventInput struct {
	Title             string
	Description       string
	EventType         models.EventType
	LimitOfEnrollment *int
	EndEnrollmentAt   time.Time
	StartsAt          time.Time
	EndsAt            time.Time
}

func (in EventInput) validate() error {
	if in.EndEnrollmentAt.Before(time.Now()) {
		return ErrInvalidEventTimes
	}
	if in.StartsAt.Before(in.EndEnrollmentAt) || in.EndsAt.Before(in.StartsAt) {
		return ErrInvalidEventTimes
	}
	if in.LimitOfEnrollment != nil && *in.LimitOfEnrollment < minLimitOfEnrollment {
		return ErrLimitTooSmall
	}
	return nil
}

// CreateEvent schedules a new event in the study.
func (s *EventService) CreateEvent(study *models.Study, creator models.Account, input EventInput) (*models.Event, error) {
	now := time.Now()
	if err := input.validate(); err != nil {
		return nil, err
	}

	eventType := input.EventType
	if eventType == "" {
		eventType = models.EventTypeFCFS
	}

	event := &models.Event{
		StudyID:           study.ID,
		CreatedByID:       creator.ID,
		Title:             input.Title,
		Description:       input.Description,
		EventType:         eventType,
		LimitOfEnrollment: input.LimitOfEnrollment,
		CreatedAt:         now,
		EndEnrollmentAt:   input.EndEnrollmentAt,
		StartsAt:          input.StartsAt,
		EndsAt:            input.EndsAt,
	}

	if err := s.eventRepo.Create(event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return event, nil
}

// GetEvent loads an event with its ordered enrollment roster.
func (s *EventService) GetEvent(id uint64) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}
	return event, nil
}

// ListEvents returns a study's events ordered by start time.
func (s *EventService) ListEvents(studyID uint64) ([]models.Event, error) {
	events, err := s.eventRepo.ListByStudy(studyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// UpdateEvent applies the new form fields. The event type is fixed after
// creation. Raising the limit of an FCFS event promotes waiting
// enrollments in submission order, in one bulk pass.
func (s *EventService) UpdateEvent(event *models.Event, input EventInput) error {
	if err := input.validate(); err != nil {
		return err
	}
	if input.LimitOfEnrollment != nil && *input.LimitOfEnrollment < event.AcceptedCount() {
		return ErrLimitBelowAccepted
	}

	event.Title = input.Title
	event.Description = input.Description
	event.LimitOfEnrollment = input.LimitOfEnrollment
	event.EndEnrollmentAt = input.EndEnrollmentAt
	event.StartsAt = input.StartsAt
	event.EndsAt = input.EndsAt

	promoted := event.AcceptWaitingList()

	if err := s.eventRepo.Update(event); err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	if err := s.enrollmentRepo.SaveAll(promoted); err != nil {
		return fmt.Errorf("failed to persist promoted enrollments: %w", err)
	}

	for _, enrollment := range promoted {
		s.notifyEnrollmentResult(event, enrollment, enrollmentAcceptedMessage)
	}
	return nil
}

// DeleteEvent removes an event and its roster.
func (s *EventService) DeleteEvent(event *models.Event) error {
	if err := s.eventRepo.Delete(event); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

// NewEnrollment enrolls the account. A duplicate request is silently
// ignored. FCFS events with free capacity accept immediately; everything
// else joins the waitlist.
func (s *EventService) NewEnrollment(event *models.Event, account models.Account) error {
	exists, err := s.enrollmentRepo.ExistsByEventAndAccount(event.ID, account.ID)
	if err != nil {
		return fmt.Errorf("failed to check enrollment: %w", err)
	}
	if exists {
		return nil
	}

	enrollment := &models.Enrollment{
		EventID:    event.ID,
		AccountID:  account.ID,
		EnrolledAt: time.Now(),
		Accepted:   event.IsAbleToAcceptWaitingEnrollment(),
	}
	if err := s.enrollmentRepo.Create(enrollment); err != nil {
		return fmt.Errorf("failed to create enrollment: %w", err)
	}
	event.AddEnrollment(enrollment)
	return nil
}

// CancelEnrollment removes the account's enrollment and promotes the
// first waiting enrollment when a confirmed spot was freed.
func (s *EventService) CancelEnrollment(event *models.Event, account models.Account) error {
	enrollment, err := s.enrollmentRepo.FindByEventAndAccount(event.ID, account.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEnrollmentNotFound
		}
		return fmt.Errorf("failed to find enrollment: %w", err)
	}
	if enrollment.Attended {
		return models.ErrPolicyViolation
	}

	event.RemoveEnrollment(enrollment)
	if err := s.enrollmentRepo.Delete(enrollment); err != nil {
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}

	if promoted := event.AcceptNextWaitingEnrollment(); promoted != nil {
		if err := s.enrollmentRepo.Save(promoted); err != nil {
			return fmt.Errorf("failed to persist promoted enrollment: %w", err)
		}
		s.notifyEnrollmentResult(event, promoted, enrollmentAcceptedMessage)
	}
	return nil
}

// AcceptEnrollment confirms a waiting enrollment of a confirmative event.
func (s *EventService) AcceptEnrollment(event *models.Event, enrollmentID uint64) error {
	enrollment := s.enrollmentInEvent(event, enrollmentID)
	if enrollment == nil {
		return ErrEnrollmentNotFound
	}
	if !event.CanAccept(*enrollment) {
		return models.ErrPolicyViolation
	}

	enrollment.Accepted = true
	if err := s.enrollmentRepo.Save(enrollment); err != nil {
		return fmt.Errorf("failed to accept enrollment: %w", err)
	}
	s.notifyEnrollmentResult(event, enrollment, enrollmentAcceptedMessage)
	return nil
}

// RejectEnrollment revokes acceptance on a confirmative event. Rejecting
// an enrollment that is still waiting is legal and leaves it waiting.
func (s *EventService) RejectEnrollment(event *models.Event, enrollmentID uint64) error {
	enrollment := s.enrollmentInEvent(event, enrollmentID)
	if enrollment == nil {
		return ErrEnrollmentNotFound
	}
	if event.EventType != models.EventTypeConfirmative || enrollment.Attended {
		return models.ErrPolicyViolation
	}

	enrollment.Accepted = false
	if err := s.enrollmentRepo.Save(enrollment); err != nil {
		return fmt.Errorf("failed to reject enrollment: %w", err)
	}
	s.notifyEnrollmentResult(event, enrollment, enrollmentRejectedMessage)
	return nil
}

// CheckInEnrollment marks the participant attended. Only accepted
// enrollments can check in.
func (s *EventService) CheckInEnrollment(event *models.Event, enrollmentID uint64) error {
	enrollment := s.enrollmentInEvent(event, enrollmentID)
	if enrollment == nil {
		return ErrEnrollmentNotFound
	}
	if err := enrollment.CheckIn(); err != nil {
		return err
	}
	if err := s.enrollmentRepo.Save(enrollment); err != nil {
		return fmt.Errorf("failed to check in enrollment: %w", err)
	}
	return nil
}

// CancelCheckInEnrollment clears the attended flag.
func (s *EventService) CancelCheckInEnrollment(event *models.Event, enrollmentID uint64) error {
	enrollment := s.enrollmentInEvent(event, enrollmentID)
	if enrollment == nil {
		return ErrEnrollmentNotFound
	}
	enrollment.CancelCheckIn()
	if err := s.enrollmentRepo.Save(enrollment); err != nil {
		return fmt.Errorf("failed to cancel check-in: %w", err)
	}
	return nil
}

func (s *EventService) enrollmentInEvent(event *models.Event, enrollmentID uint64) *models.Enrollment {
	for i := range event.Enrollments {
		if event.Enrollments[i].ID == enrollmentID {
			return &event.Enrollments[i]
		}
	}
	return nil
}

const (
	enrollmentAcceptedMessage = "Your enrollment was accepted."
	enrollmentRejectedMessage = "Your enrollment was rejected."
)

func (s *EventService) notifyEnrollmentResult(event *models.Event, enrollment *models.Enrollment, message string) {
	if s.notificationSvc == nil {
		return
	}
	s.notificationSvc.EnrollmentResult(enrollment.AccountID, event, message)
}
