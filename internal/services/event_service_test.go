package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sejins/studyhub/internal/database"
	"github.com/sejins/studyhub/internal/models"
	"github.com/sejins/studyhub/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type eventTestEnv struct {
	db       *gorm.DB
	service  *EventService
	study    *models.Study
	accounts []models.Account
}

func setupEventTestEnv(t *testing.T) eventTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Account{},
		&models.Tag{},
		&models.Zone{},
		&models.Study{},
		&models.Event{},
		&models.Enrollment{},
		&models.Notification{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	study := &models.Study{Path: "go-study", Title: "Go Study", Published: true, Recruiting: true}
	require.NoError(t, db.Create(study).Error)

	accounts := make([]models.Account, 0, 4)
	for _, nickname := range []string{"alice", "bob", "carol", "dave"} {
		account := models.Account{
			Email:        nickname + "@example.com",
			Nickname:     nickname,
			PasswordHash: "x",
		}
		require.NoError(t, db.Create(&account).Error)
		accounts = append(accounts, account)
	}

	eventRepo := repository.NewEventRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	service := NewEventService(eventRepo, enrollmentRepo, nil)

	return eventTestEnv{
		db:       db,
		service:  service,
		study:    study,
		accounts: accounts,
	}
}

func (env eventTestEnv) createEvent(t *testing.T, eventType models.EventType, limit *int) *models.Event {
	t.Helper()

	now := time.Now()
	event, err := env.service.CreateEvent(env.study, env.accounts[0], EventInput{
		Title:             "Weekly meetup",
		EventType:         eventType,
		LimitOfEnrollment: limit,
		EndEnrollmentAt:   now.Add(24 * time.Hour),
		StartsAt:          now.Add(48 * time.Hour),
		EndsAt:            now.Add(50 * time.Hour),
	})
	require.NoError(t, err)
	return event
}

func (env eventTestEnv) reload(t *testing.T, id uint64) *models.Event {
	t.Helper()

	event, err := env.service.GetEvent(id)
	require.NoError(t, err)
	return event
}

func limitOf(v int) *int { return &v }

func TestEventService_CreateEvent_Validation(t *testing.T) {
	env := setupEventTestEnv(t)
	now := time.Now()

	// Enrollment deadline in the past.
	_, err := env.service.CreateEvent(env.study, env.accounts[0], EventInput{
		Title:           "past",
		EndEnrollmentAt: now.Add(-time.Hour),
		StartsAt:        now.Add(time.Hour),
		EndsAt:          now.Add(2 * time.Hour),
	})
	require.ErrorIs(t, err, ErrInvalidEventTimes)

	// Start before the enrollment deadline.
	_, err = env.service.CreateEvent(env.study, env.accounts[0], EventInput{
		Title:           "inverted",
		EndEnrollmentAt: now.Add(2 * time.Hour),
		StartsAt:        now.Add(time.Hour),
		EndsAt:          now.Add(3 * time.Hour),
	})
	require.ErrorIs(t, err, ErrInvalidEventTimes)

	// A limit of one is below the minimum.
	_, err = env.service.CreateEvent(env.study, env.accounts[0], EventInput{
		Title:             "tiny",
		LimitOfEnrollment: limitOf(1),
		EndEnrollmentAt:   now.Add(time.Hour),
		StartsAt:          now.Add(2 * time.Hour),
		EndsAt:            now.Add(3 * time.Hour),
	})
	require.ErrorIs(t, err, ErrLimitTooSmall)
}

func TestEventService_CreateEvent_DefaultsToFCFS(t *testing.T) {
	env := setupEventTestEnv(t)

	event := env.createEvent(t, "", limitOf(2))
	require.Equal(t, models.EventTypeFCFS, event.EventType)
}

func TestEventService_NewEnrollment_FCFS(t *testing.T) {
	env := setupEventTestEnv(t)
	event := env.createEvent(t, models.EventTypeFCFS, limitOf(2))

	require.NoError(t, env.service.NewEnrollment(event, env.accounts[0]))
	require.NoError(t, env.service.NewEnrollment(event, env.accounts[1]))
	require.NoError(t, env.service.NewEnrollment(event, env.accounts[2]))

	event = env.reload(t, event.ID)
	require.Len(t, event.Enrollments, 3)
	require.Equal(t, 2, event.AcceptedCount())
	require.True(t, event.EnrollmentFor(env.accounts[0].ID).Accepted)
	require.True(t, event.EnrollmentFor(env.accounts[1].ID).Accepted)
	require.False(t, event.EnrollmentFor(env.accounts[2].ID).Accepted)
}

func TestEventService_NewEnrollment_DuplicateIsNoop(t *testing.T) {
	env := setupEventTestEnv(t)
	event := env.createEvent(t, models.EventTypeFCFS, limitOf(2))

	require.NoError(t, env.service.NewEnrollment(event, env.accounts[0]))
	event = env.reload(t, event.ID)
	require.NoError(t, env.service.NewEnrollment(event, env.accounts[0]))

	event = env.reload(t, event.ID)
	require.Len(t, event.Enrollments, 1)
}

func TestEventService_NewEnrollment_ConfirmativeWaits(t *testing.T) {
	env := setupEventTestEnv(t)
	event := env.createEvent(t, models.EventTypeConfirmative, limitOf(2))

	require.NoError(t, env.service.NewEnrollment(event, env.accounts[0]))

	event = env.reload(t, event.ID)
	require.Equal(t, 0, event.AcceptedCount())
	require.False(t, event.EnrollmentFor(env.accounts[0].ID).Accepted)
}

func TestEventService_CancelEnrollment_PromotesNextWaiting(t *testing.T) {
	env := setupEventTestEnv(t)
	event := env.createEvent(t, models.EventTypeFCFS, limitOf(2))

	for _, account := range env.accounts[:3] {
		require.NoError(t, env.service.NewEnrollment(event, account))
	}

	// Cancelling an accepted enrollment frees a spot for the first
	// waiting account.
	event = env.reload(t, event.ID)
	require.NoError(t, env.service.CancelEnrollment(event, env.accounts[0]))

	event = env.reload(t, event.ID)
	require.Len(t, event.Enrollments, 2)
	require.Nil(t, event.EnrollmentFor(env.accounts[0].ID))
	require.True(t, event.EnrollmentFor(env.accounts[2].ID).Accepted)
}

func TestEventService_CancelEnrollment_WaitingFreesNoSpot(t *testing.T) {
	env := setupEventTestEnv(t)
	event := env.createEvent(t, models.EventTypeFCFS, limitOf(2))

	for _, account := range env.accounts {
		require.NoError(t, env.service.NewEnrollment(event, account))
	}

	// Cancelling a waiting enrollment must not promote anyone.
	event = env.reload(t, event.ID)
	require.NoError(t, env.service.CancelEnrollment(event, env.accounts[2]))

	event = env.reload(t, event.ID)
	require.Equal(t, 2, event.AcceptedCount())
	require.False(t, event.EnrollmentFor(env.accounts[3].ID).Accepted)
}

func TestEventService_CancelEnrollment_Guards(t *testing.T) {
	env := setupEventTestEnv(t)
	event := env.createEvent(t, models.EventTypeFCFS, limitOf(2))

	require.ErrorIs(t, env.service.CancelEnrollment(event, env.accounts[0]), ErrEnrollmentNotFound)

	require.NoError(t, env.service.NewEnrollment(event, env.accounts[0]))
	event = env.reload(t, event.ID)
	enrollment := event.EnrollmentFor(env.accounts[0].ID)
	require.NoError(t, env.service.CheckInEnrollment(event, enrollment.ID))

	// Attendees cannot cancel anymore.
	event = env.reload(t, event.ID)
	require.ErrorIs(t, env.service.CancelEnrollment(event, env.accounts[0]), models.ErrPolicyViolation)
}

func TestEventService_UpdateEvent_RaisingLimitPromotesWaitlist(t *testing.T) {
	env := setupEventTestEnv(t)
	event := env.createEvent(t, models.EventTypeFCFS, limitOf(2))

	for _, account := range env.accounts {
		require.NoError(t, env.service.NewEnrollment(event, account))
	}

	event = env.reload(t, event.ID)
	err := env.service.UpdateEvent(event, EventInput{
		Title:             event.Title,
		LimitOfEnrollment: limitOf(3),
		EndEnrollmentAt:   event.EndEnrollmentAt,
		StartsAt:          event.StartsAt,
		EndsAt:            event.EndsAt,
	})
	require.NoError(t, err)

	event = env.reload(t, event.ID)
	require.Equal(t, 3, event.AcceptedCount())
	require.True(t, event.EnrollmentFor(env.accounts[2].ID).Accepted)
	require.False(t, event.EnrollmentFor(env.accounts[3].ID).Accepted)
}

func TestEventService_UpdateEvent_LimitBelowAccepted(t *testing.T) {
	env := setupEventTestEnv(t)
	event := env.createEvent(t, models.EventTypeFCFS, limitOf(3))

	for _, account := range env.accounts[:3] {
		require.NoError(t, env.service.NewEnrollment(event, account))
	}

	event = env.reload(t, event.ID)
	err := env.service.UpdateEvent(event, EventInput{
		Title:             event.Title,
		LimitOfEnrollment: limitOf(2),
		EndEnrollmentAt:   event.EndEnrollmentAt,
		StartsAt:          event.StartsAt,
		EndsAt:            event.EndsAt,
	})
	require.ErrorIs(t, err, ErrLimitBelowAccepted)
}

func TestEventService_UpdateEvent_PastDeadlineRejected(t *testing.T) {
	env := setupEventTestEnv(t)
	event := env.createEvent(t, models.EventTypeFCFS, limitOf(2))

	err := env.service.UpdateEvent(event, EventInput{
		Title:             event.Title,
		LimitOfEnrollment: event.LimitOfEnrollment,
		EndEnrollmentAt:   time.Now().Add(-time.Hour),
		StartsAt:          event.StartsAt,
		EndsAt:            event.EndsAt,
	})
	require.ErrorIs(t, err, ErrInvalidEventTimes)
}

func TestEventService_EnrollmentDecisionNotifications(t *testing.T) {
	env := setupEventTestEnv(t)

	sender := &captureSender{}
	env.service.notificationSvc = NewNotificationService(
		repository.NewNotificationRepository(env.db),
		repository.NewAccountRepository(env.db),
		repository.NewStudyRepository(env.db),
		sender,
	)
	alice := env.accounts[0]
	require.NoError(t, env.db.Model(&alice).Updates(map[string]interface{}{
		"study_enrollment_result_by_web":   true,
		"study_enrollment_result_by_email": true,
	}).Error)

	event := env.createEvent(t, models.EventTypeConfirmative, limitOf(2))
	require.NoError(t, env.service.NewEnrollment(event, alice))
	event = env.reload(t, event.ID)
	enrollment := event.EnrollmentFor(alice.ID)

	require.NoError(t, env.service.AcceptEnrollment(event, enrollment.ID))
	require.NoError(t, env.service.RejectEnrollment(event, enrollment.ID))

	var notifications []models.Notification
	require.NoError(t, env.db.Order("id").Find(&notifications).Error)
	require.Len(t, notifications, 2)
	require.Contains(t, notifications[0].Message, "accepted")
	require.Contains(t, notifications[1].Message, "rejected")

	require.Len(t, sender.messages, 2)
	require.Equal(t, "alice@example.com", sender.messages[0].To)
	require.Contains(t, sender.messages[1].Body, "rejected")
}

func TestEventService_AcceptAndRejectEnrollment(t *testing.T) {
	env := setupEventTestEnv(t)
	event := env.createEvent(t, models.EventTypeConfirmative, limitOf(2))

	require.NoError(t, env.service.NewEnrollment(event, env.accounts[0]))
	require.NoError(t, env.service.NewEnrollment(event, env.accounts[1]))
	require.NoError(t, env.service.NewEnrollment(event, env.accounts[2]))

	event = env.reload(t, event.ID)
	first := event.EnrollmentFor(env.accounts[0].ID)
	second := event.EnrollmentFor(env.accounts[1].ID)
	third := event.EnrollmentFor(env.accounts[2].ID)

	require.NoError(t, env.service.AcceptEnrollment(event, first.ID))
	require.NoError(t, env.service.AcceptEnrollment(event, second.ID))

	// The event is full: accepting a third violates the capacity rule.
	require.ErrorIs(t, env.service.AcceptEnrollment(event, third.ID), models.ErrPolicyViolation)

	// Rejecting frees the spot again.
	require.NoError(t, env.service.RejectEnrollment(event, first.ID))
	require.NoError(t, env.service.AcceptEnrollment(event, third.ID))

	event = env.reload(t, event.ID)
	require.Equal(t, 2, event.AcceptedCount())
	require.False(t, event.EnrollmentFor(env.accounts[0].ID).Accepted)
}

func TestEventService_AcceptEnrollment_FCFSDenied(t *testing.T) {
	env := setupEventTestEnv(t)
	event := env.createEvent(t, models.EventTypeFCFS, limitOf(3))

	require.NoError(t, env.service.NewEnrollment(event, env.accounts[0]))
	event = env.reload(t, event.ID)
	enrollment := event.EnrollmentFor(env.accounts[0].ID)

	require.ErrorIs(t, env.service.AcceptEnrollment(event, enrollment.ID), models.ErrPolicyViolation)
}

func TestEventService_CheckIn(t *testing.T) {
	env := setupEventTestEnv(t)
	event := env.createEvent(t, models.EventTypeConfirmative, limitOf(2))

	require.NoError(t, env.service.NewEnrollment(event, env.accounts[0]))
	event = env.reload(t, event.ID)
	enrollment := event.EnrollmentFor(env.accounts[0].ID)

	// Waiting enrollments cannot check in.
	require.ErrorIs(t, env.service.CheckInEnrollment(event, enrollment.ID), models.ErrNotAccepted)

	require.NoError(t, env.service.AcceptEnrollment(event, enrollment.ID))
	require.NoError(t, env.service.CheckInEnrollment(event, enrollment.ID))

	event = env.reload(t, event.ID)
	require.True(t, event.IsAttendedBy(env.accounts[0].ID))

	// Attended enrollments cannot be rejected.
	require.ErrorIs(t, env.service.RejectEnrollment(event, enrollment.ID), models.ErrPolicyViolation)

	require.NoError(t, env.service.CancelCheckInEnrollment(event, enrollment.ID))
	event = env.reload(t, event.ID)
	require.False(t, event.IsAttendedBy(env.accounts[0].ID))
}

func TestEventService_DeleteEvent(t *testing.T) {
	env := setupEventTestEnv(t)
	event := env.createEvent(t, models.EventTypeFCFS, limitOf(2))

	require.NoError(t, env.service.NewEnrollment(event, env.accounts[0]))
	event = env.reload(t, event.ID)

	require.NoError(t, env.service.DeleteEvent(event))

	_, err := env.service.GetEvent(event.ID)
	require.ErrorIs(t, err, ErrEventNotFound)

	var count int64
	require.NoError(t, env.db.Model(&models.Enrollment{}).Where("event_id = ?", event.ID).Count(&count).Error)
	require.Zero(t, count)
}

// Exercises a full FCFS waitlist round trip: fill the event, cancel an
// accepted spot, then raise the limit.
func TestEventService_FCFSWaitlistScenario(t *testing.T) {
	env := setupEventTestEnv(t)
	event := env.createEvent(t, models.EventTypeFCFS, limitOf(2))

	alice, bob, carol, dave := env.accounts[0], env.accounts[1], env.accounts[2], env.accounts[3]

	for _, account := range []models.Account{alice, bob, carol, dave} {
		require.NoError(t, env.service.NewEnrollment(event, account))
		event = env.reload(t, event.ID)
	}
	require.Equal(t, 2, event.AcceptedCount())

	// Bob cancels; Carol, first on the waitlist, takes the spot.
	require.NoError(t, env.service.CancelEnrollment(event, bob))
	event = env.reload(t, event.ID)
	require.True(t, event.EnrollmentFor(carol.ID).Accepted)
	require.False(t, event.EnrollmentFor(dave.ID).Accepted)

	// Raising the limit to three admits Dave.
	require.NoError(t, env.service.UpdateEvent(event, EventInput{
		Title:             event.Title,
		LimitOfEnrollment: limitOf(3),
		EndEnrollmentAt:   event.EndEnrollmentAt,
		StartsAt:          event.StartsAt,
		EndsAt:            event.EndsAt,
	}))
	event = env.reload(t, event.ID)
	require.True(t, event.EnrollmentFor(dave.ID).Accepted)
	require.Equal(t, 3, event.AcceptedCount())
	require.Equal(t, 0, event.NumberOfRemainSpots())
}
