package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func fcfsEvent(limit int) *Event {
	return &Event{
		ID:                1,
		EventType:         EventTypeFCFS,
		LimitOfEnrollment: intPtr(limit),
		EndEnrollmentAt:   time.Now().Add(24 * time.Hour),
	}
}

func confirmativeEvent(limit int) *Event {
	e := fcfsEvent(limit)
	e.EventType = EventTypeConfirmative
	return e
}

func enroll(e *Event, id uint64, accepted bool) *Enrollment {
	enrollment := &Enrollment{
		ID:         id,
		AccountID:  id,
		EnrolledAt: time.Unix(int64(id), 0),
		Accepted:   accepted,
	}
	e.AddEnrollment(enrollment)
	return enrollment
}

func TestEvent_AcceptedCountAndRemainSpots(t *testing.T) {
	event := fcfsEvent(3)
	enroll(event, 1, true)
	enroll(event, 2, true)
	enroll(event, 3, false)

	require.Equal(t, 2, event.AcceptedCount())
	require.Equal(t, 1, event.NumberOfRemainSpots())

	// A lowered limit may leave the count negative; it is not clamped.
	event.LimitOfEnrollment = intPtr(1)
	require.Equal(t, -1, event.NumberOfRemainSpots())
}

func TestEvent_NilLimitBehavesAsZero(t *testing.T) {
	event := fcfsEvent(0)
	event.LimitOfEnrollment = nil

	require.Equal(t, 0, event.NumberOfRemainSpots())
	require.False(t, event.IsAbleToAcceptWaitingEnrollment())
	require.Nil(t, event.AcceptNextWaitingEnrollment())
}

func TestEvent_IsAbleToAcceptWaitingEnrollment(t *testing.T) {
	event := fcfsEvent(2)
	enroll(event, 1, true)
	require.True(t, event.IsAbleToAcceptWaitingEnrollment())

	enroll(event, 2, true)
	require.False(t, event.IsAbleToAcceptWaitingEnrollment())

	// Confirmative events never auto-accept.
	confirmative := confirmativeEvent(10)
	require.False(t, confirmative.IsAbleToAcceptWaitingEnrollment())
}

func TestEvent_AcceptNextWaitingEnrollment(t *testing.T) {
	event := fcfsEvent(2)
	enroll(event, 1, true)
	enroll(event, 2, false)
	enroll(event, 3, false)

	// The earliest waiting enrollment wins the free spot.
	promoted := event.AcceptNextWaitingEnrollment()
	require.NotNil(t, promoted)
	require.Equal(t, uint64(2), promoted.AccountID)
	require.True(t, promoted.Accepted)

	// Capacity is now exhausted.
	require.Nil(t, event.AcceptNextWaitingEnrollment())
	require.False(t, event.EnrollmentFor(3).Accepted)
}

func TestEvent_AcceptWaitingList(t *testing.T) {
	event := fcfsEvent(1)
	enroll(event, 1, true)
	enroll(event, 2, false)
	enroll(event, 3, false)
	enroll(event, 4, false)

	// Raising the limit promotes min(waiting, free) in enrollment order.
	event.LimitOfEnrollment = intPtr(3)
	promoted := event.AcceptWaitingList()
	require.Len(t, promoted, 2)
	require.Equal(t, uint64(2), promoted[0].AccountID)
	require.Equal(t, uint64(3), promoted[1].AccountID)
	require.False(t, event.EnrollmentFor(4).Accepted)
	require.Equal(t, 3, event.AcceptedCount())
}

func TestEvent_RemoveEnrollment(t *testing.T) {
	event := fcfsEvent(2)
	first := enroll(event, 1, true)
	enroll(event, 2, false)

	event.RemoveEnrollment(first)
	require.Len(t, event.Enrollments, 1)
	require.Nil(t, event.EnrollmentFor(1))
	require.Zero(t, first.EventID)
}

func TestEvent_CanAccept(t *testing.T) {
	event := confirmativeEvent(1)
	waiting := enroll(event, 1, false)

	require.True(t, event.CanAccept(*waiting))

	// Full events accept no one else.
	enroll(event, 2, true)
	require.False(t, event.CanAccept(*waiting))

	// FCFS events are never manually confirmed.
	fcfs := fcfsEvent(5)
	w := enroll(fcfs, 1, false)
	require.False(t, fcfs.CanAccept(*w))

	// Enrollments of other events do not qualify.
	stranger := Enrollment{ID: 99}
	require.False(t, event.CanAccept(stranger))
}

func TestEvent_CanReject(t *testing.T) {
	event := confirmativeEvent(2)
	accepted := enroll(event, 1, true)
	waiting := enroll(event, 2, false)

	require.True(t, event.CanReject(*accepted))
	require.False(t, event.CanReject(*waiting))

	// Attendees cannot be rejected anymore.
	accepted.Attended = true
	event.Enrollments[0].Attended = true
	require.False(t, event.CanReject(*accepted))
}

func TestEvent_EnrollmentWindow(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	event := fcfsEvent(2)
	event.EndEnrollmentAt = now.Add(time.Hour)
	enroll(event, 1, true)

	require.True(t, event.IsEnrollableFor(2, now))
	require.False(t, event.IsEnrollableFor(1, now))
	require.True(t, event.IsDisenrollableFor(1, now))
	require.False(t, event.IsDisenrollableFor(2, now))

	// Everything freezes once the window closes.
	closed := event.EndEnrollmentAt.Add(time.Minute)
	require.False(t, event.IsEnrollableFor(2, closed))
	require.False(t, event.IsDisenrollableFor(1, closed))
}

func TestEvent_AttendedBlocksDisenroll(t *testing.T) {
	now := time.Now()

	event := fcfsEvent(2)
	event.EndEnrollmentAt = now.Add(time.Hour)
	enrollment := enroll(event, 1, true)
	require.NoError(t, enrollment.CheckIn())
	event.Enrollments[0].Attended = true

	require.True(t, event.IsAttendedBy(1))
	require.False(t, event.IsDisenrollableFor(1, now))
}

func TestEnrollment_CheckIn(t *testing.T) {
	enrollment := &Enrollment{}

	// Waiting enrollments cannot check in.
	require.ErrorIs(t, enrollment.CheckIn(), ErrNotAccepted)

	enrollment.Accepted = true
	require.NoError(t, enrollment.CheckIn())
	require.True(t, enrollment.Attended)

	enrollment.CancelCheckIn()
	require.False(t, enrollment.Attended)
}
