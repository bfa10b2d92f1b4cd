package models

import (
	"time"
)

// EventType is the enrollment acceptance policy of an event.
type EventType string

const (
	// EventTypeFCFS accepts enrollments automatically while capacity
	// remains, in submission order.
	EventTypeFCFS EventType = "FCFS"
	// EventTypeConfirmative accepts enrollments only when a manager
	// confirms them.
	EventTypeConfirmative EventType = "CONFIRMATIVE"
)

// Event is a scheduled meetup belonging to a study. It owns its
// enrollment list, kept in EnrolledAt order; all roster mutations go
// through the methods below so both sides of the relationship stay in
// sync and the accepted count never exceeds LimitOfEnrollment.
//
// Note on concurrency: the engine assumes it is the only mutator inside
// its request transaction. Two concurrent FCFS enrollments racing for
// the last spot can both observe free capacity; serialization is left
// to the storage layer's isolation.
type Event struct {
	ID                uint64    `gorm:"primarykey" json:"id"`
	StudyID           uint64    `gorm:"not null;index" json:"study_id"`
	CreatedByID       uint64    `gorm:"not null" json:"created_by_id"`
	Title             string    `gorm:"type:varchar(50);not null" json:"title"`
	Description       string    `gorm:"type:text" json:"description"`
	EventType         EventType `gorm:"type:varchar(20);not null" json:"event_type"`
	LimitOfEnrollment *int      `json:"limit_of_enrollment"`
	CreatedAt         time.Time `json:"created_at"`
	EndEnrollmentAt   time.Time `gorm:"not null" json:"end_enrollment_at"`
	StartsAt          time.Time `gorm:"not null" json:"starts_at"`
	EndsAt            time.Time `gorm:"not null" json:"ends_at"`

	CreatedBy   Account      `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	Enrollments []Enrollment `gorm:"foreignKey:EventID" json:"enrollments,omitempty"`
}

// AcceptedCount returns the number of accepted enrollments.
func (e *Event) AcceptedCount() int {
	count := 0
	for _, enrollment := range e.Enrollments {
		if enrollment.Accepted {
			count++
		}
	}
	return count
}

// NumberOfRemainSpots returns the free capacity. It may be negative when
// the event is over-subscribed after a limit decrease; callers must not
// assume it is clamped.
func (e *Event) NumberOfRemainSpots() int {
	return e.limit() - e.AcceptedCount()
}

// IsAbleToAcceptWaitingEnrollment reports whether a waiting enrollment
// could be accepted right now: first-come-first-served policy with free
// capacity.
func (e *Event) IsAbleToAcceptWaitingEnrollment() bool {
	return e.EventType == EventTypeFCFS && e.limit() > e.AcceptedCount()
}

// AddEnrollment attaches an enrollment to this event's roster, keeping
// the back-reference consistent.
func (e *Event) AddEnrollment(enrollment *Enrollment) {
	enrollment.EventID = e.ID
	e.Enrollments = append(e.Enrollments, *enrollment)
}

// RemoveEnrollment detaches the enrollment from the roster.
func (e *Event) RemoveEnrollment(enrollment *Enrollment) {
	out := e.Enrollments[:0]
	for _, existing := range e.Enrollments {
		if existing.ID != enrollment.ID {
			out = append(out, existing)
		}
	}
	e.Enrollments = out
	enrollment.EventID = 0
}

// AcceptNextWaitingEnrollment promotes the first waiting enrollment, in
// submission order, when the event is FCFS with free capacity. It
// returns the promoted enrollment, or nil when nothing changed.
func (e *Event) AcceptNextWaitingEnrollment() *Enrollment {
	if !e.IsAbleToAcceptWaitingEnrollment() {
		return nil
	}
	for i := range e.Enrollments {
		if !e.Enrollments[i].Accepted {
			e.Enrollments[i].Accepted = true
			return &e.Enrollments[i]
		}
	}
	return nil
}

// AcceptWaitingList promotes waiting enrollments after a capacity
// increase: min(waiting, free) entries, in submission order, in one
// pass. It returns the promoted enrollments for persistence.
func (e *Event) AcceptWaitingList() []*Enrollment {
	if !e.IsAbleToAcceptWaitingEnrollment() {
		return nil
	}
	free := e.limit() - e.AcceptedCount()
	var promoted []*Enrollment
	for i := range e.Enrollments {
		if len(promoted) == free {
			break
		}
		if !e.Enrollments[i].Accepted {
			e.Enrollments[i].Accepted = true
			promoted = append(promoted, &e.Enrollments[i])
		}
	}
	return promoted
}

// CanAccept reports whether a manager may confirm the enrollment:
// confirmative policy, enrollment belongs to this event, still waiting,
// not attended, and capacity left for one more.
func (e *Event) CanAccept(enrollment Enrollment) bool {
	return e.EventType == EventTypeConfirmative &&
		e.contains(enrollment) &&
		!enrollment.Accepted &&
		!enrollment.Attended &&
		e.limit() > e.AcceptedCount()
}

// CanReject reports whether a manager may revoke a confirmed enrollment.
func (e *Event) CanReject(enrollment Enrollment) bool {
	return e.EventType == EventTypeConfirmative &&
		e.contains(enrollment) &&
		enrollment.Accepted &&
		!enrollment.Attended
}

// IsEnrollableFor reports whether the account can enroll: the enrollment
// window is open and the account is not already on the roster.
func (e *Event) IsEnrollableFor(accountID uint64, now time.Time) bool {
	return e.isEnrollmentOpen(now) && !e.IsAttendedBy(accountID) && !e.isAlreadyEnrolled(accountID)
}

// IsDisenrollableFor reports whether the account can cancel: the window
// is open, the account is enrolled, and it has not checked in yet.
func (e *Event) IsDisenrollableFor(accountID uint64, now time.Time) bool {
	return e.isEnrollmentOpen(now) && !e.IsAttendedBy(accountID) && e.isAlreadyEnrolled(accountID)
}

// IsAttendedBy reports whether the account has checked in.
func (e *Event) IsAttendedBy(accountID uint64) bool {
	for _, enrollment := range e.Enrollments {
		if enrollment.AccountID == accountID && enrollment.Attended {
			return true
		}
	}
	return false
}

// EnrollmentFor returns the account's enrollment, or nil.
func (e *Event) EnrollmentFor(accountID uint64) *Enrollment {
	for i := range e.Enrollments {
		if e.Enrollments[i].AccountID == accountID {
			return &e.Enrollments[i]
		}
	}
	return nil
}

func (e *Event) isAlreadyEnrolled(accountID uint64) bool {
	return e.EnrollmentFor(accountID) != nil
}

func (e *Event) isEnrollmentOpen(now time.Time) bool {
	return e.EndEnrollmentAt.After(now)
}

func (e *Event) contains(enrollment Enrollment) bool {
	for _, existing := range e.Enrollments {
		if existing.ID == enrollment.ID {
			return true
		}
	}
	return false
}

// limit returns the enrollment cap. An unset limit behaves as zero: no
// spot is ever auto-accepted until the manager sets one.
func (e *Event) limit() int {
	if e.LimitOfEnrollment == nil {
		return 0
	}
	return *e.LimitOfEnrollment
}
