package models

import "time"

// Enrollment is one account's request to participate in an event.
// It is owned by its event: the Event holds the collection, the
// enrollment keeps only the EventID back-reference. At most one
// enrollment exists per (event, account) pair.
type Enrollment struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	EventID    uint64    `gorm:"not null;uniqueIndex:idx_enrollments_event_account" json:"event_id"`
	AccountID  uint64    `gorm:"not null;uniqueIndex:idx_enrollments_event_account" json:"account_id"`
	EnrolledAt time.Time `gorm:"not null;index" json:"enrolled_at"`
	Accepted   bool      `gorm:"not null;default:false" json:"accepted"`
	Attended   bool      `gorm:"not null;default:false" json:"attended"`

	Account Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
}

// CheckIn marks the participant as attended. Only accepted enrollments
// can check in.
func (e *Enrollment) CheckIn() error {
	if !e.Accepted {
		return ErrNotAccepted
	}
	e.Attended = true
	return nil
}

// CancelCheckIn clears the attended flag.
func (e *Enrollment) CancelCheckIn() {
	e.Attended = false
}
