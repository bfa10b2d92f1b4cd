package models

import (
	"errors"
	"fmt"
)

// Domain-level errors returned by the Study lifecycle and the Event
// enrollment engine. Services wrap these; handlers map them to HTTP
// responses with errors.Is.
var (
	// ErrInvalidStateTransition is returned when a lifecycle operation is
	// attempted from a state that forbids it (publish twice, close before
	// publish, toggle recruiting while closed, ...).
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrRecruitingCooldown is an ErrInvalidStateTransition raised when
	// recruiting was toggled less than an hour ago.
	ErrRecruitingCooldown = fmt.Errorf("%w: recruiting was updated less than an hour ago", ErrInvalidStateTransition)

	// ErrNotJoinable is returned when an account cannot join a study:
	// the study is not recruiting, or the account already belongs to it.
	ErrNotJoinable = errors.New("study is not joinable for this account")

	// ErrNotRemovable is returned when an account cannot leave a study:
	// the study is closed or the account is not a member.
	ErrNotRemovable = errors.New("account cannot be removed from this study")

	// ErrPolicyViolation is returned when accept/reject is invoked against
	// an event whose type does not support manager confirmation, or when
	// accepting would exceed the enrollment limit.
	ErrPolicyViolation = errors.New("operation not allowed by event policy")

	// ErrNotAccepted is returned when checking in an enrollment that has
	// not been accepted.
	ErrNotAccepted = errors.New("enrollment is not accepted")
)
