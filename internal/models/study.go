package models

import (
	"time"
)

// recruitingUpdateInterval is the minimum delay between recruiting toggles.
const recruitingUpdateInterval = time.Hour

// Study is a study group with a publish/recruit/close lifecycle.
//
// The lifecycle flags are only mutated through the named transition
// methods below; each one re-checks its own precondition and returns
// ErrInvalidStateTransition when called from a forbidden state.
// Managers and Members are kept disjoint: an account is never in both.
type Study struct {
	ID               uint64    `gorm:"primarykey" json:"id"`
	Path             string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"path"`
	Title            string    `gorm:"type:varchar(100);not null" json:"title"`
	ShortDescription string    `gorm:"type:varchar(255)" json:"short_description"`
	FullDescription  string    `gorm:"type:text" json:"full_description"`
	Image            string    `gorm:"type:text" json:"image"`
	UseBanner        bool      `gorm:"not null;default:false" json:"use_banner"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Published  bool `gorm:"not null;default:false" json:"published"`
	Closed     bool `gorm:"not null;default:false" json:"closed"`
	Recruiting bool `gorm:"not null;default:false" json:"recruiting"`

	PublishedAt         *time.Time `json:"published_at"`
	ClosedAt            *time.Time `json:"closed_at"`
	RecruitingUpdatedAt *time.Time `json:"recruiting_updated_at"`

	Managers []Account `gorm:"many2many:study_managers" json:"managers,omitempty"`
	Members  []Account `gorm:"many2many:study_members" json:"members,omitempty"`
	Tags     []Tag     `gorm:"many2many:study_tags" json:"tags,omitempty"`
	Zones    []Zone    `gorm:"many2many:study_zones" json:"zones,omitempty"`
}

// CanPublish reports whether the study is still a draft.
func (s *Study) CanPublish() bool {
	return !s.Closed && !s.Published
}

// Publish makes the study visible and stamps PublishedAt.
func (s *Study) Publish(now time.Time) error {
	if !s.CanPublish() {
		return ErrInvalidStateTransition
	}
	s.Published = true
	s.PublishedAt = &now
	return nil
}

// CanClose reports whether the study can be closed.
func (s *Study) CanClose() bool {
	return s.Published && !s.Closed
}

// Close ends the study. Closing is terminal: no transition is allowed
// afterwards.
func (s *Study) Close(now time.Time) error {
	if !s.CanClose() {
		return ErrInvalidStateTransition
	}
	s.Closed = true
	s.ClosedAt = &now
	return nil
}

// CanUpdateRecruiting reports whether the recruiting flag may be toggled:
// either it was never toggled, or the last toggle is more than an hour old.
func (s *Study) CanUpdateRecruiting(now time.Time) bool {
	if s.RecruitingUpdatedAt == nil {
		return true
	}
	return s.RecruitingUpdatedAt.Before(now.Add(-recruitingUpdateInterval))
}

// CanStartRecruit reports whether recruiting can be turned on.
func (s *Study) CanStartRecruit() bool {
	return !s.Closed && s.Published && !s.Recruiting
}

// StartRecruit turns recruiting on. The one-hour cooldown is enforced
// here rather than left to the caller.
func (s *Study) StartRecruit(now time.Time) error {
	if !s.CanStartRecruit() {
		return ErrInvalidStateTransition
	}
	if !s.CanUpdateRecruiting(now) {
		return ErrRecruitingCooldown
	}
	s.Recruiting = true
	s.RecruitingUpdatedAt = &now
	return nil
}

// CanStopRecruit reports whether recruiting can be turned off.
func (s *Study) CanStopRecruit() bool {
	return !s.Closed && s.Published && s.Recruiting
}

// StopRecruit turns recruiting off, subject to the same cooldown as
// StartRecruit.
func (s *Study) StopRecruit(now time.Time) error {
	if !s.CanStopRecruit() {
		return ErrInvalidStateTransition
	}
	if !s.CanUpdateRecruiting(now) {
		return ErrRecruitingCooldown
	}
	s.Recruiting = false
	s.RecruitingUpdatedAt = &now
	return nil
}

// AddManager registers an account as a manager. Used at creation time;
// managers are never demoted to members.
func (s *Study) AddManager(account Account) {
	if !containsAccount(s.Managers, account.ID) {
		s.Managers = append(s.Managers, account)
	}
}

// AddMember joins an account to the study. The study must be published,
// not closed and recruiting, and the account must not already belong to
// it in either role.
func (s *Study) AddMember(account Account) error {
	if !s.Published || s.Closed || !s.Recruiting {
		return ErrNotJoinable
	}
	if containsAccount(s.Managers, account.ID) || containsAccount(s.Members, account.ID) {
		return ErrNotJoinable
	}
	s.Members = append(s.Members, account)
	return nil
}

// RemoveMember removes an account from the member set. Leaving is allowed
// at any point before the study closes.
func (s *Study) RemoveMember(account Account) error {
	if s.Closed || !containsAccount(s.Members, account.ID) {
		return ErrNotRemovable
	}
	s.Members = removeAccount(s.Members, account.ID)
	return nil
}

// IsJoinable reports whether the given account could join right now.
func (s *Study) IsJoinable(accountID uint64) bool {
	return s.Published && !s.Closed && s.Recruiting &&
		!containsAccount(s.Members, accountID) && !containsAccount(s.Managers, accountID)
}

// IsMember reports whether the account is a member.
func (s *Study) IsMember(accountID uint64) bool {
	return containsAccount(s.Members, accountID)
}

// IsManager reports whether the account is a manager.
func (s *Study) IsManager(accountID uint64) bool {
	return containsAccount(s.Managers, accountID)
}

// IsRemovable reports whether the study may be deleted. Published studies
// are never physically deleted.
func (s *Study) IsRemovable() bool {
	return !s.Published
}

func containsAccount(accounts []Account, id uint64) bool {
	for _, a := range accounts {
		if a.ID == id {
			return true
		}
	}
	return false
}

func removeAccount(accounts []Account, id uint64) []Account {
	out := accounts[:0]
	for _, a := range accounts {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}
