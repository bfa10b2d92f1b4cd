package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account is a registered user. Email stays unverified until the account
// confirms the check token mailed at signup.
type Account struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Nickname     string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"nickname"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	EmailVerified               bool       `gorm:"not null;default:false" json:"email_verified"`
	EmailCheckToken             string     `gorm:"type:varchar(36)" json:"-"`
	EmailCheckTokenGeneratedAt  *time.Time `json:"-"`
	JoinedAt                    *time.Time `json:"joined_at"`

	// Profile
	Bio          string `gorm:"type:varchar(255)" json:"bio"`
	URL          string `gorm:"type:varchar(255)" json:"url"`
	Occupation   string `gorm:"type:varchar(100)" json:"occupation"`
	Location     string `gorm:"type:varchar(100)" json:"location"`
	ProfileImage string `gorm:"type:text" json:"profile_image"`

	// Notification preferences
	StudyCreatedByEmail          bool `gorm:"not null;default:false" json:"study_created_by_email"`
	StudyCreatedByWeb            bool `gorm:"not null;default:true" json:"study_created_by_web"`
	StudyEnrollmentResultByEmail bool `gorm:"not null;default:false" json:"study_enrollment_result_by_email"`
	StudyEnrollmentResultByWeb   bool `gorm:"not null;default:true" json:"study_enrollment_result_by_web"`
	StudyUpdatedByEmail          bool `gorm:"not null;default:false" json:"study_updated_by_email"`
	StudyUpdatedByWeb            bool `gorm:"not null;default:true" json:"study_updated_by_web"`

	// Relations
	Tags  []Tag  `gorm:"many2many:account_tags" json:"tags,omitempty"`
	Zones []Zone `gorm:"many2many:account_zones" json:"zones,omitempty"`
}

// GenerateEmailCheckToken issues a fresh verification token and stamps its
// generation time, which gates resends (see CanSendConfirmEmail).
func (a *Account) GenerateEmailCheckToken(now time.Time) {
	a.EmailCheckToken = uuid.NewString()
	a.EmailCheckTokenGeneratedAt = &now
}

// IsValidToken reports whether the given token matches the current one.
func (a *Account) IsValidToken(token string) bool {
	return a.EmailCheckToken != "" && a.EmailCheckToken == token
}

// CanSendConfirmEmail reports whether a confirmation mail may be sent.
// Resends are limited to one per hour.
func (a *Account) CanSendConfirmEmail(now time.Time) bool {
	if a.EmailCheckTokenGeneratedAt == nil {
		return true
	}
	return a.EmailCheckTokenGeneratedAt.Before(now.Add(-time.Hour))
}

// CompleteSignUp marks the email verified and stamps the join time.
func (a *Account) CompleteSignUp(now time.Time) {
	a.EmailVerified = true
	a.JoinedAt = &now
}
