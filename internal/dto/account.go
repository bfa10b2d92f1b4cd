package dto

import (
	"time"

	"github.com/sejins/studyhub/internal/models"
)

// AccountDTO represents an account in API responses
type AccountDTO struct {
	ID            uint64     `json:"id"`
	Email         string     `json:"email"`
	Nickname      string     `json:"nickname"`
	EmailVerified bool       `json:"email_verified"`
	Bio           string     `json:"bio,omitempty"`
	URL           string     `json:"url,omitempty"`
	Occupation    string     `json:"occupation,omitempty"`
	Location      string     `json:"location,omitempty"`
	ProfileImage  string     `json:"profile_image,omitempty"`
	JoinedAt      *time.Time `json:"joined_at,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	Zones         []string   `json:"zones,omitempty"`
}

// AccountSummaryDTO represents an account reference in nested responses
type AccountSummaryDTO struct {
	ID           uint64 `json:"id"`
	Nickname     string `json:"nickname"`
	ProfileImage string `json:"profile_image,omitempty"`
}

// NotificationPreferencesDTO represents an account's notification settings
type NotificationPreferencesDTO struct {
	StudyCreatedByEmail          bool `json:"study_created_by_email"`
	StudyCreatedByWeb            bool `json:"study_created_by_web"`
	StudyEnrollmentResultByEmail bool `json:"study_enrollment_result_by_email"`
	StudyEnrollmentResultByWeb   bool `json:"study_enrollment_result_by_web"`
	StudyUpdatedByEmail          bool `json:"study_updated_by_email"`
	StudyUpdatedByWeb            bool `json:"study_updated_by_web"`
}

// ToAccountDTO converts an account model to its API representation
func ToAccountDTO(account *models.Account) AccountDTO {
	d := AccountDTO{
		ID:            account.ID,
		Email:         account.Email,
		Nickname:      account.Nickname,
		EmailVerified: account.EmailVerified,
		Bio:           account.Bio,
		URL:           account.URL,
		Occupation:    account.Occupation,
		Location:      account.Location,
		ProfileImage:  account.ProfileImage,
		JoinedAt:      account.JoinedAt,
	}
	for _, tag := range account.Tags {
		d.Tags = append(d.Tags, tag.Title)
	}
	for _, zone := range account.Zones {
		d.Zones = append(d.Zones, zone.String())
	}
	return d
}

// ToAccountSummaryDTO converts an account model to its nested representation
func ToAccountSummaryDTO(account *models.Account) AccountSummaryDTO {
	return AccountSummaryDTO{
		ID:           account.ID,
		Nickname:     account.Nickname,
		ProfileImage: account.ProfileImage,
	}
}

// ToNotificationPreferencesDTO converts an account's notification settings
func ToNotificationPreferencesDTO(account *models.Account) NotificationPreferencesDTO {
	return NotificationPreferencesDTO{
		StudyCreatedByEmail:          account.StudyCreatedByEmail,
		StudyCreatedByWeb:            account.StudyCreatedByWeb,
		StudyEnrollmentResultByEmail: account.StudyEnrollmentResultByEmail,
		StudyEnrollmentResultByWeb:   account.StudyEnrollmentResultByWeb,
		StudyUpdatedByEmail:          account.StudyUpdatedByEmail,
		StudyUpdatedByWeb:            account.StudyUpdatedByWeb,
	}
}
