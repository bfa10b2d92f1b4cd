package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sejins/studyhub/internal/constants"
	"github.com/sejins/studyhub/internal/mail"
	"github.com/sejins/studyhub/internal/models"
	"github.com/sejins/studyhub/internal/queue"
	"github.com/sejins/studyhub/internal/repository"
	"github.com/sejins/studyhub/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrNicknameTaken        = errors.New("nickname already taken")
	ErrInvalidCredentials   = errors.New("invalid email/nickname or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrAccountNotFound      = errors.New("account not found")
	ErrInvalidEmailToken    = errors.New("invalid email check token")
	ErrResendCooldown       = errors.New("confirmation email was sent less than an hour ago")
	ErrEmailNotVerified     = errors.New("email address is not verified")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrTagNotFound          = errors.New("tag not found")
	ErrZoneNotFound         = errors.New("zone not found")
)

// AccountService handles signup, login and account settings.
type AccountService struct {
	accountRepo repository.AccountRepository
	tagRepo     repository.TagRepository
	zoneRepo    repository.ZoneRepository
	taskQueue   queue.Queue
	appHost     string
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo repository.AccountRepository, tagRepo repository.TagRepository, zoneRepo repository.ZoneRepository, taskQueue queue.Queue, appHost string) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		tagRepo:     tagRepo,
		zoneRepo:    zoneRepo,
		taskQueue:   taskQueue,
		appHost:     appHost,
	}
}

// SignupInput represents the required information to create a new account.
type SignupInput struct {
	Email    string
	Nickname string
	Password string
}

// Signup registers an unverified account and queues the confirmation mail.
func (s *AccountService) Signup(input SignupInput) (*models.Account, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	nickname := strings.TrimSpace(input.Nickname)
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if nickname == "" {
		return nil, fmt.Errorf("nickname is required")
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.accountRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if _, err := s.accountRepo.FindByNickname(nickname); err == nil {
		return nil, ErrNicknameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check nickname: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	account := &models.Account{
		Email:        email,
		Nickname:     nickname,
		PasswordHash: string(hashedPassword),
	}
	account.GenerateEmailCheckToken(time.Now())

	if err := s.accountRepo.Create(account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.enqueueConfirmEmail(account)
	return account, nil
}

// VerifyEmail completes signup for the account matching email and token.
func (s *AccountService) VerifyEmail(email, token string) (*models.Account, error) {
	account, err := s.accountRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidEmailToken
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	if !account.IsValidToken(token) {
		return nil, ErrInvalidEmailToken
	}

	account.CompleteSignUp(time.Now())
	if err := s.accountRepo.Update(account); err != nil {
		return nil, fmt.Errorf("failed to complete signup: %w", err)
	}
	return account, nil
}

// ResendConfirmEmail regenerates the check token and queues a new mail.
// Resends are limited to one per hour.
func (s *AccountService) ResendConfirmEmail(accountID uint64) error {
	account, err := s.GetAccount(accountID)
	if err != nil {
		return err
	}
	if !account.CanSendConfirmEmail(time.Now()) {
		return ErrResendCooldown
	}

	account.GenerateEmailCheckToken(time.Now())
	if err := s.accountRepo.Update(account); err != nil {
		return fmt.Errorf("failed to update check token: %w", err)
	}

	s.enqueueConfirmEmail(account)
	return nil
}

// SendLoginLink regenerates the check token and mails a passwordless
// login link to a verified account. Limited to one per hour.
func (s *AccountService) SendLoginLink(email string) error {
	account, err := s.accountRepo.FindByEmail(strings.ToLower(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("failed to find account: %w", err)
	}
	if !account.EmailVerified {
		return ErrEmailNotVerified
	}
	if !account.CanSendConfirmEmail(time.Now()) {
		return ErrResendCooldown
	}

	account.GenerateEmailCheckToken(time.Now())
	if err := s.accountRepo.Update(account); err != nil {
		return fmt.Errorf("failed to update check token: %w", err)
	}

	s.enqueueLoginEmail(account)
	return nil
}

// LoginByEmail authenticates the account matching email and a mailed
// login-link token.
func (s *AccountService) LoginByEmail(email, token string) (*models.Account, error) {
	account, err := s.accountRepo.FindByEmail(strings.ToLower(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidEmailToken
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	if !account.IsValidToken(token) {
		return nil, ErrInvalidEmailToken
	}
	return account, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	EmailOrNickname string
	Password        string
}

// Login verifies credentials and returns the authenticated account.
// Either the email or the nickname identifies the account.
func (s *AccountService) Login(input LoginInput) (*models.Account, error) {
	account, err := s.accountRepo.FindByEmail(strings.ToLower(input.EmailOrNickname))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to find account: %w", err)
		}
		account, err = s.accountRepo.FindByNickname(input.EmailOrNickname)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidCredentials
			}
			return nil, fmt.Errorf("failed to find account: %w", err)
		}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (s *AccountService) GetAccount(id uint64) (*models.Account, error) {
	account, err := s.accountRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return account, nil
}

// GetAccountWithInterests retrieves an account with tags and zones.
func (s *AccountService) GetAccountWithInterests(id uint64) (*models.Account, error) {
	account, err := s.accountRepo.FindByIDWithInterests(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return account, nil
}

// ProfileInput holds editable profile fields.
type ProfileInput struct {
	Bio          string
	URL          string
	Occupation   string
	Location     string
	ProfileImage string
}

// UpdateProfile updates the account's profile fields.
func (s *AccountService) UpdateProfile(accountID uint64, input ProfileInput) (*models.Account, error) {
	account, err := s.GetAccount(accountID)
	if err != nil {
		return nil, err
	}

	account.Bio = input.Bio
	account.URL = input.URL
	account.Occupation = input.Occupation
	account.Location = input.Location
	account.ProfileImage = input.ProfileImage

	if err := s.accountRepo.Update(account); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return account, nil
}

// UpdatePassword replaces the account password.
func (s *AccountService) UpdatePassword(accountID uint64, newPassword string) error {
	if len(newPassword) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	account, err := s.GetAccount(accountID)
	if err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}

	account.PasswordHash = string(hashedPassword)
	if err := s.accountRepo.Update(account); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// UpdateNickname changes the account's unique nickname.
func (s *AccountService) UpdateNickname(accountID uint64, nickname string) (*models.Account, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return nil, fmt.Errorf("nickname is required")
	}

	if existing, err := s.accountRepo.FindByNickname(nickname); err == nil {
		if existing.ID != accountID {
			return nil, ErrNicknameTaken
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check nickname: %w", err)
	}

	account, err := s.GetAccount(accountID)
	if err != nil {
		return nil, err
	}

	account.Nickname = nickname
	if err := s.accountRepo.Update(account); err != nil {
		return nil, fmt.Errorf("failed to update nickname: %w", err)
	}
	return account, nil
}

// NotificationPreferencesInput holds the notification toggles.
type NotificationPreferencesInput struct {
	StudyCreatedByEmail          bool
	StudyCreatedByWeb            bool
	StudyEnrollmentResultByEmail bool
	StudyEnrollmentResultByWeb   bool
	StudyUpdatedByEmail          bool
	StudyUpdatedByWeb            bool
}

// UpdateNotificationPreferences replaces the account's notification toggles.
func (s *AccountService) UpdateNotificationPreferences(accountID uint64, input NotificationPreferencesInput) (*models.Account, error) {
	account, err := s.GetAccount(accountID)
	if err != nil {
		return nil, err
	}

	account.StudyCreatedByEmail = input.StudyCreatedByEmail
	account.StudyCreatedByWeb = input.StudyCreatedByWeb
	account.StudyEnrollmentResultByEmail = input.StudyEnrollmentResultByEmail
	account.StudyEnrollmentResultByWeb = input.StudyEnrollmentResultByWeb
	account.StudyUpdatedByEmail = input.StudyUpdatedByEmail
	account.StudyUpdatedByWeb = input.StudyUpdatedByWeb

	if err := s.accountRepo.Update(account); err != nil {
		return nil, fmt.Errorf("failed to update notification preferences: %w", err)
	}
	return account, nil
}

// AddTag attaches an interest tag to the account, creating the tag if new.
func (s *AccountService) AddTag(accountID uint64, title string) error {
	account, err := s.GetAccount(accountID)
	if err != nil {
		return err
	}
	tag, err := s.tagRepo.FindOrCreateByTitle(strings.TrimSpace(title))
	if err != nil {
		return fmt.Errorf("failed to find or create tag: %w", err)
	}
	if err := s.accountRepo.AddTag(account, *tag); err != nil {
		return fmt.Errorf("failed to add tag: %w", err)
	}
	return nil
}

// RemoveTag detaches an interest tag from the account.
func (s *AccountService) RemoveTag(accountID uint64, title string) error {
	account, err := s.GetAccount(accountID)
	if err != nil {
		return err
	}
	tag, err := s.tagRepo.FindByTitle(title)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTagNotFound
		}
		return fmt.Errorf("failed to find tag: %w", err)
	}
	if err := s.accountRepo.RemoveTag(account, *tag); err != nil {
		return fmt.Errorf("failed to remove tag: %w", err)
	}
	return nil
}

// AddZone attaches a zone of interest to the account.
func (s *AccountService) AddZone(accountID, zoneID uint64) error {
	account, err := s.GetAccount(accountID)
	if err != nil {
		return err
	}
	zone, err := s.zoneRepo.FindByID(zoneID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrZoneNotFound
		}
		return fmt.Errorf("failed to find zone: %w", err)
	}
	if err := s.accountRepo.AddZone(account, *zone); err != nil {
		return fmt.Errorf("failed to add zone: %w", err)
	}
	return nil
}

// RemoveZone detaches a zone of interest from the account.
func (s *AccountService) RemoveZone(accountID, zoneID uint64) error {
	account, err := s.GetAccount(accountID)
	if err != nil {
		return err
	}
	zone, err := s.zoneRepo.FindByID(zoneID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrZoneNotFound
		}
		return fmt.Errorf("failed to find zone: %w", err)
	}
	if err := s.accountRepo.RemoveZone(account, *zone); err != nil {
		return fmt.Errorf("failed to remove zone: %w", err)
	}
	return nil
}

func (s *AccountService) enqueueConfirmEmail(account *models.Account) {
	if s.taskQueue == nil {
		return
	}
	link := fmt.Sprintf("%s/api/auth/check-email-token?token=%s&email=%s",
		s.appHost, account.EmailCheckToken, account.Email)
	msg := mail.Message{
		To:      account.Email,
		Subject: "StudyHub email confirmation",
		Body:    fmt.Sprintf("Hello %s,\n\nConfirm your email address by visiting:\n%s\n", account.Nickname, link),
	}
	// Mail is fire-and-forget; signup must not fail on queue errors.
	if err := s.taskQueue.Enqueue(queue.TaskMailDeliver, msg); err != nil {
		logger.Warn().Err(err).Str("to", account.Email).Msg("failed to enqueue confirmation mail")
	}
}

func (s *AccountService) enqueueLoginEmail(account *models.Account) {
	if s.taskQueue == nil {
		return
	}
	link := fmt.Sprintf("%s/api/auth/login-by-email?token=%s&email=%s",
		s.appHost, account.EmailCheckToken, account.Email)
	msg := mail.Message{
		To:      account.Email,
		Subject: "StudyHub login link",
		Body:    fmt.Sprintf("Hello %s,\n\nLog in to StudyHub by visiting:\n%s\n", account.Nickname, link),
	}
	if err := s.taskQueue.Enqueue(queue.TaskMailDeliver, msg); err != nil {
		logger.Warn().Err(err).Str("to", account.Email).Msg("failed to enqueue login mail")
	}
}
