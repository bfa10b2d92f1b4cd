package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sejins/studyhub/internal/mail"
	"github.com/sejins/studyhub/internal/models"
	"github.com/sejins/studyhub/internal/repository"
	"github.com/sejins/studyhub/pkg/logger"
	"gorm.io/gorm"
)

// NotificationService creates in-app notifications and the matching
// emails according to each account's preferences.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	accountRepo      repository.AccountRepository
	studyRepo        repository.StudyRepository
	sender           mail.Sender
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notificationRepo repository.NotificationRepository, accountRepo repository.AccountRepository, studyRepo repository.StudyRepository, sender mail.Sender) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		accountRepo:      accountRepo,
		studyRepo:        studyRepo,
		sender:           sender,
	}
}

// HandleStudyPublished is the queue handler for study fanout: it notifies
// every verified account whose interest tags and zones intersect the
// study's classification.
func (s *NotificationService) HandleStudyPublished(ctx context.Context, payload []byte) error {
	var task StudyPublishedPayload
	if err := json.Unmarshal(payload, &task); err != nil {
		return fmt.Errorf("failed to decode study fanout payload: %w", err)
	}

	study, err := s.studyRepo.FindByPath(task.Path)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Study removed before the task ran; nothing to do.
			return nil
		}
		return fmt.Errorf("failed to load study %s: %w", task.Path, err)
	}

	tagIDs := make([]uint64, len(study.Tags))
	for i, tag := range study.Tags {
		tagIDs[i] = tag.ID
	}
	zoneIDs := make([]uint64, len(study.Zones))
	for i, zone := range study.Zones {
		zoneIDs[i] = zone.ID
	}

	accounts, err := s.accountRepo.FindByInterests(tagIDs, zoneIDs)
	if err != nil {
		return fmt.Errorf("failed to match accounts: %w", err)
	}

	link := "/studies/" + study.Path
	var notifications []models.Notification
	for _, account := range accounts {
		if account.StudyCreatedByWeb {
			notifications = append(notifications, models.Notification{
				Title:     study.Title,
				Link:      link,
				Message:   study.ShortDescription,
				AccountID: account.ID,
				Type:      models.NotificationStudyCreated,
			})
		}
		if account.StudyCreatedByEmail && s.sender != nil {
			msg := mail.Message{
				To:      account.Email,
				Subject: fmt.Sprintf("New study: %s", study.Title),
				Body:    fmt.Sprintf("A study matching your interests was published.\n\n%s\n%s\n", study.Title, link),
			}
			if err := s.sender.Send(msg); err != nil {
				logger.Warn().Err(err).Str("to", account.Email).Msg("failed to send study mail")
			}
		}
	}

	if err := s.notificationRepo.CreateBatch(notifications); err != nil {
		return fmt.Errorf("failed to create notifications: %w", err)
	}

	logger.Info().
		Str("study", study.Path).
		Int("matched", len(accounts)).
		Int("notified", len(notifications)).
		Msg("study fanout completed")
	return nil
}

// EnrollmentResult notifies an account about an enrollment decision by web
// and mail, each gated by the account's preference. Failures only log;
// enrollment operations never fail on notifications.
func (s *NotificationService) EnrollmentResult(accountID uint64, event *models.Event, message string) {
	account, err := s.accountRepo.FindByID(accountID)
	if err != nil {
		logger.Warn().Err(err).Uint64("account", accountID).Msg("failed to load account for notification")
		return
	}

	link := fmt.Sprintf("/events/%d", event.ID)
	if account.StudyEnrollmentResultByWeb {
		notification := &models.Notification{
			Title:     event.Title,
			Link:      link,
			Message:   message,
			AccountID: accountID,
			Type:      models.NotificationEnrollmentResult,
		}
		if err := s.notificationRepo.Create(notification); err != nil {
			logger.Warn().Err(err).Uint64("account", accountID).Msg("failed to create notification")
		}
	}
	if account.StudyEnrollmentResultByEmail && s.sender != nil {
		msg := mail.Message{
			To:      account.Email,
			Subject: fmt.Sprintf("Enrollment update: %s", event.Title),
			Body:    fmt.Sprintf("%s\n\n%s\n%s\n", message, event.Title, link),
		}
		if err := s.sender.Send(msg); err != nil {
			logger.Warn().Err(err).Str("to", account.Email).Msg("failed to send enrollment mail")
		}
	}
}

// ListNotifications returns the account's notifications by checked state.
func (s *NotificationService) ListNotifications(accountID uint64, checked bool) ([]models.Notification, error) {
	notifications, err := s.notificationRepo.ListByAccount(accountID, checked)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// CountUnchecked returns the unread notification count.
func (s *NotificationService) CountUnchecked(accountID uint64) (int64, error) {
	count, err := s.notificationRepo.CountUnchecked(accountID)
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}

// MarkChecked marks the given notifications as read.
func (s *NotificationService) MarkChecked(accountID uint64, ids []uint64) error {
	if err := s.notificationRepo.MarkChecked(accountID, ids); err != nil {
		return fmt.Errorf("failed to mark notifications: %w", err)
	}
	return nil
}

// DeleteChecked removes all read notifications.
func (s *NotificationService) DeleteChecked(accountID uint64) error {
	if err := s.notificationRepo.DeleteChecked(accountID); err != nil {
		return fmt.Errorf("failed to delete notifications: %w", err)
	}
	return nil
}
