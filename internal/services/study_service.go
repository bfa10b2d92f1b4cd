package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sejins/studyhub/internal/models"
	"github.com/sejins/studyhub/internal/queue"
	"github.com/sejins/studyhub/internal/repository"
	"github.com/sejins/studyhub/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrStudyNotFound     = errors.New("study not found")
	ErrStudyPathTaken    = errors.New("study path already in use")
	ErrInvalidStudyPath  = errors.New("study path must be a non-empty slug")
	ErrAccessDenied      = errors.New("only study managers can perform this action")
	ErrStudyNotRemovable = errors.New("published studies cannot be removed")
)

// StudyPublishedPayload is the task payload for notification fanout after
// a study goes public.
type StudyPublishedPayload struct {
	Path string `json:"path"`
}

// StudyService provides business logic for the study lifecycle,
// membership and classification.
type StudyService struct {
	studyRepo repository.StudyRepository
	tagRepo   repository.TagRepository
	zoneRepo  repository.ZoneRepository
	taskQueue queue.Queue
}

// NewStudyService creates a new StudyService.
func NewStudyService(studyRepo repository.StudyRepository, tagRepo repository.TagRepository, zoneRepo repository.ZoneRepository, taskQueue queue.Queue) *StudyService {
	return &StudyService{
		studyRepo: studyRepo,
		tagRepo:   tagRepo,
		zoneRepo:  zoneRepo,
		taskQueue: taskQueue,
	}
}

// CreateStudyInput represents parameters to create a new study.
type CreateStudyInput struct {
	Path             string
	Title            string
	ShortDescription string
	FullDescription  string
}

// CreateNewStudy creates a draft study with the creator as its manager.
func (s *StudyService) CreateNewStudy(creator models.Account, input CreateStudyInput) (*models.Study, error) {
	path := strings.TrimSpace(input.Path)
	if path == "" || strings.ContainsAny(path, " /") {
		return nil, ErrInvalidStudyPath
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("title is required")
	}

	taken, err := s.studyRepo.ExistsByPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to check study path: %w", err)
	}
	if taken {
		return nil, ErrStudyPathTaken
	}

	study := &models.Study{
		Path:             path,
		Title:            input.Title,
		ShortDescription: input.ShortDescription,
		FullDescription:  input.FullDescription,
	}
	study.AddManager(creator)

	if err := s.studyRepo.Create(study); err != nil {
		return nil, fmt.Errorf("failed to create study: %w", err)
	}
	return study, nil
}

// GetStudy returns the study at the path with all relations loaded.
func (s *StudyService) GetStudy(path string) (*models.Study, error) {
	study, err := s.studyRepo.FindByPath(path)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudyNotFound
		}
		return nil, fmt.Errorf("failed to find study: %w", err)
	}
	return study, nil
}

// GetStudyToUpdate returns the study only when the account manages it.
func (s *StudyService) GetStudyToUpdate(accountID uint64, path string) (*models.Study, error) {
	study, err := s.GetStudy(path)
	if err != nil {
		return nil, err
	}
	if !study.IsManager(accountID) {
		return nil, ErrAccessDenied
	}
	return study, nil
}

// UpdateDescriptionInput holds the editable description fields.
type UpdateDescriptionInput struct {
	ShortDescription string
	FullDescription  string
}

// UpdateDescription updates the study descriptions.
func (s *StudyService) UpdateDescription(study *models.Study, input UpdateDescriptionInput) error {
	study.ShortDescription = input.ShortDescription
	study.FullDescription = input.FullDescription
	if err := s.studyRepo.Update(study); err != nil {
		return fmt.Errorf("failed to update study description: %w", err)
	}
	return nil
}

// UpdateImage replaces the banner image.
func (s *StudyService) UpdateImage(study *models.Study, image string) error {
	study.Image = image
	if err := s.studyRepo.Update(study); err != nil {
		return fmt.Errorf("failed to update study image: %w", err)
	}
	return nil
}

// SetBanner toggles banner display.
func (s *StudyService) SetBanner(study *models.Study, enabled bool) error {
	study.UseBanner = enabled
	if err := s.studyRepo.Update(study); err != nil {
		return fmt.Errorf("failed to update study banner: %w", err)
	}
	return nil
}

// UpdateTitle renames the study.
func (s *StudyService) UpdateTitle(study *models.Study, title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required")
	}
	study.Title = title
	if err := s.studyRepo.Update(study); err != nil {
		return fmt.Errorf("failed to update study title: %w", err)
	}
	return nil
}

// UpdatePath changes the study's unique path slug.
func (s *StudyService) UpdatePath(study *models.Study, path string) error {
	path = strings.TrimSpace(path)
	if path == "" || strings.ContainsAny(path, " /") {
		return ErrInvalidStudyPath
	}
	taken, err := s.studyRepo.ExistsByPath(path)
	if err != nil {
		return fmt.Errorf("failed to check study path: %w", err)
	}
	if taken && path != study.Path {
		return ErrStudyPathTaken
	}
	study.Path = path
	if err := s.studyRepo.Update(study); err != nil {
		return fmt.Errorf("failed to update study path: %w", err)
	}
	return nil
}

// Publish makes the study public and queues the interest-match fanout.
func (s *StudyService) Publish(study *models.Study) error {
	if err := study.Publish(time.Now()); err != nil {
		return err
	}
	if err := s.studyRepo.Update(study); err != nil {
		return fmt.Errorf("failed to publish study: %w", err)
	}

	if s.taskQueue != nil {
		payload := StudyPublishedPayload{Path: study.Path}
		if err := s.taskQueue.Enqueue(queue.TaskStudyPublished, payload); err != nil {
			logger.Warn().Err(err).Str("study", study.Path).Msg("failed to enqueue study fanout")
		}
	}
	return nil
}

// Close ends the study permanently.
func (s *StudyService) Close(study *models.Study) error {
	if err := study.Close(time.Now()); err != nil {
		return err
	}
	if err := s.studyRepo.Update(study); err != nil {
		return fmt.Errorf("failed to close study: %w", err)
	}
	return nil
}

// StartRecruit turns member recruiting on.
func (s *StudyService) StartRecruit(study *models.Study) error {
	if err := study.StartRecruit(time.Now()); err != nil {
		return err
	}
	if err := s.studyRepo.Update(study); err != nil {
		return fmt.Errorf("failed to start recruiting: %w", err)
	}
	return nil
}

// StopRecruit turns member recruiting off.
func (s *StudyService) StopRecruit(study *models.Study) error {
	if err := study.StopRecruit(time.Now()); err != nil {
		return err
	}
	if err := s.studyRepo.Update(study); err != nil {
		return fmt.Errorf("failed to stop recruiting: %w", err)
	}
	return nil
}

// JoinStudy adds the account to the study's members.
func (s *StudyService) JoinStudy(account models.Account, path string) (*models.Study, error) {
	study, err := s.findWithMembers(path)
	if err != nil {
		return nil, err
	}
	if err := study.AddMember(account); err != nil {
		return nil, err
	}
	if err := s.studyRepo.ReplaceMembers(study); err != nil {
		return nil, fmt.Errorf("failed to join study: %w", err)
	}
	return study, nil
}

// LeaveStudy removes the account from the study's members.
func (s *StudyService) LeaveStudy(account models.Account, path string) (*models.Study, error) {
	study, err := s.findWithMembers(path)
	if err != nil {
		return nil, err
	}
	if err := study.RemoveMember(account); err != nil {
		return nil, err
	}
	if err := s.studyRepo.ReplaceMembers(study); err != nil {
		return nil, fmt.Errorf("failed to leave study: %w", err)
	}
	return study, nil
}

// RemoveStudy deletes the study. Only unpublished studies are removable.
func (s *StudyService) RemoveStudy(accountID uint64, path string) error {
	study, err := s.GetStudyToUpdate(accountID, path)
	if err != nil {
		return err
	}
	if !study.IsRemovable() {
		return ErrStudyNotRemovable
	}
	if err := s.studyRepo.Delete(study); err != nil {
		return fmt.Errorf("failed to remove study: %w", err)
	}
	return nil
}

// AddTag attaches a classification tag to the study.
func (s *StudyService) AddTag(study *models.Study, title string) error {
	tag, err := s.tagRepo.FindOrCreateByTitle(strings.TrimSpace(title))
	if err != nil {
		return fmt.Errorf("failed to find or create tag: %w", err)
	}
	if err := s.studyRepo.AddTag(study, *tag); err != nil {
		return fmt.Errorf("failed to add tag: %w", err)
	}
	return nil
}

// RemoveTag detaches a classification tag from the study.
func (s *StudyService) RemoveTag(study *models.Study, title string) error {
	tag, err := s.tagRepo.FindByTitle(title)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTagNotFound
		}
		return fmt.Errorf("failed to find tag: %w", err)
	}
	if err := s.studyRepo.RemoveTag(study, *tag); err != nil {
		return fmt.Errorf("failed to remove tag: %w", err)
	}
	return nil
}

// AddZone attaches a zone to the study.
func (s *StudyService) AddZone(study *models.Study, zoneID uint64) error {
	zone, err := s.zoneRepo.FindByID(zoneID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrZoneNotFound
		}
		return fmt.Errorf("failed to find zone: %w", err)
	}
	if err := s.studyRepo.AddZone(study, *zone); err != nil {
		return fmt.Errorf("failed to add zone: %w", err)
	}
	return nil
}

// RemoveZone detaches a zone from the study.
func (s *StudyService) RemoveZone(study *models.Study, zoneID uint64) error {
	zone, err := s.zoneRepo.FindByID(zoneID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrZoneNotFound
		}
		return fmt.Errorf("failed to find zone: %w", err)
	}
	if err := s.studyRepo.RemoveZone(study, *zone); err != nil {
		return fmt.Errorf("failed to remove zone: %w", err)
	}
	return nil
}

// SearchStudies lists published studies matching the keyword.
func (s *StudyService) SearchStudies(filter repository.StudySearchFilter) ([]models.Study, int64, error) {
	studies, total, err := s.studyRepo.Search(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search studies: %w", err)
	}
	return studies, total, nil
}

func (s *StudyService) findWithMembers(path string) (*models.Study, error) {
	study, err := s.studyRepo.FindByPathWithMembers(path)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudyNotFound
		}
		return nil, fmt.Errorf("failed to find study: %w", err)
	}
	return study, nil
}
