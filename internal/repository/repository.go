package repository

import (
	"github.com/sejins/studyhub/internal/models"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// Create creates a new account
	Create(account *models.Account) error

	// FindByID finds an account by ID
	FindByID(id uint64) (*models.Account, error)

	// FindByEmail finds an account by email
	FindByEmail(email string) (*models.Account, error)

	// FindByNickname finds an account by nickname
	FindByNickname(nickname string) (*models.Account, error)

	// FindByIDWithInterests finds an account with tags and zones preloaded
	FindByIDWithInterests(id uint64) (*models.Account, error)

	// FindByInterests lists verified accounts whose tags and zones
	// intersect the given sets
	FindByInterests(tagIDs, zoneIDs []uint64) ([]models.Account, error)

	// Update persists changes to an account
	Update(account *models.Account) error

	// AddTag / RemoveTag maintain the account's tag set
	AddTag(account *models.Account, tag models.Tag) error
	RemoveTag(account *models.Account, tag models.Tag) error

	// AddZone / RemoveZone maintain the account's zone set
	AddZone(account *models.Account, zone models.Zone) error
	RemoveZone(account *models.Account, zone models.Zone) error
}

// StudyRepository defines the interface for study data access
type StudyRepository interface {
	// Create creates a study together with its initial manager
	Create(study *models.Study) error

	// FindByPath finds a study by its path slug with all relations
	FindByPath(path string) (*models.Study, error)

	// FindByPathWithManagers finds a study with only managers preloaded
	FindByPathWithManagers(path string) (*models.Study, error)

	// FindByPathWithMembers finds a study with managers and members preloaded
	FindByPathWithMembers(path string) (*models.Study, error)

	// ExistsByPath reports whether a study with the path exists
	ExistsByPath(path string) (bool, error)

	// Update persists scalar field changes
	Update(study *models.Study) error

	// Delete removes a study and its events
	Delete(study *models.Study) error

	// ReplaceMembers synchronizes the member association with the
	// study's in-memory member set
	ReplaceMembers(study *models.Study) error

	// AddTag / RemoveTag maintain the study's tag set
	AddTag(study *models.Study, tag models.Tag) error
	RemoveTag(study *models.Study, tag models.Tag) error

	// AddZone / RemoveZone maintain the study's zone set
	AddZone(study *models.Study, zone models.Zone) error
	RemoveZone(study *models.Study, zone models.Zone) error

	// Search lists published studies matching the keyword over title and
	// tag titles, newest first
	Search(filter StudySearchFilter) ([]models.Study, int64, error)
}

// StudySearchFilter holds search options for listing studies
type StudySearchFilter struct {
	Keyword  string
	Page     int
	PageSize int
}

// EventRepository defines the interface for event data access
type EventRepository interface {
	// Create creates a new event
	Create(event *models.Event) error

	// FindByID finds an event with its enrollments in enrolledAt order
	FindByID(id uint64) (*models.Event, error)

	// ListByStudy lists a study's events ordered by start time
	ListByStudy(studyID uint64) ([]models.Event, error)

	// Update persists scalar field changes
	Update(event *models.Event) error

	// Delete removes an event and its enrollments
	Delete(event *models.Event) error
}

// EnrollmentRepository defines the interface for enrollment data access
type EnrollmentRepository interface {
	// Create creates a new enrollment
	Create(enrollment *models.Enrollment) error

	// FindByID finds an enrollment by ID
	FindByID(id uint64) (*models.Enrollment, error)

	// FindByEventAndAccount finds the enrollment for an (event, account) pair
	FindByEventAndAccount(eventID, accountID uint64) (*models.Enrollment, error)

	// ExistsByEventAndAccount reports whether the pair is already enrolled
	ExistsByEventAndAccount(eventID, accountID uint64) (bool, error)

	// Save persists changes to an enrollment
	Save(enrollment *models.Enrollment) error

	// SaveAll persists a batch of promoted enrollments atomically
	SaveAll(enrollments []*models.Enrollment) error

	// Delete removes an enrollment
	Delete(enrollment *models.Enrollment) error
}

// TagRepository defines the interface for tag data access
type TagRepository interface {
	// FindOrCreateByTitle returns the tag with the title, creating it if needed
	FindOrCreateByTitle(title string) (*models.Tag, error)

	// FindByTitle finds a tag by title
	FindByTitle(title string) (*models.Tag, error)

	// List returns all tags
	List() ([]models.Tag, error)
}

// ZoneRepository defines the interface for zone data access
type ZoneRepository interface {
	// FindByID finds a zone by ID
	FindByID(id uint64) (*models.Zone, error)

	// List returns all zones
	List() ([]models.Zone, error)
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	// Create creates a notification
	Create(notification *models.Notification) error

	// CreateBatch creates many notifications in one statement
	CreateBatch(notifications []models.Notification) error

	// ListByAccount lists an account's notifications, newest first,
	// filtered by checked state
	ListByAccount(accountID uint64, checked bool) ([]models.Notification, error)

	// CountUnchecked counts unread notifications
	CountUnchecked(accountID uint64) (int64, error)

	// MarkChecked marks the given notifications as read
	MarkChecked(accountID uint64, ids []uint64) error

	// DeleteChecked removes all read notifications of the account
	DeleteChecked(accountID uint64) error
}
