package dto

import (
	"time"

	"github.com/sejins/studyhub/internal/models"
)

// StudyListItemDTO represents a study in list and search responses
type StudyListItemDTO struct {
	ID               uint64     `json:"id"`
	Path             string     `json:"path"`
	Title            string     `json:"title"`
	ShortDescription string     `json:"short_description"`
	Published        bool       `json:"published"`
	Closed           bool       `json:"closed"`
	Recruiting       bool       `json:"recruiting"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
	MemberCount      int        `json:"member_count"`
	Tags             []string   `json:"tags,omitempty"`
	Zones            []string   `json:"zones,omitempty"`
}

// StudyDTO represents a study in detail responses
type StudyDTO struct {
	ID               uint64     `json:"id"`
	Path             string     `json:"path"`
	Title            string     `json:"title"`
	ShortDescription string     `json:"short_description"`
	FullDescription  string     `json:"full_description"`
	Image            string     `json:"image,omitempty"`
	UseBanner        bool       `json:"use_banner"`
	Published        bool       `json:"published"`
	Closed           bool       `json:"closed"`
	Recruiting       bool       `json:"recruiting"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
	ClosedAt         *time.Time `json:"closed_at,omitempty"`

	Tags     []string            `json:"tags,omitempty"`
	Zones    []string            `json:"zones,omitempty"`
	Managers []AccountSummaryDTO `json:"managers,omitempty"`
	Members  []AccountSummaryDTO `json:"members,omitempty"`

	// Viewer-dependent flags, populated for authenticated requests.
	IsManager bool `json:"is_manager"`
	IsMember  bool `json:"is_member"`
	Joinable  bool `json:"joinable"`
}

// StudyListResponse represents a paginated list of studies
type StudyListResponse struct {
	Studies    []StudyListItemDTO `json:"studies"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalCount int64              `json:"total_count"`
}

// ToStudyListItemDTO converts a study model to its list representation
func ToStudyListItemDTO(study *models.Study) StudyListItemDTO {
	d := StudyListItemDTO{
		ID:               study.ID,
		Path:             study.Path,
		Title:            study.Title,
		ShortDescription: study.ShortDescription,
		Published:        study.Published,
		Closed:           study.Closed,
		Recruiting:       study.Recruiting,
		PublishedAt:      study.PublishedAt,
		MemberCount:      len(study.Members),
	}
	for _, tag := range study.Tags {
		d.Tags = append(d.Tags, tag.Title)
	}
	for _, zone := range study.Zones {
		d.Zones = append(d.Zones, zone.String())
	}
	return d
}

// ToStudyDTO converts a study model to its detail representation. The
// viewer's account ID drives the role flags; pass 0 for anonymous views.
func ToStudyDTO(study *models.Study, viewerID uint64) StudyDTO {
	d := StudyDTO{
		ID:               study.ID,
		Path:             study.Path,
		Title:            study.Title,
		ShortDescription: study.ShortDescription,
		FullDescription:  study.FullDescription,
		Image:            study.Image,
		UseBanner:        study.UseBanner,
		Published:        study.Published,
		Closed:           study.Closed,
		Recruiting:       study.Recruiting,
		PublishedAt:      study.PublishedAt,
		ClosedAt:         study.ClosedAt,
	}
	for _, tag := range study.Tags {
		d.Tags = append(d.Tags, tag.Title)
	}
	for _, zone := range study.Zones {
		d.Zones = append(d.Zones, zone.String())
	}
	for i := range study.Managers {
		d.Managers = append(d.Managers, ToAccountSummaryDTO(&study.Managers[i]))
	}
	for i := range study.Members {
		d.Members = append(d.Members, ToAccountSummaryDTO(&study.Members[i]))
	}
	if viewerID != 0 {
		d.IsManager = study.IsManager(viewerID)
		d.IsMember = study.IsMember(viewerID)
		d.Joinable = study.IsJoinable(viewerID)
	}
	return d
}
