package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/sejins/studyhub/internal/errors"
	"github.com/sejins/studyhub/internal/repository"
)

// ReferenceHandler serves the tag and zone whitelists used for
// autocomplete in the settings and study forms.
type ReferenceHandler struct {
	tagRepo  repository.TagRepository
	zoneRepo repository.ZoneRepository
}

// NewReferenceHandler creates a new ReferenceHandler.
func NewReferenceHandler(tagRepo repository.TagRepository, zoneRepo repository.ZoneRepository) *ReferenceHandler {
	return &ReferenceHandler{
		tagRepo:  tagRepo,
		zoneRepo: zoneRepo,
	}
}

// ListTags returns every known tag title.
func (h *ReferenceHandler) ListTags(c *gin.Context) {
	tags, err := h.tagRepo.List()
	if err != nil {
		apierrors.InternalError(c, "Failed to list tags")
		return
	}

	titles := make([]string, 0, len(tags))
	for _, tag := range tags {
		titles = append(titles, tag.Title)
	}

	c.JSON(http.StatusOK, gin.H{
		"tags": titles,
	})
}

// ListZones returns every seeded zone.
func (h *ReferenceHandler) ListZones(c *gin.Context) {
	zones, err := h.zoneRepo.List()
	if err != nil {
		apierrors.InternalError(c, "Failed to list zones")
		return
	}

	type zoneItem struct {
		ID   uint64 `json:"id"`
		Name string `json:"name"`
	}
	items := make([]zoneItem, 0, len(zones))
	for _, zone := range zones {
		items = append(items, zoneItem{ID: zone.ID, Name: zone.String()})
	}

	c.JSON(http.StatusOK, gin.H{
		"zones": items,
	})
}
