package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sejins/studyhub/internal/database"
	apierrors "github.com/sejins/studyhub/internal/errors"
	"github.com/sejins/studyhub/internal/models"
)

// Context keys set by RequireStudyManager
const (
	ContextKeyStudy = "study"
)

// RequireStudyManager loads the study at the :path parameter and aborts
// unless the current account manages it. The loaded study (with managers
// and members) is stored in the context for the handler.
func RequireStudyManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Param("path")
		if path == "" {
			apierrors.BadRequest(c, "Study path is required")
			c.Abort()
			return
		}

		accountID, exists := GetAccountID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var study models.Study
		err := database.GetDB().
			Preload("Managers").
			Preload("Members").
			Preload("Tags").
			Preload("Zones").
			Where("path = ?", path).
			First(&study).Error
		if err != nil {
			apierrors.NotFound(c, "Study not found")
			c.Abort()
			return
		}

		if !study.IsManager(accountID) {
			apierrors.Forbidden(c, "Only study managers can perform this action")
			c.Abort()
			return
		}

		c.Set(ContextKeyStudy, study)
		c.Next()
	}
}

// GetStudy retrieves the study loaded by RequireStudyManager
func GetStudy(c *gin.Context) (models.Study, bool) {
	value, exists := c.Get(ContextKeyStudy)
	if !exists {
		return models.Study{}, false
	}
	study, ok := value.(models.Study)
	return study, ok
}
