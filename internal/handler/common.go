package handler

import (
	"errors"
	"net/http"

	"adminbase/internal/service"
	"adminbase/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// actorID extracts the authenticated caller's account id set by the auth middleware
func actorID(c *gin.Context) string {
	if v, ok := c.Get("accountID"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// fail writes the standard error envelope for a service error, mapping the
// authorization and not-found sentinels to their HTTP statuses
func fail(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		status = http.StatusForbidden
	case errors.Is(err, gorm.ErrRecordNotFound):
		status = http.StatusNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		status = http.StatusConflict
	}
	c.JSON(status, response.Error(status, err.Error()))
}
