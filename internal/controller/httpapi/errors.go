package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Freeeeeet/edu_platform/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeError ValidationError→400, BadCredentials→401, Denied→403, NotFound→404, Conflict→409,
// UpstreamFailed→502, остальное 500
func (h *handler) writeError(c *gin.Context, err error) {
	var verr *service.ValidationError

	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": verr.Fields})
	case errors.Is(err, service.ErrValidation):
		abortJSON(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrBadCredentials):
		abortJSON(c, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, service.ErrDenied):
		abortJSON(c, http.StatusForbidden, "access denied")
	case errors.Is(err, service.ErrNotFound):
		abortJSON(c, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrConflict):
		abortJSON(c, http.StatusConflict, "already exists")
	case errors.Is(err, service.ErrUpstreamFailed):
		abortJSON(c, http.StatusBadGateway, "completion provider failed")
	default:
		h.Logger.Error("Request failed",
			zap.String("route", c.FullPath()),
			zap.Error(err))
		abortJSON(c, http.StatusInternalServerError, "internal error")
	}
}

func badRequest(c *gin.Context, msg string) {
	abortJSON(c, http.StatusBadRequest, msg)
}

func forbidden(c *gin.Context) {
	abortJSON(c, http.StatusForbidden, "permission denied")
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}

func queryID(c *gin.Context, key string) (int64, bool) {
	id, err := strconv.ParseInt(c.Query(key), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid "+key)
		return 0, false
	}
	return id, true
}
