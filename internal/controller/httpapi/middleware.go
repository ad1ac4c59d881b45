package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/edu_platform/internal/auth"
	"github.com/Freeeeeet/edu_platform/internal/metrics"
	"github.com/Freeeeeet/edu_platform/internal/model"
	"github.com/Freeeeeet/edu_platform/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const userKey = "edu_user"

func requestLogger(logger *zap.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)

		if m != nil {
			m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
			m.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(elapsed.Seconds())
		}

		logger.Debug("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed))
	}
}

func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// authMiddleware проверяет bearer JWT и кладёт пользователя в контекст
func authMiddleware(secret []byte, users UserLoader, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractBearerToken(c)
		if raw == "" {
			abortJSON(c, http.StatusUnauthorized, "user not authenticated")
			return
		}

		claims, err := auth.ParseToken(raw, secret)
		if err != nil {
			logger.Debug("Rejected bearer token", zap.Error(err))
			abortJSON(c, http.StatusUnauthorized, "invalid token")
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				abortJSON(c, http.StatusUnauthorized, "user not found")
				return
			}
			logger.Error("Failed to load user", zap.Int64("user_id", claims.UserID), zap.Error(err))
			abortJSON(c, http.StatusInternalServerError, "internal error")
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentUser(c).IsAdmin() {
			abortJSON(c, http.StatusForbidden, "permission denied")
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *model.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*model.User); ok {
			return u
		}
	}
	return &model.User{}
}

// canActFor студент действует только от своего имени, админ от любого
func canActFor(c *gin.Context, studentID int64) bool {
	u := currentUser(c)
	return u.IsAdmin() || u.ID == studentID
}

func abortJSON(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
