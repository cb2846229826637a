package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"herbalog/internal/auth"
	"herbalog/internal/authz"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	currentUserContextKey = "current-user"
)

// RequestUser is the authenticated principal for one request. It is
// built per request from the session lookup; there is no ambient
// process-wide auth state.
type RequestUser struct {
	ID        uint
	Email     string
	FirstName string
	LastName  string
	Role      authz.Role
}

// HasFeature reports whether the user's role grants the feature.
func (u *RequestUser) HasFeature(feature authz.Feature) bool {
	if u == nil {
		return false
	}
	return authz.HasFeature(u.Role, feature)
}

// AuthMiddleware resolves the session cookie into a RequestUser. A
// missing, tampered, or expired session aborts with 401.
func (h *HTTPHandler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookieValue, err := c.Cookie(SessionCookieName)
		if err != nil || cookieValue == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    ErrCodeUnauthorized,
				Message: "authentication required",
			})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		userID, err := h.sessions.Resolve(ctx, cookieValue)
		if err != nil {
			if errors.Is(err, auth.ErrNoSession) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
					Code:    ErrCodeUnauthorized,
					Message: "session invalid or expired",
				})
				return
			}
			logrus.WithError(err).Error("failed to resolve session")
			c.AbortWithStatusJSON(http.StatusInternalServerError, APIError{
				Code:    ErrCodeInternalError,
				Message: "failed to resolve session",
			})
			return
		}

		user, err := h.repo.GetUserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
					Code:    ErrCodeUnauthorized,
					Message: "user no longer exists",
				})
				return
			}
			logrus.WithError(err).WithField("user_id", userID).Error("failed to load user")
			c.AbortWithStatusJSON(http.StatusInternalServerError, APIError{
				Code:    ErrCodeInternalError,
				Message: "failed to verify user",
			})
			return
		}

		requestUser := &RequestUser{
			ID:        user.ID,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Role:      user.Role,
		}

		c.Set(currentUserContextKey, requestUser)
		c.Next()
	}
}

// RequireFeature guards a route behind the role/feature matrix. An
// authenticated user without the feature gets 403, distinct from the
// 401 of AuthMiddleware.
func (h *HTTPHandler) RequireFeature(feature authz.Feature) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    ErrCodeUnauthorized,
				Message: "authentication required",
			})
			return
		}
		if !user.HasFeature(feature) {
			c.AbortWithStatusJSON(http.StatusForbidden, APIError{
				Code:    ErrCodeForbidden,
				Message: "insufficient permissions",
			})
			return
		}
		c.Next()
	}
}

// CurrentUser extracts the authenticated principal from the request
// context.
func CurrentUser(c *gin.Context) *RequestUser {
	value, exists := c.Get(currentUserContextKey)
	if !exists {
		return nil
	}
	user, ok := value.(*RequestUser)
	if !ok {
		return nil
	}
	return user
}
