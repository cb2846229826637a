package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"herbalog/internal/auth"
	"herbalog/internal/authz"
	"herbalog/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func (h *HTTPHandler) setSessionCookie(c *gin.Context, value string) {
	maxAge := int(h.sessions.TTL() / time.Second)
	c.SetCookie(SessionCookieName, value, maxAge, "/", "", h.cfg.IsProduction(), true)
}

func (h *HTTPHandler) clearSessionCookie(c *gin.Context) {
	c.SetCookie(SessionCookieName, "", -1, "/", "", h.cfg.IsProduction(), true)
}

func (h *HTTPHandler) Register(c *gin.Context) {
	var req entity.AuthRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)
	role := authz.RoleDistributor
	if trimmed := strings.TrimSpace(req.Role); trimmed != "" {
		role = authz.Role(trimmed)
		if !role.Valid() {
			BadRequest(c, ErrCodeInvalidRequest, "unknown role")
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	// Friendly fast path; the unique constraint below remains the
	// authoritative check under concurrent registrations.
	if _, err := h.repo.GetUserByEmail(ctx, email); err == nil {
		BadRequest(c, ErrCodeEmailExists, "email already in use")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logrus.WithError(err).Error("failed to check existing email")
		InternalError(c, "failed to process registration")
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		logrus.WithError(err).Error("failed to hash password")
		InternalError(c, "failed to register user")
		return
	}

	user := &entity.DbUser{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         role,
	}

	if err := h.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			BadRequest(c, ErrCodeEmailExists, "email already in use")
			return
		}
		logrus.WithError(err).Error("failed to create user")
		InternalError(c, "failed to register user")
		return
	}

	cookieValue, err := h.sessions.Create(ctx, user.ID)
	if err != nil {
		logrus.WithError(err).Error("failed to create session after registration")
		InternalError(c, "failed to create session")
		return
	}

	h.setSessionCookie(c, cookieValue)
	c.JSON(http.StatusCreated, user.Public())
}

func (h *HTTPHandler) Login(c *gin.Context) {
	var req entity.AuthLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "email and password are required")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)
	if email == "" || password == "" {
		BadRequest(c, ErrCodeInvalidRequest, "email and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	// Unknown email and wrong password answer identically so the
	// response does not reveal which part was wrong.
	user, err := h.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ErrorResponse(c, http.StatusUnauthorized, ErrCodeInvalidCredentials, "invalid email or password")
			return
		}
		logrus.WithError(err).Error("failed to load user for login")
		InternalError(c, "failed to process login")
		return
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("stored password hash is unusable")
		InternalError(c, "failed to process login")
		return
	}
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, ErrCodeInvalidCredentials, "invalid email or password")
		return
	}

	cookieValue, err := h.sessions.Create(ctx, user.ID)
	if err != nil {
		logrus.WithError(err).Error("failed to create session")
		InternalError(c, "failed to create session")
		return
	}

	h.setSessionCookie(c, cookieValue)
	c.JSON(http.StatusOK, user.Public())
}

// Logout destroys the current session. It is deliberately not behind
// AuthMiddleware: logging out twice, or with a stale cookie, succeeds.
func (h *HTTPHandler) Logout(c *gin.Context) {
	cookieValue, err := c.Cookie(SessionCookieName)
	if err == nil && cookieValue != "" {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		if err := h.sessions.Destroy(ctx, cookieValue); err != nil {
			logrus.WithError(err).Warn("failed to destroy session on logout")
		}
	}
	h.clearSessionCookie(c)
	c.Status(http.StatusOK)
}

// Me returns the authenticated principal's public profile.
func (h *HTTPHandler) Me(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}
	c.JSON(http.StatusOK, entity.PublicUser{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
	})
}
