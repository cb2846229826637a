package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"herbalog/internal/audit"
	"herbalog/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const defaultActivityPageSize = 20

// ListAdminActivities returns one page of the audit log, newest
// first. Non-positive or non-numeric page parameters are rejected
// rather than clamped, so the pagination math stays well-defined.
func (h *HTTPHandler) ListAdminActivities(c *gin.Context) {
	page, ok := parsePageParam(c, "page", 1)
	if !ok {
		return
	}
	pageSize, ok := parsePageParam(c, "pageSize", defaultActivityPageSize)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	activities, totalCount, err := h.auditLog.List(ctx, page, pageSize)
	if err != nil {
		if errors.Is(err, audit.ErrInvalidPage) {
			BadRequest(c, ErrCodeInvalidPage, "page and pageSize must be positive")
			return
		}
		logrus.WithError(err).Error("failed to list admin activities")
		InternalError(c, "failed to load admin activities")
		return
	}

	c.JSON(http.StatusOK, entity.AdminActivityListResponse{
		Activities: activities,
		TotalCount: totalCount,
	})
}

func parsePageParam(c *gin.Context, name string, fallback int) (int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		BadRequest(c, ErrCodeInvalidPage, name+" must be a positive integer")
		return 0, false
	}
	return value, true
}
