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
	"gorm.io/gorm"
)

func (h *HTTPHandler) ListCategories(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	categories, err := h.repo.ListProductCategories(ctx)
	if err != nil {
		logrus.WithError(err).Error("failed to list product categories")
		InternalError(c, "failed to load categories")
		return
	}
	if categories == nil {
		categories = []entity.DbProductCategory{}
	}

	c.JSON(http.StatusOK, categories)
}

func (h *HTTPHandler) CreateCategory(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var req entity.CategoryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		MissingField(c, "name")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	// the unique index is exact-case; this lookup enforces the
	// case-insensitive uniqueness rule
	existing, err := h.repo.FindProductCategoryByName(ctx, name)
	if err != nil {
		logrus.WithError(err).Error("failed to check category name")
		InternalError(c, "failed to create category")
		return
	}
	if existing != nil {
		BadRequest(c, ErrCodeCategoryExists, "category name already in use")
		return
	}

	category := &entity.DbProductCategory{
		Name:        name,
		CreatedByID: user.ID,
	}
	if err := h.repo.CreateProductCategory(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			BadRequest(c, ErrCodeCategoryExists, "category name already in use")
			return
		}
		logrus.WithError(err).Error("failed to create product category")
		InternalError(c, "failed to create category")
		return
	}

	if _, err := h.auditLog.Record(ctx, user.ID, audit.CategoryCreated{
		CategoryID:   category.ID,
		CategoryName: category.Name,
	}); err != nil {
		// the category exists; a lost audit record is logged, not rolled back
		logrus.WithError(err).WithField("category_id", category.ID).Error("failed to record admin activity")
	}

	c.JSON(http.StatusCreated, category)
}

func (h *HTTPHandler) CheckCategoryName(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		MissingField(c, "name")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	existing, err := h.repo.FindProductCategoryByName(ctx, name)
	if err != nil {
		logrus.WithError(err).Error("failed to check category name")
		InternalError(c, "failed to check category name")
		return
	}

	c.JSON(http.StatusOK, entity.CategoryCheckNameResponse{Exists: existing != nil})
}

func (h *HTTPHandler) DeleteCategory(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	rawID := strings.TrimSpace(c.Param("id"))
	categoryID, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || categoryID == 0 {
		BadRequest(c, ErrCodeInvalidRequest, "invalid category id")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	category, err := h.repo.GetProductCategory(ctx, uint(categoryID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeCategoryNotFound, "category not found")
			return
		}
		logrus.WithError(err).WithField("category_id", categoryID).Error("failed to load category")
		InternalError(c, "failed to delete category")
		return
	}

	if err := h.repo.DeleteProductCategory(ctx, uint(categoryID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeCategoryNotFound, "category not found")
			return
		}
		logrus.WithError(err).WithField("category_id", categoryID).Error("failed to delete category")
		InternalError(c, "failed to delete category")
		return
	}

	if _, err := h.auditLog.Record(ctx, user.ID, audit.CategoryDeleted{
		CategoryID:   category.ID,
		CategoryName: category.Name,
	}); err != nil {
		logrus.WithError(err).WithField("category_id", category.ID).Error("failed to record admin activity")
	}

	c.Status(http.StatusOK)
}
