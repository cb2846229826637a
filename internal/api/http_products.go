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

func (h *HTTPHandler) ListProducts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	products, err := h.repo.ListProducts(ctx)
	if err != nil {
		logrus.WithError(err).Error("failed to list products")
		InternalError(c, "failed to load products")
		return
	}
	if products == nil {
		products = []entity.DbProduct{}
	}

	c.JSON(http.StatusOK, products)
}

func (h *HTTPHandler) CreateProduct(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var req entity.ProductCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	name := strings.TrimSpace(req.Name)
	sku := strings.TrimSpace(req.SKU)
	if name == "" {
		MissingField(c, "name")
		return
	}
	if len(sku) != 4 {
		BadRequest(c, ErrCodeInvalidRequest, "sku must be exactly 4 characters")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.repo.GetProductCategory(ctx, req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			BadRequest(c, ErrCodeCategoryNotFound, "category does not exist")
			return
		}
		logrus.WithError(err).Error("failed to load category for product")
		InternalError(c, "failed to create product")
		return
	}

	product := &entity.DbProduct{
		Name:        name,
		SKU:         sku,
		CategoryID:  req.CategoryID,
		IsActive:    true,
		CreatedByID: user.ID,
	}
	if err := h.repo.CreateProduct(ctx, product); err != nil {
		logrus.WithError(err).Error("failed to create product")
		InternalError(c, "failed to create product")
		return
	}

	if _, err := h.auditLog.Record(ctx, user.ID, audit.ProductCreated{
		ProductID:   product.ID,
		ProductName: product.Name,
		SKU:         product.SKU,
	}); err != nil {
		logrus.WithError(err).WithField("product_id", product.ID).Error("failed to record admin activity")
	}

	c.JSON(http.StatusCreated, product)
}

func (h *HTTPHandler) UpdateProduct(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	productID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req entity.ProductUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	updates := entity.ProductUpdates{
		CategoryID: req.CategoryID,
		IsActive:   req.IsActive,
	}
	var changed []string
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" || len(name) > 100 {
			BadRequest(c, ErrCodeInvalidRequest, "invalid product name")
			return
		}
		updates.Name = &name
		changed = append(changed, "name")
	}
	if req.SKU != nil {
		sku := strings.TrimSpace(*req.SKU)
		if len(sku) != 4 {
			BadRequest(c, ErrCodeInvalidRequest, "sku must be exactly 4 characters")
			return
		}
		updates.SKU = &sku
		changed = append(changed, "sku")
	}
	if req.CategoryID != nil {
		changed = append(changed, "category_id")
	}
	if req.IsActive != nil {
		changed = append(changed, "is_active")
	}
	if updates.IsEmpty() {
		BadRequest(c, ErrCodeInvalidRequest, "no fields to update")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if req.CategoryID != nil {
		if _, err := h.repo.GetProductCategory(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				BadRequest(c, ErrCodeCategoryNotFound, "category does not exist")
				return
			}
			logrus.WithError(err).Error("failed to load category for product update")
			InternalError(c, "failed to update product")
			return
		}
	}

	if err := h.repo.UpdateProduct(ctx, productID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeProductNotFound, "product not found")
			return
		}
		logrus.WithError(err).WithField("product_id", productID).Error("failed to update product")
		InternalError(c, "failed to update product")
		return
	}

	if _, err := h.auditLog.Record(ctx, user.ID, audit.ProductUpdated{
		ProductID:     productID,
		ChangedFields: changed,
	}); err != nil {
		logrus.WithError(err).WithField("product_id", productID).Error("failed to record admin activity")
	}

	product, err := h.repo.GetProduct(ctx, productID)
	if err != nil {
		logrus.WithError(err).WithField("product_id", productID).Error("failed to reload product")
		InternalError(c, "failed to load updated product")
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *HTTPHandler) ListProductPrices(c *gin.Context) {
	productID, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.repo.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeProductNotFound, "product not found")
			return
		}
		logrus.WithError(err).WithField("product_id", productID).Error("failed to load product")
		InternalError(c, "failed to load prices")
		return
	}

	prices, err := h.repo.ListProductPrices(ctx, productID)
	if err != nil {
		logrus.WithError(err).WithField("product_id", productID).Error("failed to list prices")
		InternalError(c, "failed to load prices")
		return
	}
	if prices == nil {
		prices = []entity.DbProductPrice{}
	}

	c.JSON(http.StatusOK, prices)
}

// SetProductPrice closes the currently effective price entry and
// appends the new one to the history.
func (h *HTTPHandler) SetProductPrice(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	productID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req entity.ProductPriceCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	if req.Price <= 0 {
		BadRequest(c, ErrCodeInvalidRequest, "price must be positive")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.repo.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeProductNotFound, "product not found")
			return
		}
		logrus.WithError(err).WithField("product_id", productID).Error("failed to load product")
		InternalError(c, "failed to set price")
		return
	}

	now := time.Now().UTC()
	if err := h.repo.CloseCurrentProductPrice(ctx, productID, now); err != nil {
		logrus.WithError(err).WithField("product_id", productID).Error("failed to close current price")
		InternalError(c, "failed to set price")
		return
	}

	price := &entity.DbProductPrice{
		ProductID:   productID,
		Price:       req.Price,
		ValidFrom:   now,
		CreatedByID: user.ID,
	}
	if err := h.repo.CreateProductPrice(ctx, price); err != nil {
		logrus.WithError(err).WithField("product_id", productID).Error("failed to create price")
		InternalError(c, "failed to set price")
		return
	}

	if _, err := h.auditLog.Record(ctx, user.ID, audit.ProductPriceSet{
		ProductID: productID,
		Price:     price.Price,
	}); err != nil {
		logrus.WithError(err).WithField("product_id", productID).Error("failed to record admin activity")
	}

	c.JSON(http.StatusCreated, price)
}

func parseIDParam(c *gin.Context) (uint, bool) {
	rawID := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, ErrCodeInvalidRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}
