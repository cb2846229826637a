package sql

import (
	"context"
	"fmt"
	"time"

	"herbalog/internal/entity"

	"gorm.io/gorm"
)

// CreateProduct persists a new product.
func (r *GormRepository) CreateProduct(ctx context.Context, product *entity.DbProduct) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if product == nil {
		return fmt.Errorf("product is nil")
	}
	return r.db.WithContext(ctx).Create(product).Error
}

// ListProducts returns every product ordered by name.
func (r *GormRepository) ListProducts(ctx context.Context) ([]entity.DbProduct, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var products []entity.DbProduct
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct loads a product by ID.
func (r *GormRepository) GetProduct(ctx context.Context, id uint) (*entity.DbProduct, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid product id")
	}
	var product entity.DbProduct
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct applies a partial update to a product.
func (r *GormRepository) UpdateProduct(ctx context.Context, id uint, updates entity.ProductUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid product id")
	}
	if updates.IsEmpty() {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&entity.DbProduct{}).Where("id = ?", id).Updates(updates.ToMap())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateProductPrice appends a new entry to a product's price history.
func (r *GormRepository) CreateProductPrice(ctx context.Context, price *entity.DbProductPrice) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if price == nil {
		return fmt.Errorf("price is nil")
	}
	return r.db.WithContext(ctx).Create(price).Error
}

// ListProductPrices returns a product's price history, newest first.
func (r *GormRepository) ListProductPrices(ctx context.Context, productID uint) ([]entity.DbProductPrice, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if productID == 0 {
		return nil, fmt.Errorf("invalid product id")
	}
	var prices []entity.DbProductPrice
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("valid_from DESC, id DESC").Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

// CloseCurrentProductPrice ends the currently open price entry, if
// any, so the next entry becomes the effective one.
func (r *GormRepository) CloseCurrentProductPrice(ctx context.Context, productID uint, at time.Time) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if productID == 0 {
		return fmt.Errorf("invalid product id")
	}
	return r.db.WithContext(ctx).
		Model(&entity.DbProductPrice{}).
		Where("product_id = ? AND valid_until IS NULL", productID).
		Update("valid_until", at).Error
}
