package sql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"herbalog/internal/entity"

	"gorm.io/gorm"
)

// CreateProductCategory persists a new category. Name uniqueness is a
// store constraint; duplicates surface as gorm.ErrDuplicatedKey.
func (r *GormRepository) CreateProductCategory(ctx context.Context, category *entity.DbProductCategory) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if category == nil {
		return fmt.Errorf("category is nil")
	}
	return r.db.WithContext(ctx).Create(category).Error
}

// ListProductCategories returns every category ordered by name.
func (r *GormRepository) ListProductCategories(ctx context.Context) ([]entity.DbProductCategory, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var categories []entity.DbProductCategory
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GetProductCategory loads a category by ID.
func (r *GormRepository) GetProductCategory(ctx context.Context, id uint) (*entity.DbProductCategory, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid category id")
	}
	var category entity.DbProductCategory
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindProductCategoryByName does a case-insensitive name lookup. A
// missing category returns (nil, nil).
func (r *GormRepository) FindProductCategoryByName(ctx context.Context, name string) (*entity.DbProductCategory, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, nil
	}
	var category entity.DbProductCategory
	err := r.db.WithContext(ctx).Where("LOWER(name) = ?", strings.ToLower(trimmed)).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// DeleteProductCategory removes a category by ID.
func (r *GormRepository) DeleteProductCategory(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid category id")
	}
	result := r.db.WithContext(ctx).Delete(&entity.DbProductCategory{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
