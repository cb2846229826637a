package model

import (
	"context"
	"time"

	"herbalog/internal/entity"
)

// Repository defines the persistence operations of the application.
type Repository interface {
	// user accounts
	CreateUser(ctx context.Context, user *entity.DbUser) error
	GetUserByID(ctx context.Context, id uint) (*entity.DbUser, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error)
	CountUsers(ctx context.Context) (int64, error)

	// sessions
	CreateSession(ctx context.Context, session *entity.DbSession) error
	GetSession(ctx context.Context, sid string) (*entity.DbSession, error)
	DeleteSession(ctx context.Context, sid string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)

	// product categories
	CreateProductCategory(ctx context.Context, category *entity.DbProductCategory) error
	ListProductCategories(ctx context.Context) ([]entity.DbProductCategory, error)
	GetProductCategory(ctx context.Context, id uint) (*entity.DbProductCategory, error)
	FindProductCategoryByName(ctx context.Context, name string) (*entity.DbProductCategory, error)
	DeleteProductCategory(ctx context.Context, id uint) error

	// products and pricing history
	CreateProduct(ctx context.Context, product *entity.DbProduct) error
	ListProducts(ctx context.Context) ([]entity.DbProduct, error)
	GetProduct(ctx context.Context, id uint) (*entity.DbProduct, error)
	UpdateProduct(ctx context.Context, id uint, updates entity.ProductUpdates) error
	CreateProductPrice(ctx context.Context, price *entity.DbProductPrice) error
	ListProductPrices(ctx context.Context, productID uint) ([]entity.DbProductPrice, error)
	CloseCurrentProductPrice(ctx context.Context, productID uint, at time.Time) error

	// admin activity audit log (append-only)
	CreateAdminActivity(ctx context.Context, activity *entity.DbAdminActivity) error
	ListAdminActivities(ctx context.Context, page, pageSize int) ([]entity.DbAdminActivity, int64, error)
}
