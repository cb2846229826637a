package entity

import "time"

// DbProductCategory groups products for the catalogue.
type DbProductCategory struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"column:name;type:varchar(60);uniqueIndex;not null" json:"name"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedByID uint      `gorm:"column:created_by_id;not null" json:"created_by_id"`
}

// TableName overrides default pluralised name.
func (DbProductCategory) TableName() string {
	return "product_categories"
}

// DbProduct is a catalogue item inside a category.
type DbProduct struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"column:name;type:varchar(100);not null" json:"name"`
	SKU         string    `gorm:"column:sku;type:char(4);not null" json:"sku"`
	CategoryID  uint      `gorm:"column:category_id;index;not null" json:"category_id"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedByID uint      `gorm:"column:created_by_id;not null" json:"created_by_id"`

	Category DbProductCategory `gorm:"foreignKey:CategoryID" json:"-"`
}

// TableName overrides default pluralised name.
func (DbProduct) TableName() string {
	return "products"
}

// DbProductPrice is one entry in a product's pricing history. The row
// with a NULL valid_until is the currently effective price.
type DbProductPrice struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	ProductID   uint       `gorm:"column:product_id;index;not null" json:"product_id"`
	Price       int64      `gorm:"column:price;not null" json:"price"`
	ValidFrom   time.Time  `gorm:"column:valid_from;not null" json:"valid_from"`
	ValidUntil  *time.Time `gorm:"column:valid_until" json:"valid_until"`
	CreatedAt   time.Time  `json:"created_at"`
	CreatedByID uint       `gorm:"column:created_by_id;not null" json:"created_by_id"`
}

// TableName overrides default pluralised name.
func (DbProductPrice) TableName() string {
	return "product_prices"
}

type CategoryCreateRequest struct {
	Name string `json:"name" binding:"required"`
}

type CategoryCheckNameResponse struct {
	Exists bool `json:"exists"`
}

type ProductCreateRequest struct {
	Name       string `json:"name" binding:"required,max=100"`
	SKU        string `json:"sku" binding:"required,len=4"`
	CategoryID uint   `json:"category_id" binding:"required"`
}

type ProductUpdateRequest struct {
	Name       *string `json:"name,omitempty"`
	SKU        *string `json:"sku,omitempty"`
	CategoryID *uint   `json:"category_id,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

type ProductPriceCreateRequest struct {
	Price int64 `json:"price" binding:"required,gt=0"`
}
