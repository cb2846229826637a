package entity

// ProductUpdates holds the mutable product fields for a partial update.
type ProductUpdates struct {
	Name       *string
	SKU        *string
	CategoryID *uint
	IsActive   *bool
}

// ToMap converts to a GORM updates map.
func (u ProductUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.SKU != nil {
		updates["sku"] = *u.SKU
	}
	if u.CategoryID != nil {
		updates["category_id"] = *u.CategoryID
	}
	if u.IsActive != nil {
		updates["is_active"] = *u.IsActive
	}
	return updates
}

// IsEmpty reports whether no fields are set.
func (u ProductUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}
