package entity

import "time"

// AdminAction tags an admin activity record. The set is extensible;
// new actions add new constants and a matching detail payload.
type AdminAction string

const (
	ActionCreatedCategory AdminAction = "CREATED_CATEGORY"
	ActionDeletedCategory AdminAction = "DELETED_CATEGORY"
	ActionCreatedProduct  AdminAction = "CREATED_PRODUCT"
	ActionUpdatedProduct  AdminAction = "UPDATED_PRODUCT"
	ActionSetProductPrice AdminAction = "SET_PRODUCT_PRICE"
)

// DbAdminActivity is an append-only audit record of an admin action.
// There is deliberately no update or delete path for this table.
type DbAdminActivity struct {
	ID        uint        `gorm:"primarykey" json:"id"`
	UserID    uint        `gorm:"column:user_id;index;not null" json:"user_id"`
	Action    AdminAction `gorm:"column:action;type:varchar(50);not null" json:"action"`
	Details   JSONMap     `gorm:"column:details;type:json" json:"details"`
	Timestamp time.Time   `gorm:"column:timestamp;index;autoCreateTime;not null" json:"timestamp"`

	User DbUser `gorm:"foreignKey:UserID" json:"-"`
}

// TableName overrides default pluralised name.
func (DbAdminActivity) TableName() string {
	return "admin_activities"
}

// AdminActivityItem is one audit record joined with the actor's
// public profile.
type AdminActivityItem struct {
	ID        uint        `json:"id"`
	Action    AdminAction `json:"action"`
	Details   JSONMap     `json:"details"`
	Timestamp time.Time   `json:"timestamp"`
	User      PublicUser  `json:"user"`
}

type AdminActivityListResponse struct {
	Activities []AdminActivityItem `json:"activities"`
	TotalCount int64               `json:"total_count"`
}
