package entity

import "time"

// DbSession is a server-side login session keyed by an opaque id.
type DbSession struct {
	SID       string    `gorm:"column:sid;primaryKey;type:varchar(64)" json:"sid"`
	UserID    uint      `gorm:"column:user_id;index;not null" json:"user_id"`
	ExpiresAt time.Time `gorm:"column:expires_at;index;not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides default pluralised name.
func (DbSession) TableName() string {
	return "sessions"
}
