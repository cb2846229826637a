package entity

import (
	"time"

	"herbalog/internal/authz"
)

// DbUser represents a persisted user account.
type DbUser struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	Email        string     `gorm:"column:email;type:varchar(320);uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"column:password;type:text;not null" json:"-"`
	FirstName    string     `gorm:"column:first_name;type:varchar(50);not null" json:"first_name"`
	LastName     string     `gorm:"column:last_name;type:varchar(50);not null" json:"last_name"`
	Role         authz.Role `gorm:"column:role;type:varchar(20);not null;default:DISTRIBUTOR" json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
}

// TableName overrides default pluralised name.
func (DbUser) TableName() string {
	return "users"
}

// PublicUser is the subset of a user record safe to return to clients.
type PublicUser struct {
	ID        uint       `json:"id"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Role      authz.Role `json:"role"`
}

// Public strips the credential fields from a user record.
func (u *DbUser) Public() PublicUser {
	if u == nil {
		return PublicUser{}
	}
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
	}
}

type AuthRegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Role      string `json:"role,omitempty"`
}

type AuthLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
