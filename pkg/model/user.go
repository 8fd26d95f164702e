package model

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that can log in, directly or by being impersonated.
type User struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Username     string    `gorm:"column:username;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash"`
	IsActive     bool      `gorm:"column:is_active"`
	IsSuperuser  bool      `gorm:"column:is_superuser"`
	IsStaff      bool      `gorm:"column:is_staff"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
