package entity

import (
	"time"

	"github.com/google/uuid"
)

type AdminRole string

const (
	AdminRoleAdmin      AdminRole = "admin"
	AdminRoleSuperAdmin AdminRole = "super-admin"
)

type Admin struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Username     string    `gorm:"type:varchar(20);uniqueIndex;not null"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:text;not null"`
	Role         AdminRole `gorm:"type:varchar(20);default:'admin';not null"`
	IsActive     bool      `gorm:"default:true"`

	LastLoginAt *time.Time
	LastLoginIP *string `gorm:"type:varchar(45)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
