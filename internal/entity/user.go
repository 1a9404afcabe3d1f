package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	FullName     string    `gorm:"type:varchar(255);not null"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:text;not null"`
	Phone        *string   `gorm:"type:varchar(50)"`
	Photo        *string   `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
