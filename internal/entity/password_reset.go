package entity

import (
	"time"

	"github.com/google/uuid"
)

type IdentityType string

const (
	IdentityMobile IdentityType = "mobile"
	IdentityAdmin  IdentityType = "admin"
)

func (t IdentityType) Valid() bool {
	return t == IdentityMobile || t == IdentityAdmin
}

type ResetStatus string

const (
	ResetStatusActive  ResetStatus = "active"
	ResetStatusUsed    ResetStatus = "used"
	ResetStatusExpired ResetStatus = "expired"
)

// PasswordReset is one issued reset credential. Only the hash of the secret
// is stored. The partial unique index keeps a single active row per
// (email, identity_type).
type PasswordReset struct {
	ID           uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string       `gorm:"type:varchar(255);not null;index:idx_password_resets_active,unique,where:status = 'active'"`
	IdentityType IdentityType `gorm:"type:varchar(16);not null;index:idx_password_resets_active,unique,where:status = 'active'"`

	CredentialHash string      `gorm:"type:text;not null;index"`
	Status         ResetStatus `gorm:"type:varchar(16);not null;default:'active';index"`

	ExpiresAt time.Time `gorm:"not null;index"`
	UsedAt    *time.Time

	IPAddress *string `gorm:"type:varchar(45)"`
	UserAgent *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *PasswordReset) IsExpired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}
