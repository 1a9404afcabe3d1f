package entity

import (
	"time"

	"github.com/google/uuid"
)

const RateLimitTypeEmail = "email"

type RateLimitRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Identifier string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_rate_limit_identifier_type"`
	Type       string    `gorm:"type:varchar(16);not null;uniqueIndex:idx_rate_limit_identifier_type"`

	Attempts    int       `gorm:"not null;default:0"`
	WindowStart time.Time `gorm:"not null"`
	LastAttempt time.Time `gorm:"not null;index"`
	LockedUntil *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *RateLimitRecord) IsLocked(now time.Time) bool {
	return r.LockedUntil != nil && r.LockedUntil.After(now)
}
