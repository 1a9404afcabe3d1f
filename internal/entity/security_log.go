package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SecurityAction string

const (
	LoginSuccess           SecurityAction = "login_success"
	LoginFailed            SecurityAction = "login_failed"
	PasswordResetRequested SecurityAction = "password_reset_requested"
	PasswordResetCompleted SecurityAction = "password_reset_completed"
	PasswordResetFailed    SecurityAction = "password_reset_failed"
	RateLimited            SecurityAction = "rate_limited"
)

type SecurityLog struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	IdentityID   *uuid.UUID   `gorm:"type:uuid;index"`
	IdentityType IdentityType `gorm:"type:varchar(16)"`
	Email        string       `gorm:"type:varchar(255);index"`

	IPAddress *string        `gorm:"type:varchar(45)"`
	Action    SecurityAction `gorm:"type:varchar(40);not null"`

	Metadata datatypes.JSON

	CreatedAt time.Time
}
