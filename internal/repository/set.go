package repository

import "gorm.io/gorm"

// Set groups the repositories the services are built from.
type Set struct {
	Users          UserRepository
	Admins         AdminRepository
	PasswordResets PasswordResetRepository
	RateLimits     RateLimitRepository
	SecurityLogs   SecurityLogRepository
}

func NewSet(db *gorm.DB) Set {
	return Set{
		Users:          NewUserRepository(db),
		Admins:         NewAdminRepository(db),
		PasswordResets: NewPasswordResetRepository(db),
		RateLimits:     NewRateLimitRepository(db),
		SecurityLogs:   NewSecurityLogRepository(db),
	}
}
