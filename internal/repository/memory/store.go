// Package memory provides process-local implementations of the repository
// interfaces. All repositories of one Store share a single mutex so that
// every operation is atomic with respect to the others, mirroring the
// guarantees of the SQL implementations.
package memory

import (
	"sync"

	"salonbook/internal/entity"
	"salonbook/internal/repository"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.Mutex

	users        map[uuid.UUID]entity.User
	admins       map[uuid.UUID]entity.Admin
	resets       map[uuid.UUID]entity.PasswordReset
	rateLimits   map[string]entity.RateLimitRecord
	securityLogs []entity.SecurityLog
}

func NewStore() *Store {
	return &Store{
		users:      make(map[uuid.UUID]entity.User),
		admins:     make(map[uuid.UUID]entity.Admin),
		resets:     make(map[uuid.UUID]entity.PasswordReset),
		rateLimits: make(map[string]entity.RateLimitRecord),
	}
}

func (s *Store) Set() repository.Set {
	return repository.Set{
		Users:          &userRepository{store: s},
		Admins:         &adminRepository{store: s},
		PasswordResets: &passwordResetRepository{store: s},
		RateLimits:     &rateLimitRepository{store: s},
		SecurityLogs:   &securityLogRepository{store: s},
	}
}

// PasswordResets returns a snapshot of every stored reset record.
func (s *Store) PasswordResets() []entity.PasswordReset {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.PasswordReset, 0, len(s.resets))
	for _, reset := range s.resets {
		out = append(out, reset)
	}
	return out
}

func (s *Store) SecurityLogs() []entity.SecurityLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.SecurityLog(nil), s.securityLogs...)
}
