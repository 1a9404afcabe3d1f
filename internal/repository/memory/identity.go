package memory

import (
	"context"
	"sort"
	"time"

	"salonbook/internal/entity"
	"salonbook/internal/repository"

	"github.com/google/uuid"
)

type userRepository struct {
	store *Store
}

func (r *userRepository) Create(_ context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	r.store.users[user.ID] = *user
	return nil
}

func (r *userRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, user := range r.store.users {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, nil
}

func (r *userRepository) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.PasswordHash = hash
	user.UpdatedAt = time.Now()
	r.store.users[id] = user
	return nil
}

// DeleteUser removes a user. Only used to simulate account deletion.
func (s *Store) DeleteUser(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

type adminRepository struct {
	store *Store
}

func (r *adminRepository) Create(_ context.Context, admin *entity.Admin) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.admins {
		if existing.Email == admin.Email || existing.Username == admin.Username {
			return repository.ErrDuplicate
		}
	}
	if admin.ID == uuid.Nil {
		admin.ID = uuid.New()
	}
	if admin.Role == "" {
		admin.Role = entity.AdminRoleAdmin
	}
	now := time.Now()
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = now
	}
	admin.UpdatedAt = now
	r.store.admins[admin.ID] = *admin
	return nil
}

func (r *adminRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Admin, error) {
	return r.find(func(a entity.Admin) bool { return a.ID == id && a.IsActive })
}

func (r *adminRepository) FindActiveByEmail(_ context.Context, email string) (*entity.Admin, error) {
	return r.find(func(a entity.Admin) bool { return a.Email == email && a.IsActive })
}

func (r *adminRepository) FindActiveByLogin(_ context.Context, login string) (*entity.Admin, error) {
	return r.find(func(a entity.Admin) bool { return (a.Username == login || a.Email == login) && a.IsActive })
}

func (r *adminRepository) FindByUsername(_ context.Context, username string) (*entity.Admin, error) {
	return r.find(func(a entity.Admin) bool { return a.Username == username })
}

func (r *adminRepository) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	admin, ok := r.store.admins[id]
	if !ok {
		return repository.ErrNotFound
	}
	admin.PasswordHash = hash
	admin.IsActive = true
	admin.UpdatedAt = time.Now()
	r.store.admins[id] = admin
	return nil
}

func (r *adminRepository) RecordLogin(_ context.Context, id uuid.UUID, at time.Time, ipAddress *string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	admin, ok := r.store.admins[id]
	if !ok {
		return nil
	}
	admin.LastLoginAt = &at
	admin.LastLoginIP = ipAddress
	r.store.admins[id] = admin
	return nil
}

func (r *adminRepository) List(_ context.Context) ([]entity.Admin, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	admins := make([]entity.Admin, 0, len(r.store.admins))
	for _, admin := range r.store.admins {
		admins = append(admins, admin)
	}
	sort.Slice(admins, func(i, j int) bool { return admins[i].CreatedAt.Before(admins[j].CreatedAt) })
	return admins, nil
}

func (r *adminRepository) find(match func(entity.Admin) bool) (*entity.Admin, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, admin := range r.store.admins {
		if match(admin) {
			return &admin, nil
		}
	}
	return nil, nil
}

type securityLogRepository struct {
	store *Store
}

func (r *securityLogRepository) Log(_ context.Context, log *entity.SecurityLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	r.store.securityLogs = append(r.store.securityLogs, *log)
	return nil
}
