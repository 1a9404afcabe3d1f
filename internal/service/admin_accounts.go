package service

import (
	"context"
	"errors"
	"strings"

	"salonbook/internal/entity"
	"salonbook/internal/repository"
	"salonbook/internal/utils"
)

type CreateAdminInput struct {
	Username string
	Email    string
	Password string
	Role     entity.AdminRole
}

func (s *AuthService) CreateAdmin(ctx context.Context, input CreateAdminInput) (*entity.Admin, error) {
	username := strings.TrimSpace(input.Username)
	email := utils.NormalizeEmail(input.Email)
	if len(username) < 3 || len(username) > 20 || !utils.ValidEmail(email) {
		return nil, ErrInvalidInput
	}
	if err := checkPasswordLength(input.Password, s.minPasswordLength()); err != nil {
		return nil, err
	}
	role := input.Role
	if role == "" {
		role = entity.AdminRoleAdmin
	}
	if role != entity.AdminRoleAdmin && role != entity.AdminRoleSuperAdmin {
		return nil, ErrInvalidInput
	}

	hash, err := s.adminHasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	admin := &entity.Admin{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, err
	}
	return admin, nil
}

// SetAdminPassword replaces the password of the admin with username and
// reactivates the account.
func (s *AuthService) SetAdminPassword(ctx context.Context, username string, password string) error {
	if err := checkPasswordLength(password, s.minPasswordLength()); err != nil {
		return err
	}
	admin, err := s.admins.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return err
	}
	if admin == nil {
		return ErrUserNotFound
	}
	hash, err := s.adminHasher.Hash(password)
	if err != nil {
		return err
	}
	return s.admins.UpdatePasswordHash(ctx, admin.ID, hash)
}
