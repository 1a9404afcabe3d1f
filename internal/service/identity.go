package service

import (
	"context"
	"errors"

	"salonbook/internal/entity"
	"salonbook/internal/repository"

	"github.com/google/uuid"
)

// Identity is the part of a user or admin account the password reset flow
// works with.
type Identity struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Type         entity.IdentityType
}

type IdentityStore interface {
	FindByEmail(ctx context.Context, email string) (*Identity, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}

// IdentityBinding pairs the store of one identity type with the hasher used
// for its new passwords.
type IdentityBinding struct {
	Store  IdentityStore
	Hasher PasswordHasher
}

type UserIdentityStore struct {
	Users repository.UserRepository
}

func (s UserIdentityStore) FindByEmail(ctx context.Context, email string) (*Identity, error) {
	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil || user == nil {
		return nil, err
	}
	return &Identity{ID: user.ID, Email: user.Email, PasswordHash: user.PasswordHash, Type: entity.IdentityMobile}, nil
}

func (s UserIdentityStore) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return translateNotFound(s.Users.UpdatePasswordHash(ctx, id, hash))
}

// AdminIdentityStore only resolves active admins.
type AdminIdentityStore struct {
	Admins repository.AdminRepository
}

func (s AdminIdentityStore) FindByEmail(ctx context.Context, email string) (*Identity, error) {
	admin, err := s.Admins.FindActiveByEmail(ctx, email)
	if err != nil || admin == nil {
		return nil, err
	}
	return &Identity{ID: admin.ID, Email: admin.Email, PasswordHash: admin.PasswordHash, Type: entity.IdentityAdmin}, nil
}

func (s AdminIdentityStore) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return translateNotFound(s.Admins.UpdatePasswordHash(ctx, id, hash))
}

func translateNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrIdentityNotFound
	}
	return err
}
