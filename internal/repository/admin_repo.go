package repository

import (
	"context"
	"errors"
	"time"

	"salonbook/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdminRepository interface {
	Create(ctx context.Context, admin *entity.Admin) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Admin, error)
	FindActiveByEmail(ctx context.Context, email string) (*entity.Admin, error)
	FindActiveByLogin(ctx context.Context, login string) (*entity.Admin, error)
	FindByUsername(ctx context.Context, username string) (*entity.Admin, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
	RecordLogin(ctx context.Context, id uuid.UUID, at time.Time, ipAddress *string) error
	List(ctx context.Context) ([]entity.Admin, error)
}

type adminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Create(ctx context.Context, admin *entity.Admin) error {
	err := r.db.WithContext(ctx).Create(admin).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func (r *adminRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Admin, error) {
	return r.first(ctx, "id = ? AND is_active = true", id)
}

func (r *adminRepository) FindActiveByEmail(ctx context.Context, email string) (*entity.Admin, error) {
	return r.first(ctx, "email = ? AND is_active = true", email)
}

// FindActiveByLogin accepts either the username or the email address.
func (r *adminRepository) FindActiveByLogin(ctx context.Context, login string) (*entity.Admin, error) {
	return r.first(ctx, "(username = ? OR email = ?) AND is_active = true", login, login)
}

func (r *adminRepository) FindByUsername(ctx context.Context, username string) (*entity.Admin, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *adminRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Admin{}).
		Where("id = ?", id).
		Updates(map[string]any{"password_hash": hash, "is_active": true})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *adminRepository) RecordLogin(ctx context.Context, id uuid.UUID, at time.Time, ipAddress *string) error {
	return r.db.WithContext(ctx).
		Model(&entity.Admin{}).
		Where("id = ?", id).
		Updates(map[string]any{"last_login_at": at, "last_login_ip": ipAddress}).
		Error
}

func (r *adminRepository) List(ctx context.Context) ([]entity.Admin, error) {
	var admins []entity.Admin
	if err := r.db.WithContext(ctx).Order("created_at").Find(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}

func (r *adminRepository) first(ctx context.Context, query string, args ...any) (*entity.Admin, error) {
	var admin entity.Admin
	err := r.db.WithContext(ctx).
		Where(query, args...).
		First(&admin).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &admin, err
}
