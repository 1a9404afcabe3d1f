package repository

import (
	"context"
	"errors"
	"time"

	"salonbook/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ResetStatusCount struct {
	IdentityType entity.IdentityType
	Status       entity.ResetStatus
	Count        int64
}

type PasswordResetRepository interface {
	// UpsertActive inserts reset as the active record for its (email,
	// identity type) or overwrites the existing active record in place.
	// On return reset.ID holds the id of the stored row.
	UpsertActive(ctx context.Context, reset *entity.PasswordReset) error
	FindActiveByHash(ctx context.Context, hash string, identityType entity.IdentityType) (*entity.PasswordReset, error)
	ListActive(ctx context.Context, identityType entity.IdentityType, limit int) ([]entity.PasswordReset, error)
	// Transition moves an active record to status only if it still carries
	// credentialHash. It reports whether a row changed.
	Transition(ctx context.Context, id uuid.UUID, credentialHash string, status entity.ResetStatus, at time.Time) (bool, error)
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
	DeleteInactiveBefore(ctx context.Context, cutoff time.Time) (int64, error)
	CountByStatus(ctx context.Context) ([]ResetStatusCount, error)
}

type passwordResetRepository struct {
	db *gorm.DB
}

func NewPasswordResetRepository(db *gorm.DB) PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) UpsertActive(ctx context.Context, reset *entity.PasswordReset) error {
	reset.ID = uuid.Nil
	reset.Status = entity.ResetStatusActive
	reset.UsedAt = nil
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "email"}, {Name: "identity_type"}},
			TargetWhere: clause.Where{Exprs: []clause.Expression{
				clause.Expr{SQL: "status = 'active'"},
			}},
			DoUpdates: clause.AssignmentColumns([]string{
				"credential_hash", "expires_at", "ip_address", "user_agent", "created_at", "updated_at",
			}),
		}).
		Create(reset).Error
}

func (r *passwordResetRepository) FindActiveByHash(
	ctx context.Context,
	hash string,
	identityType entity.IdentityType,
) (*entity.PasswordReset, error) {
	var reset entity.PasswordReset
	err := r.db.WithContext(ctx).
		Where("credential_hash = ? AND identity_type = ? AND status = ?", hash, identityType, entity.ResetStatusActive).
		First(&reset).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &reset, err
}

func (r *passwordResetRepository) ListActive(
	ctx context.Context,
	identityType entity.IdentityType,
	limit int,
) ([]entity.PasswordReset, error) {
	var resets []entity.PasswordReset
	query := r.db.WithContext(ctx).
		Where("identity_type = ? AND status = ?", identityType, entity.ResetStatusActive).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&resets).Error; err != nil {
		return nil, err
	}
	return resets, nil
}

func (r *passwordResetRepository) Transition(
	ctx context.Context,
	id uuid.UUID,
	credentialHash string,
	status entity.ResetStatus,
	at time.Time,
) (bool, error) {
	updates := map[string]any{"status": status, "updated_at": at}
	if status == entity.ResetStatusUsed {
		updates["used_at"] = at
	}
	result := r.db.WithContext(ctx).
		Model(&entity.PasswordReset{}).
		Where("id = ? AND credential_hash = ? AND status = ?", id, credentialHash, entity.ResetStatusActive).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *passwordResetRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.PasswordReset{}).
		Where("status = ? AND expires_at < ?", entity.ResetStatusActive, now).
		Updates(map[string]any{"status": entity.ResetStatusExpired, "updated_at": now})
	return result.RowsAffected, result.Error
}

func (r *passwordResetRepository) DeleteInactiveBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status <> ? AND updated_at < ?", entity.ResetStatusActive, cutoff).
		Delete(&entity.PasswordReset{})
	return result.RowsAffected, result.Error
}

func (r *passwordResetRepository) CountByStatus(ctx context.Context) ([]ResetStatusCount, error) {
	var counts []ResetStatusCount
	err := r.db.WithContext(ctx).
		Model(&entity.PasswordReset{}).
		Select("identity_type, status, COUNT(*) AS count").
		Group("identity_type, status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}
