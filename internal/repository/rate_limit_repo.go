package repository

import (
	"context"
	"errors"
	"time"

	"salonbook/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RateLimitRepository interface {
	// Mutate runs fn against the record for (identifier, kind) while holding
	// a row lock, creating the record first when missing. Changes made by fn
	// are persisted before the lock is released.
	Mutate(ctx context.Context, identifier string, kind string, now time.Time, fn func(record *entity.RateLimitRecord)) (*entity.RateLimitRecord, error)
	Find(ctx context.Context, identifier string, kind string) (*entity.RateLimitRecord, error)
	Delete(ctx context.Context, identifier string, kind string) (int64, error)
	DeleteStale(ctx context.Context, lastAttemptBefore time.Time, now time.Time) (int64, error)
}

type rateLimitRepository struct {
	db *gorm.DB
}

func NewRateLimitRepository(db *gorm.DB) RateLimitRepository {
	return &rateLimitRepository{db: db}
}

func (r *rateLimitRepository) Mutate(
	ctx context.Context,
	identifier string,
	kind string,
	now time.Time,
	fn func(record *entity.RateLimitRecord),
) (*entity.RateLimitRecord, error) {
	var record entity.RateLimitRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seed := entity.RateLimitRecord{
			Identifier:  identifier,
			Type:        kind,
			WindowStart: now,
			LastAttempt: now,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "identifier"}, {Name: "type"}},
			DoNothing: true,
		}).Create(&seed).Error; err != nil {
			return err
		}

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("identifier = ? AND type = ?", identifier, kind).
			First(&record).Error; err != nil {
			return err
		}

		fn(&record)
		record.UpdatedAt = now
		return tx.Save(&record).Error
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *rateLimitRepository) Find(ctx context.Context, identifier string, kind string) (*entity.RateLimitRecord, error) {
	var record entity.RateLimitRecord
	err := r.db.WithContext(ctx).
		Where("identifier = ? AND type = ?", identifier, kind).
		First(&record).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &record, err
}

func (r *rateLimitRepository) Delete(ctx context.Context, identifier string, kind string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("identifier = ? AND type = ?", identifier, kind).
		Delete(&entity.RateLimitRecord{})
	return result.RowsAffected, result.Error
}

func (r *rateLimitRepository) DeleteStale(ctx context.Context, lastAttemptBefore time.Time, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("last_attempt < ? AND (locked_until IS NULL OR locked_until < ?)", lastAttemptBefore, now).
		Delete(&entity.RateLimitRecord{})
	return result.RowsAffected, result.Error
}
