package memory

import (
	"context"
	"time"

	"salonbook/internal/entity"

	"github.com/google/uuid"
)

type rateLimitRepository struct {
	store *Store
}

func rateLimitKey(identifier string, kind string) string {
	return kind + ":" + identifier
}

func (r *rateLimitRepository) Mutate(
	_ context.Context,
	identifier string,
	kind string,
	now time.Time,
	fn func(record *entity.RateLimitRecord),
) (*entity.RateLimitRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := rateLimitKey(identifier, kind)
	record, ok := r.store.rateLimits[key]
	if !ok {
		record = entity.RateLimitRecord{
			ID:          uuid.New(),
			Identifier:  identifier,
			Type:        kind,
			WindowStart: now,
			LastAttempt: now,
			CreatedAt:   now,
		}
	}
	fn(&record)
	record.UpdatedAt = now
	r.store.rateLimits[key] = record
	return &record, nil
}

func (r *rateLimitRepository) Find(_ context.Context, identifier string, kind string) (*entity.RateLimitRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	record, ok := r.store.rateLimits[rateLimitKey(identifier, kind)]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (r *rateLimitRepository) Delete(_ context.Context, identifier string, kind string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	key := rateLimitKey(identifier, kind)
	if _, ok := r.store.rateLimits[key]; !ok {
		return 0, nil
	}
	delete(r.store.rateLimits, key)
	return 1, nil
}

func (r *rateLimitRepository) DeleteStale(_ context.Context, lastAttemptBefore time.Time, now time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var count int64
	for key, record := range r.store.rateLimits {
		if record.LastAttempt.Before(lastAttemptBefore) && !record.IsLocked(now) {
			delete(r.store.rateLimits, key)
			count++
		}
	}
	return count, nil
}
