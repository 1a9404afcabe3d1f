package memory

import (
	"context"
	"sort"
	"time"

	"salonbook/internal/entity"
	"salonbook/internal/repository"

	"github.com/google/uuid"
)

type passwordResetRepository struct {
	store *Store
}

func (r *passwordResetRepository) UpsertActive(_ context.Context, reset *entity.PasswordReset) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	reset.Status = entity.ResetStatusActive
	reset.UsedAt = nil
	for id, existing := range r.store.resets {
		if existing.Status != entity.ResetStatusActive ||
			existing.Email != reset.Email ||
			existing.IdentityType != reset.IdentityType {
			continue
		}
		existing.CredentialHash = reset.CredentialHash
		existing.ExpiresAt = reset.ExpiresAt
		existing.IPAddress = reset.IPAddress
		existing.UserAgent = reset.UserAgent
		existing.CreatedAt = reset.CreatedAt
		existing.UpdatedAt = reset.UpdatedAt
		r.store.resets[id] = existing
		*reset = existing
		return nil
	}

	reset.ID = uuid.New()
	r.store.resets[reset.ID] = *reset
	return nil
}

func (r *passwordResetRepository) FindActiveByHash(
	_ context.Context,
	hash string,
	identityType entity.IdentityType,
) (*entity.PasswordReset, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, reset := range r.store.resets {
		if reset.CredentialHash == hash &&
			reset.IdentityType == identityType &&
			reset.Status == entity.ResetStatusActive {
			return &reset, nil
		}
	}
	return nil, nil
}

func (r *passwordResetRepository) ListActive(
	_ context.Context,
	identityType entity.IdentityType,
	limit int,
) ([]entity.PasswordReset, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var resets []entity.PasswordReset
	for _, reset := range r.store.resets {
		if reset.IdentityType == identityType && reset.Status == entity.ResetStatusActive {
			resets = append(resets, reset)
		}
	}
	sort.Slice(resets, func(i, j int) bool { return resets[i].CreatedAt.After(resets[j].CreatedAt) })
	if limit > 0 && len(resets) > limit {
		resets = resets[:limit]
	}
	return resets, nil
}

func (r *passwordResetRepository) Transition(
	_ context.Context,
	id uuid.UUID,
	credentialHash string,
	status entity.ResetStatus,
	at time.Time,
) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	reset, ok := r.store.resets[id]
	if !ok || reset.Status != entity.ResetStatusActive || reset.CredentialHash != credentialHash {
		return false, nil
	}
	reset.Status = status
	reset.UpdatedAt = at
	if status == entity.ResetStatusUsed {
		reset.UsedAt = &at
	}
	r.store.resets[id] = reset
	return true, nil
}

func (r *passwordResetRepository) ExpireStale(_ context.Context, now time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var count int64
	for id, reset := range r.store.resets {
		if reset.Status == entity.ResetStatusActive && reset.ExpiresAt.Before(now) {
			reset.Status = entity.ResetStatusExpired
			reset.UpdatedAt = now
			r.store.resets[id] = reset
			count++
		}
	}
	return count, nil
}

func (r *passwordResetRepository) DeleteInactiveBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var count int64
	for id, reset := range r.store.resets {
		if reset.Status != entity.ResetStatusActive && reset.UpdatedAt.Before(cutoff) {
			delete(r.store.resets, id)
			count++
		}
	}
	return count, nil
}

func (r *passwordResetRepository) CountByStatus(_ context.Context) ([]repository.ResetStatusCount, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	type key struct {
		identityType entity.IdentityType
		status       entity.ResetStatus
	}
	totals := make(map[key]int64)
	for _, reset := range r.store.resets {
		totals[key{reset.IdentityType, reset.Status}]++
	}
	counts := make([]repository.ResetStatusCount, 0, len(totals))
	for k, n := range totals {
		counts = append(counts, repository.ResetStatusCount{IdentityType: k.identityType, Status: k.status, Count: n})
	}
	return counts, nil
}
