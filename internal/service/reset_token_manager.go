package service

import (
	"context"
	"fmt"
	"strings"

	"salonbook/internal/entity"
	"salonbook/internal/repository"
	"salonbook/internal/utils"
)

const (
	mobileTokenBytes = 32
	adminCodeDigits  = 6
)

// IssuedCredential carries the plaintext secret of a freshly issued reset
// credential. The secret is never stored.
type IssuedCredential struct {
	Secret string
	Record *entity.PasswordReset
}

type ResetStats struct {
	Mobile StatusCounts
	Admin  StatusCounts
}

type StatusCounts struct {
	Active  int64
	Used    int64
	Expired int64
	Total   int64
}

type ResetTokenManager struct {
	resets     repository.PasswordResetRepository
	codeHasher PasswordHasher
	clock      Clock
	config     PasswordResetConfig
}

func NewResetTokenManager(
	resets repository.PasswordResetRepository,
	codeHasher PasswordHasher,
	clock Clock,
	config PasswordResetConfig,
) *ResetTokenManager {
	return &ResetTokenManager{
		resets:     resets,
		codeHasher: codeHasher,
		clock:      clock,
		config:     config,
	}
}

// Issue creates the active credential for (email, identityType), replacing
// any credential still active for the same identity.
func (m *ResetTokenManager) Issue(
	ctx context.Context,
	email string,
	identityType entity.IdentityType,
	ipAddress *string,
	userAgent *string,
) (*IssuedCredential, error) {
	if !identityType.Valid() {
		return nil, ErrInvalidInput
	}

	secret, hash, err := m.newSecret(identityType)
	if err != nil {
		return nil, err
	}

	now := m.clock.Now()
	record := &entity.PasswordReset{
		Email:          utils.NormalizeEmail(email),
		IdentityType:   identityType,
		CredentialHash: hash,
		Status:         entity.ResetStatusActive,
		ExpiresAt:      now.Add(m.config.ttlFor(identityType)),
		IPAddress:      ipAddress,
		UserAgent:      userAgent,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := m.resets.UpsertActive(ctx, record); err != nil {
		return nil, fmt.Errorf("store reset credential: %w", err)
	}
	return &IssuedCredential{Secret: secret, Record: record}, nil
}

func (m *ResetTokenManager) newSecret(identityType entity.IdentityType) (string, string, error) {
	if identityType == entity.IdentityAdmin {
		code, err := utils.GenerateNumericCode(adminCodeDigits)
		if err != nil {
			return "", "", err
		}
		hash, err := m.codeHasher.Hash(code)
		if err != nil {
			return "", "", err
		}
		return code, hash, nil
	}

	token, err := utils.GenerateHexToken(mobileTokenBytes)
	if err != nil {
		return "", "", err
	}
	return token, utils.HashToken(token), nil
}

// Validate returns the active record the secret belongs to without
// consuming it. A matching record past its expiry is moved to expired.
func (m *ResetTokenManager) Validate(
	ctx context.Context,
	secret string,
	identityType entity.IdentityType,
) (*entity.PasswordReset, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, ErrInvalidCredential
	}

	var (
		record *entity.PasswordReset
		err    error
	)
	switch identityType {
	case entity.IdentityMobile:
		record, err = m.resets.FindActiveByHash(ctx, utils.HashToken(secret), entity.IdentityMobile)
	case entity.IdentityAdmin:
		record, err = m.findAdminRecord(ctx, secret)
	default:
		return nil, ErrInvalidInput
	}
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrInvalidCredential
	}

	now := m.clock.Now()
	if record.IsExpired(now) {
		if _, err := m.resets.Transition(ctx, record.ID, record.CredentialHash, entity.ResetStatusExpired, now); err != nil {
			return nil, err
		}
		return nil, ErrCredentialExpired
	}
	return record, nil
}

func (m *ResetTokenManager) findAdminRecord(ctx context.Context, code string) (*entity.PasswordReset, error) {
	if !utils.IsNumericCode(code, adminCodeDigits) {
		return nil, nil
	}
	candidates, err := m.resets.ListActive(ctx, entity.IdentityAdmin, m.config.adminScanLimit())
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		if m.codeHasher.Verify(candidates[i].CredentialHash, code) {
			return &candidates[i], nil
		}
	}
	return nil, nil
}

// MarkUsed consumes a validated record. Calling it again, or after the
// record was superseded, changes nothing.
func (m *ResetTokenManager) MarkUsed(ctx context.Context, record *entity.PasswordReset) error {
	now := m.clock.Now()
	changed, err := m.resets.Transition(ctx, record.ID, record.CredentialHash, entity.ResetStatusUsed, now)
	if err != nil {
		return err
	}
	if changed {
		record.Status = entity.ResetStatusUsed
		record.UsedAt = &now
	}
	return nil
}

func (m *ResetTokenManager) ExpireStale(ctx context.Context) (int64, error) {
	return m.resets.ExpireStale(ctx, m.clock.Now())
}

// Purge deletes used and expired records older than the retention period.
func (m *ResetTokenManager) Purge(ctx context.Context) (int64, error) {
	return m.resets.DeleteInactiveBefore(ctx, m.clock.Now().Add(-m.config.retentionPeriod()))
}

func (m *ResetTokenManager) Stats(ctx context.Context) (*ResetStats, error) {
	counts, err := m.resets.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	stats := &ResetStats{}
	for _, c := range counts {
		target := &stats.Mobile
		if c.IdentityType == entity.IdentityAdmin {
			target = &stats.Admin
		}
		switch c.Status {
		case entity.ResetStatusActive:
			target.Active += c.Count
		case entity.ResetStatusUsed:
			target.Used += c.Count
		case entity.ResetStatusExpired:
			target.Expired += c.Count
		}
		target.Total += c.Count
	}
	return stats, nil
}
