package service

import (
	"context"
	"time"

	"salonbook/internal/entity"
	"salonbook/internal/repository"
	"salonbook/internal/utils"
)

type RateLimitPolicy struct {
	MaxAttempts int
	Window      time.Duration
	Lockout     time.Duration
}

func (p RateLimitPolicy) withDefaults() RateLimitPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 3
	}
	if p.Window <= 0 {
		p.Window = time.Hour
	}
	if p.Lockout <= 0 {
		p.Lockout = time.Hour
	}
	return p
}

// windowExpired reports whether the record starts a fresh window at now.
func (p RateLimitPolicy) windowExpired(record *entity.RateLimitRecord, now time.Time) bool {
	if record.LockedUntil != nil && !record.LockedUntil.After(now) {
		return true
	}
	return !record.WindowStart.After(now.Add(-p.Window))
}

// apply evaluates one attempt against record and mutates it in place.
func (p RateLimitPolicy) apply(record *entity.RateLimitRecord, now time.Time) RateLimitDecision {
	if record.IsLocked(now) {
		return RateLimitDecision{
			Allowed:     false,
			Attempts:    record.Attempts,
			LockedUntil: record.LockedUntil,
			MaxAttempts: p.MaxAttempts,
		}
	}

	if record.Attempts > 0 && p.windowExpired(record, now) {
		record.Attempts = 0
		record.WindowStart = now
		record.LockedUntil = nil
	}
	if record.Attempts == 0 {
		record.WindowStart = now
	}

	record.Attempts++
	record.LastAttempt = now
	if record.Attempts >= p.MaxAttempts {
		lockedUntil := now.Add(p.Lockout)
		record.LockedUntil = &lockedUntil
	}

	return RateLimitDecision{
		Allowed:           true,
		Attempts:          record.Attempts,
		AttemptsRemaining: max(0, p.MaxAttempts-record.Attempts),
		LockedUntil:       record.LockedUntil,
		MaxAttempts:       p.MaxAttempts,
	}
}

type RateLimitDecision struct {
	Allowed           bool
	Attempts          int
	AttemptsRemaining int
	LockedUntil       *time.Time
	MaxAttempts       int
}

// MinutesLeft rounds the remaining lockout up to whole minutes.
func (d RateLimitDecision) MinutesLeft(now time.Time) int {
	return minutesUntil(d.LockedUntil, now)
}

type RateLimitStatus struct {
	Identifier        string
	Attempts          int
	AttemptsRemaining int
	MaxAttempts       int
	Locked            bool
	LockedUntil       *time.Time
	MinutesLeft       int
}

type RateLimiter struct {
	records repository.RateLimitRepository
	clock   Clock
	policy  RateLimitPolicy
}

func NewRateLimiter(records repository.RateLimitRepository, clock Clock, policy RateLimitPolicy) *RateLimiter {
	return &RateLimiter{
		records: records,
		clock:   clock,
		policy:  policy.withDefaults(),
	}
}

func (l *RateLimiter) Policy() RateLimitPolicy {
	return l.policy
}

// CheckAndIncrement records one attempt for identifier unless it is locked.
// The read-modify-write runs under the store's row lock.
func (l *RateLimiter) CheckAndIncrement(ctx context.Context, identifier string) (RateLimitDecision, error) {
	now := l.clock.Now()
	var decision RateLimitDecision
	_, err := l.records.Mutate(ctx, utils.NormalizeEmail(identifier), entity.RateLimitTypeEmail, now, func(record *entity.RateLimitRecord) {
		decision = l.policy.apply(record, now)
	})
	if err != nil {
		return RateLimitDecision{}, err
	}
	return decision, nil
}

func (l *RateLimiter) Reset(ctx context.Context, identifier string) error {
	_, err := l.records.Delete(ctx, utils.NormalizeEmail(identifier), entity.RateLimitTypeEmail)
	return err
}

func (l *RateLimiter) Status(ctx context.Context, identifier string) (RateLimitStatus, error) {
	identifier = utils.NormalizeEmail(identifier)
	status := RateLimitStatus{
		Identifier:        identifier,
		AttemptsRemaining: l.policy.MaxAttempts,
		MaxAttempts:       l.policy.MaxAttempts,
	}

	record, err := l.records.Find(ctx, identifier, entity.RateLimitTypeEmail)
	if err != nil {
		return status, err
	}
	now := l.clock.Now()
	if record == nil || (!record.IsLocked(now) && l.policy.windowExpired(record, now)) {
		return status, nil
	}

	status.Attempts = record.Attempts
	status.AttemptsRemaining = max(0, l.policy.MaxAttempts-record.Attempts)
	if record.IsLocked(now) {
		status.Locked = true
		status.LockedUntil = record.LockedUntil
		status.MinutesLeft = minutesUntil(record.LockedUntil, now)
	}
	return status, nil
}

// Cleanup removes records idle for two windows that are not locked.
func (l *RateLimiter) Cleanup(ctx context.Context) (int64, error) {
	now := l.clock.Now()
	return l.records.DeleteStale(ctx, now.Add(-2*l.policy.Window), now)
}

func minutesUntil(until *time.Time, now time.Time) int {
	if until == nil || !until.After(now) {
		return 0
	}
	remaining := until.Sub(now)
	minutes := int(remaining / time.Minute)
	if remaining%time.Minute != 0 {
		minutes++
	}
	return minutes
}
