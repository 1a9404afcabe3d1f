package service_test

import (
	"context"
	"testing"
	"time"

	"salonbook/internal/entity"
	"salonbook/internal/service"

	. "github.com/onsi/gomega"
)

func TestIssue_KeepsSingleActiveRecord(t *testing.T) {
	for _, identityType := range []entity.IdentityType{entity.IdentityMobile, entity.IdentityAdmin} {
		t.Run(string(identityType), func(t *testing.T) {
			g := NewWithT(t)
			env := newTestEnv(t)
			ctx := context.Background()

			for i := 0; i < 5; i++ {
				_, err := env.tokens.Issue(ctx, "Someone@X.com", identityType, nil, nil)
				g.Expect(err).NotTo(HaveOccurred())
				g.Expect(env.activeResets("someone@x.com", identityType)).To(HaveLen(1))
			}
		})
	}
}

func TestIssue_SecondSecretSupersedesFirst(t *testing.T) {
	g := NewWithT(t)
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.tokens.Issue(ctx, "a@x.com", entity.IdentityMobile, nil, nil)
	g.Expect(err).NotTo(HaveOccurred())
	second, err := env.tokens.Issue(ctx, "a@x.com", entity.IdentityMobile, nil, nil)
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(env.activeResets("a@x.com", entity.IdentityMobile)).To(HaveLen(1))
	g.Expect(second.Record.ID).To(Equal(first.Record.ID))

	_, err = env.tokens.Validate(ctx, first.Secret, entity.IdentityMobile)
	g.Expect(err).To(MatchError(service.ErrInvalidCredential))

	record, err := env.tokens.Validate(ctx, second.Secret, entity.IdentityMobile)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(record.Email).To(Equal("a@x.com"))
}

func TestIssue_SecretFormat(t *testing.T) {
	g := NewWithT(t)
	env := newTestEnv(t)
	ctx := context.Background()

	mobile, err := env.tokens.Issue(ctx, "a@x.com", entity.IdentityMobile, nil, nil)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(mobile.Secret).To(MatchRegexp("^[0-9a-f]{64}$"))
	g.Expect(mobile.Record.CredentialHash).NotTo(Equal(mobile.Secret))
	g.Expect(mobile.Record.ExpiresAt).To(Equal(env.clock.Now().Add(time.Hour)))

	admin, err := env.tokens.Issue(ctx, "admin@x.com", entity.IdentityAdmin, nil, nil)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(admin.Secret).To(MatchRegexp("^[1-9][0-9]{5}$"))
	g.Expect(admin.Record.CredentialHash).To(HavePrefix("$2"))
	g.Expect(admin.Record.ExpiresAt).To(Equal(env.clock.Now().Add(15 * time.Minute)))
}

func TestValidate_RoundTrip(t *testing.T) {
	for _, identityType := range []entity.IdentityType{entity.IdentityMobile, entity.IdentityAdmin} {
		t.Run(string(identityType), func(t *testing.T) {
			g := NewWithT(t)
			env := newTestEnv(t)
			ctx := context.Background()
			ip := "10.0.0.1"

			issued, err := env.tokens.Issue(ctx, "a@x.com", identityType, &ip, nil)
			g.Expect(err).NotTo(HaveOccurred())

			record, err := env.tokens.Validate(ctx, issued.Secret, identityType)
			g.Expect(err).NotTo(HaveOccurred())
			g.Expect(record.ID).To(Equal(issued.Record.ID))
			g.Expect(record.Email).To(Equal("a@x.com"))
			g.Expect(record.Status).To(Equal(entity.ResetStatusActive))
			g.Expect(*record.IPAddress).To(Equal(ip))
		})
	}
}

func TestValidate_RejectsWrongType(t *testing.T) {
	g := NewWithT(t)
	env := newTestEnv(t)
	ctx := context.Background()

	issued, err := env.tokens.Issue(ctx, "a@x.com", entity.IdentityMobile, nil, nil)
	g.Expect(err).NotTo(HaveOccurred())

	_, err = env.tokens.Validate(ctx, issued.Secret, entity.IdentityAdmin)
	g.Expect(err).To(MatchError(service.ErrInvalidCredential))
}

func TestValidate_AdminCodeFormat(t *testing.T) {
	g := NewWithT(t)
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.tokens.Issue(ctx, "admin@x.com", entity.IdentityAdmin, nil, nil)
	g.Expect(err).NotTo(HaveOccurred())

	for _, code := range []string{"", "12345", "1234567", "abcdef", "12 456"} {
		_, err := env.tokens.Validate(ctx, code, entity.IdentityAdmin)
		g.Expect(err).To(MatchError(service.ErrInvalidCredential), "code %q", code)
	}
}

func TestMarkUsed_SingleUse(t *testing.T) {
	for _, identityType := range []entity.IdentityType{entity.IdentityMobile, entity.IdentityAdmin} {
		t.Run(string(identityType), func(t *testing.T) {
			g := NewWithT(t)
			env := newTestEnv(t)
			ctx := context.Background()

			issued, err := env.tokens.Issue(ctx, "a@x.com", identityType, nil, nil)
			g.Expect(err).NotTo(HaveOccurred())
			record, err := env.tokens.Validate(ctx, issued.Secret, identityType)
			g.Expect(err).NotTo(HaveOccurred())

			g.Expect(env.tokens.MarkUsed(ctx, record)).To(Succeed())
			g.Expect(record.Status).To(Equal(entity.ResetStatusUsed))
			g.Expect(record.UsedAt).NotTo(BeNil())

			g.Expect(env.tokens.MarkUsed(ctx, record)).To(Succeed())

			_, err = env.tokens.Validate(ctx, issued.Secret, identityType)
			g.Expect(err).To(MatchError(service.ErrInvalidCredential))
		})
	}
}

func TestMarkUsed_DoesNotConsumeSupersedingCredential(t *testing.T) {
	g := NewWithT(t)
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.tokens.Issue(ctx, "a@x.com", entity.IdentityMobile, nil, nil)
	g.Expect(err).NotTo(HaveOccurred())
	stale, err := env.tokens.Validate(ctx, first.Secret, entity.IdentityMobile)
	g.Expect(err).NotTo(HaveOccurred())

	second, err := env.tokens.Issue(ctx, "a@x.com", entity.IdentityMobile, nil, nil)
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(env.tokens.MarkUsed(ctx, stale)).To(Succeed())

	_, err = env.tokens.Validate(ctx, second.Secret, entity.IdentityMobile)
	g.Expect(err).NotTo(HaveOccurred())
}

func TestValidate_ExpiredCredentialIsTransitioned(t *testing.T) {
	g := NewWithT(t)
	env := newTestEnv(t)
	ctx := context.Background()

	issued, err := env.tokens.Issue(ctx, "admin@x.com", entity.IdentityAdmin, nil, nil)
	g.Expect(err).NotTo(HaveOccurred())

	env.clock.Advance(16 * time.Minute)

	_, err = env.tokens.Validate(ctx, issued.Secret, entity.IdentityAdmin)
	g.Expect(err).To(MatchError(service.ErrCredentialExpired))

	stats, err := env.tokens.Stats(ctx)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(stats.Admin.Expired).To(BeEquivalentTo(1))
	g.Expect(stats.Admin.Active).To(BeEquivalentTo(0))

	_, err = env.tokens.Validate(ctx, issued.Secret, entity.IdentityAdmin)
	g.Expect(err).To(MatchError(service.ErrInvalidCredential))
}

func TestValidate_MobileExpiry(t *testing.T) {
	g := NewWithT(t)
	env := newTestEnv(t)
	ctx := context.Background()

	issued, err := env.tokens.Issue(ctx, "a@x.com", entity.IdentityMobile, nil, nil)
	g.Expect(err).NotTo(HaveOccurred())

	env.clock.Advance(59 * time.Minute)
	_, err = env.tokens.Validate(ctx, issued.Secret, entity.IdentityMobile)
	g.Expect(err).NotTo(HaveOccurred())

	env.clock.Advance(2 * time.Minute)
	_, err = env.tokens.Validate(ctx, issued.Secret, entity.IdentityMobile)
	g.Expect(err).To(MatchError(service.ErrCredentialExpired))

	resets := env.store.PasswordResets()
	g.Expect(resets).To(HaveLen(1))
	g.Expect(resets[0].Status).To(Equal(entity.ResetStatusExpired))
}

func TestExpireStaleAndPurge(t *testing.T) {
	g := NewWithT(t)
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.tokens.Issue(ctx, "admin@x.com", entity.IdentityAdmin, nil, nil)
	g.Expect(err).NotTo(HaveOccurred())
	_, err = env.tokens.Issue(ctx, "a@x.com", entity.IdentityMobile, nil, nil)
	g.Expect(err).NotTo(HaveOccurred())

	env.clock.Advance(30 * time.Minute)
	expired, err := env.tokens.ExpireStale(ctx)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(expired).To(BeEquivalentTo(1))

	purged, err := env.tokens.Purge(ctx)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(purged).To(BeEquivalentTo(0))

	env.clock.Advance(8 * 24 * time.Hour)
	purged, err = env.tokens.Purge(ctx)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(purged).To(BeEquivalentTo(1))

	stats, err := env.tokens.Stats(ctx)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(stats.Admin.Total).To(BeEquivalentTo(0))
	g.Expect(stats.Mobile.Active).To(BeEquivalentTo(1))
}
