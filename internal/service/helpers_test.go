package service_test

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"salonbook/internal/entity"
	"salonbook/internal/repository"
	"salonbook/internal/repository/memory"
	"salonbook/internal/service"
	"salonbook/internal/utils"

	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingSender struct {
	mu       sync.Mutex
	messages []service.EmailMessage
	err      error
}

func (s *recordingSender) Send(_ context.Context, message service.EmailMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, message)
	return nil
}

func (s *recordingSender) Sent() []service.EmailMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]service.EmailMessage(nil), s.messages...)
}

func (s *recordingSender) Last() service.EmailMessage {
	sent := s.Sent()
	return sent[len(sent)-1]
}

type testEnv struct {
	store   *memory.Store
	repos   repository.Set
	clock   *fakeClock
	sender  *recordingSender
	config  service.PasswordResetConfig
	hasher  service.BcryptPasswordHasher
	tokens  *service.ResetTokenManager
	limiter *service.RateLimiter
	resets  *service.PasswordResetService
	auth    *service.AuthService

	user  *entity.User
	admin *entity.Admin
}

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	g := NewWithT(t)

	store := memory.NewStore()
	env := &testEnv{
		store:  store,
		repos:  store.Set(),
		clock:  newFakeClock(),
		sender: &recordingSender{},
		hasher: service.BcryptPasswordHasher{Cost: bcrypt.MinCost},
		config: service.PasswordResetConfig{
			MobileTokenTTL:    time.Hour,
			AdminCodeTTL:      15 * time.Minute,
			AdminScanLimit:    100,
			RetentionPeriod:   7 * 24 * time.Hour,
			MinPasswordLength: 6,
			RateLimitMobile:   true,
			RateLimitAdmin:    true,
		},
	}
	env.build()

	user, err := env.auth.SignUp(context.Background(), service.SignUpInput{
		FullName: "Alice Example",
		Email:    "a@x.com",
		Password: "original-password",
	})
	g.Expect(err).NotTo(HaveOccurred())
	env.user = user

	admin, err := env.auth.CreateAdmin(context.Background(), service.CreateAdminInput{
		Username: "boss",
		Email:    "admin@x.com",
		Password: "admin-password",
	})
	g.Expect(err).NotTo(HaveOccurred())
	env.admin = admin
	return env
}

// build wires the services from the current env fields.
func (e *testEnv) build() {
	logger := quietLogger()
	e.tokens = service.NewResetTokenManager(e.repos.PasswordResets, e.hasher, e.clock, e.config)
	e.limiter = service.NewRateLimiter(e.repos.RateLimits, e.clock, service.RateLimitPolicy{
		MaxAttempts: 3,
		Window:      time.Hour,
		Lockout:     time.Hour,
	})
	e.resets = service.NewPasswordResetService(
		e.tokens,
		e.limiter,
		map[entity.IdentityType]service.IdentityBinding{
			entity.IdentityMobile: {Store: service.UserIdentityStore{Users: e.repos.Users}, Hasher: e.hasher},
			entity.IdentityAdmin:  {Store: service.AdminIdentityStore{Admins: e.repos.Admins}, Hasher: e.hasher},
		},
		e.sender,
		e.repos.SecurityLogs,
		logger,
		e.config,
	)
	e.auth = service.NewAuthService(
		e.repos.Users,
		e.repos.Admins,
		e.repos.SecurityLogs,
		e.hasher,
		e.hasher,
		utils.JWTManager{Secret: []byte("test-secret"), Issuer: "salonbook-test"},
		e.clock,
		logger,
		service.AuthConfig{MinPasswordLength: 6},
	)
}

func (e *testEnv) activeResets(email string, identityType entity.IdentityType) []entity.PasswordReset {
	var active []entity.PasswordReset
	for _, reset := range e.store.PasswordResets() {
		if reset.Email == email && reset.IdentityType == identityType && reset.Status == entity.ResetStatusActive {
			active = append(active, reset)
		}
	}
	return active
}
