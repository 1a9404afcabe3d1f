package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"salonbook/internal/entity"
	"salonbook/internal/repository"
	"salonbook/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const dummyPasswordHash = "$2a$10$CwTycUXWue0Thq9StjUM0uJ8yQbWc1x9uxw2sQ2sXUNx5x9xJ9F2S"

type SignUpInput struct {
	FullName string
	Email    string
	Password string
	Phone    *string
}

type SignInInput struct {
	Email     string
	Password  string
	IPAddress *string
	UserAgent *string
}

type AdminSignInInput struct {
	Username  string
	Password  string
	IPAddress *string
	UserAgent *string
}

type SignInResult struct {
	Token     string
	ExpiresIn time.Duration
	User      *entity.User
}

type AdminSignInResult struct {
	Token     string
	ExpiresIn time.Duration
	Admin     *entity.Admin
}

type AccessTokenIssuer interface {
	IssueAccessToken(identityID string, tokenType string, email string, role string) (string, time.Duration, error)
	ParseAccessToken(token string) (*utils.AccessClaims, error)
}

type AuthService struct {
	users  repository.UserRepository
	admins repository.AdminRepository
	audit  securityLogger

	userHasher   PasswordHasher
	adminHasher  PasswordHasher
	accessTokens AccessTokenIssuer
	clock        Clock
	logger       logrus.FieldLogger
	config       AuthConfig
}

func NewAuthService(
	users repository.UserRepository,
	admins repository.AdminRepository,
	securityLogs repository.SecurityLogRepository,
	userHasher PasswordHasher,
	adminHasher PasswordHasher,
	accessTokens AccessTokenIssuer,
	clock Clock,
	logger logrus.FieldLogger,
	config AuthConfig,
) *AuthService {
	return &AuthService{
		users:        users,
		admins:       admins,
		audit:        securityLogger{logs: securityLogs, logger: logger},
		userHasher:   userHasher,
		adminHasher:  adminHasher,
		accessTokens: accessTokens,
		clock:        clock,
		logger:       logger,
		config:       config,
	}
}

func (s *AuthService) minPasswordLength() int {
	if s.config.MinPasswordLength > 0 {
		return s.config.MinPasswordLength
	}
	return 6
}

func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*entity.User, error) {
	fullName := strings.TrimSpace(input.FullName)
	email := utils.NormalizeEmail(input.Email)
	if fullName == "" || !utils.ValidEmail(email) || input.Password == "" {
		return nil, ErrInvalidInput
	}
	if err := checkPasswordLength(input.Password, s.minPasswordLength()); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyRegistered
	}

	hash, err := s.userHasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
		Phone:        input.Phone,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) SignIn(ctx context.Context, input SignInInput) (*SignInResult, error) {
	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return nil, ErrInvalidInput
	}

	email := utils.NormalizeEmail(input.Email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = s.userHasher.Verify(dummyPasswordHash, input.Password)
		s.audit.record(ctx, nil, entity.IdentityMobile, email, input.IPAddress, entity.LoginFailed, nil)
		return nil, ErrInvalidCredentials
	}
	if !s.userHasher.Verify(user.PasswordHash, input.Password) {
		s.audit.record(ctx, &user.ID, entity.IdentityMobile, email, input.IPAddress, entity.LoginFailed, nil)
		return nil, ErrInvalidCredentials
	}

	token, expiresIn, err := s.accessTokens.IssueAccessToken(user.ID.String(), utils.TokenTypeUser, user.Email, "")
	if err != nil {
		return nil, err
	}
	s.audit.record(ctx, &user.ID, entity.IdentityMobile, email, input.IPAddress, entity.LoginSuccess, nil)
	return &SignInResult{Token: token, ExpiresIn: expiresIn, User: user}, nil
}

// AdminSignIn accepts either the username or the email of an active admin.
func (s *AuthService) AdminSignIn(ctx context.Context, input AdminSignInInput) (*AdminSignInResult, error) {
	login := strings.TrimSpace(input.Username)
	if login == "" || input.Password == "" {
		return nil, ErrInvalidInput
	}
	if strings.Contains(login, "@") {
		login = utils.NormalizeEmail(login)
	}

	admin, err := s.admins.FindActiveByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		_ = s.adminHasher.Verify(dummyPasswordHash, input.Password)
		s.audit.record(ctx, nil, entity.IdentityAdmin, login, input.IPAddress, entity.LoginFailed, nil)
		return nil, ErrInvalidCredentials
	}
	if !s.adminHasher.Verify(admin.PasswordHash, input.Password) {
		s.audit.record(ctx, &admin.ID, entity.IdentityAdmin, admin.Email, input.IPAddress, entity.LoginFailed, nil)
		return nil, ErrInvalidCredentials
	}

	now := s.clock.Now()
	if err := s.admins.RecordLogin(ctx, admin.ID, now, input.IPAddress); err != nil {
		s.logger.WithError(err).WithField("admin_id", admin.ID).Warn("failed to record admin login")
	} else {
		admin.LastLoginAt = &now
		admin.LastLoginIP = input.IPAddress
	}

	token, expiresIn, err := s.accessTokens.IssueAccessToken(admin.ID.String(), utils.TokenTypeAdmin, admin.Email, string(admin.Role))
	if err != nil {
		return nil, err
	}
	s.audit.record(ctx, &admin.ID, entity.IdentityAdmin, admin.Email, input.IPAddress, entity.LoginSuccess, map[string]any{
		"username": admin.Username,
	})
	return &AdminSignInResult{Token: token, ExpiresIn: expiresIn, Admin: admin}, nil
}

func (s *AuthService) VerifyToken(token string) (*utils.AccessClaims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrInvalidToken
	}
	claims, err := s.accessTokens.ParseAccessToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *AuthService) CurrentAdmin(ctx context.Context, id uuid.UUID) (*entity.Admin, error) {
	admin, err := s.admins.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, ErrUserNotFound
	}
	return admin, nil
}
