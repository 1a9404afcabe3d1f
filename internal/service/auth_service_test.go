package service_test

import (
	"context"
	"strings"
	"testing"

	"salonbook/internal/entity"
	"salonbook/internal/service"
	"salonbook/internal/utils"

	. "github.com/onsi/gomega"
)

func TestSignUp(t *testing.T) {
	g := NewWithT(t)
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.auth.SignUp(ctx, service.SignUpInput{FullName: "Bob", Email: "Bob@X.com", Password: "secret-pw"})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(user.Email).To(Equal("bob@x.com"))
	g.Expect(user.PasswordHash).NotTo(Equal("secret-pw"))

	_, err = env.auth.SignUp(ctx, service.SignUpInput{FullName: "Bob", Email: "bob@x.com", Password: "secret-pw"})
	g.Expect(err).To(MatchError(service.ErrEmailAlreadyRegistered))

	_, err = env.auth.SignUp(ctx, service.SignUpInput{FullName: "Bob", Email: "carol@x.com", Password: "abc"})
	g.Expect(err).To(MatchError(service.ErrWeakPassword))

	_, err = env.auth.SignUp(ctx, service.SignUpInput{FullName: "", Email: "carol@x.com", Password: "secret-pw"})
	g.Expect(err).To(MatchError(service.ErrInvalidInput))
}

func TestSignIn(t *testing.T) {
	g := NewWithT(t)
	env := newTestEnv(t)
	ctx := context.Background()

	result, err := env.auth.SignIn(ctx, service.SignInInput{Email: "A@x.com", Password: "original-password"})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(result.User.ID).To(Equal(env.user.ID))

	claims, err := env.auth.VerifyToken(result.Token)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(claims.Type).To(Equal(utils.TokenTypeUser))
	g.Expect(claims.IdentityID).To(Equal(env.user.ID.String()))

	_, err = env.auth.SignIn(ctx, service.SignInInput{Email: "a@x.com", Password: "wrong-password"})
	g.Expect(err).To(MatchError(service.ErrInvalidCredentials))

	_, err = env.auth.SignIn(ctx, service.SignInInput{Email: "nobody@x.com", Password: "whatever"})
	g.Expect(err).To(MatchError(service.ErrInvalidCredentials))
}

func TestAdminSignIn(t *testing.T) {
	g := NewWithT(t)
	env := newTestEnv(t)
	ctx := context.Background()
	ip := "192.0.2.10"

	for _, login := range []string{"boss", "Admin@X.com"} {
		result, err := env.auth.AdminSignIn(ctx, service.AdminSignInInput{Username: login, Password: "admin-password", IPAddress: &ip})
		g.Expect(err).NotTo(HaveOccurred(), "login %q", login)
		g.Expect(result.Admin.ID).To(Equal(env.admin.ID))
		g.Expect(result.Admin.LastLoginAt).NotTo(BeNil())

		claims, err := env.auth.VerifyToken(result.Token)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(claims.Type).To(Equal(utils.TokenTypeAdmin))
		g.Expect(claims.Role).To(Equal(string(entity.AdminRoleAdmin)))
	}

	_, err := env.auth.AdminSignIn(ctx, service.AdminSignInInput{Username: "boss", Password: "nope-nope"})
	g.Expect(err).To(MatchError(service.ErrInvalidCredentials))

	stored, err := env.auth.CurrentAdmin(ctx, env.admin.ID)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(*stored.LastLoginIP).To(Equal(ip))
}

func TestVerifyToken_Rejects(t *testing.T) {
	g := NewWithT(t)
	env := newTestEnv(t)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := env.auth.VerifyToken(token)
		g.Expect(err).To(MatchError(service.ErrInvalidToken))
	}

	foreign := utils.JWTManager{Secret: []byte("other-secret")}
	token, _, err := foreign.IssueAccessToken(env.user.ID.String(), utils.TokenTypeUser, env.user.Email, "")
	g.Expect(err).NotTo(HaveOccurred())
	_, err = env.auth.VerifyToken(token)
	g.Expect(err).To(MatchError(service.ErrInvalidToken))
}

func TestSetAdminPassword(t *testing.T) {
	g := NewWithT(t)
	env := newTestEnv(t)
	ctx := context.Background()

	g.Expect(env.auth.SetAdminPassword(ctx, "boss", "replaced-pw")).To(Succeed())
	_, err := env.auth.AdminSignIn(ctx, service.AdminSignInInput{Username: "boss", Password: "replaced-pw"})
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(env.auth.SetAdminPassword(ctx, "nobody", "replaced-pw")).To(MatchError(service.ErrUserNotFound))
	g.Expect(env.auth.SetAdminPassword(ctx, "boss", "x")).To(MatchError(service.ErrWeakPassword))
}

func TestCreateAdmin_Duplicate(t *testing.T) {
	g := NewWithT(t)
	env := newTestEnv(t)

	_, err := env.auth.CreateAdmin(context.Background(), service.CreateAdminInput{
		Username: "boss",
		Email:    "other@x.com",
		Password: "admin-password",
	})
	g.Expect(err).To(MatchError(service.ErrEmailAlreadyRegistered))
}

func TestPasswordTooLongRejectedBeforeHashing(t *testing.T) {
	g := NewWithT(t)
	env := newTestEnv(t)
	ctx := context.Background()
	long := strings.Repeat("p", 80)

	_, err := env.auth.SignUp(ctx, service.SignUpInput{FullName: "Bob", Email: "bob@x.com", Password: long})
	g.Expect(err).To(MatchError(service.ErrPasswordTooLong))

	_, err = env.auth.CreateAdmin(ctx, service.CreateAdminInput{Username: "second", Email: "second@x.com", Password: long})
	g.Expect(err).To(MatchError(service.ErrPasswordTooLong))

	g.Expect(env.auth.SetAdminPassword(ctx, "boss", long)).To(MatchError(service.ErrPasswordTooLong))
}
