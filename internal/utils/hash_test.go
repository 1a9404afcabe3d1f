package utils_test

import (
	"testing"
	"time"

	"salonbook/internal/utils"

	. "github.com/onsi/gomega"
)

func TestGenerateHexToken(t *testing.T) {
	g := NewWithT(t)

	token, err := utils.GenerateHexToken(32)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(token).To(MatchRegexp("^[0-9a-f]{64}$"))

	other, err := utils.GenerateHexToken(32)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(other).NotTo(Equal(token))
}

func TestHashToken(t *testing.T) {
	g := NewWithT(t)

	g.Expect(utils.HashToken("abc")).To(Equal("ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"))
	g.Expect(utils.HashToken("abc")).NotTo(Equal(utils.HashToken("abd")))
}

func TestNormalizeEmail(t *testing.T) {
	g := NewWithT(t)

	g.Expect(utils.NormalizeEmail("  A@X.Com ")).To(Equal("a@x.com"))
}

func TestGenerateNumericCode(t *testing.T) {
	g := NewWithT(t)

	for range 200 {
		code, err := utils.GenerateNumericCode(6)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(code).To(MatchRegexp("^[1-9][0-9]{5}$"))
		g.Expect(utils.IsNumericCode(code, 6)).To(BeTrue())
	}

	_, err := utils.GenerateNumericCode(0)
	g.Expect(err).To(HaveOccurred())
}

func TestIsNumericCode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "six digits", input: "123456", expected: true},
		{name: "too short", input: "12345", expected: false},
		{name: "too long", input: "1234567", expected: false},
		{name: "letters", input: "12a456", expected: false},
		{name: "empty", input: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			g.Expect(utils.IsNumericCode(tt.input, 6)).To(Equal(tt.expected))
		})
	}
}

func TestValidEmail(t *testing.T) {
	g := NewWithT(t)

	g.Expect(utils.ValidEmail("a@x.com")).To(BeTrue())
	g.Expect(utils.ValidEmail("not-an-email")).To(BeFalse())
	g.Expect(utils.ValidEmail("")).To(BeFalse())
}

func TestJWTManager_RoundTrip(t *testing.T) {
	g := NewWithT(t)

	manager := utils.JWTManager{Secret: []byte("secret"), Issuer: "salonbook", AdminTokenTTL: time.Hour}
	token, ttl, err := manager.IssueAccessToken("id-1", utils.TokenTypeAdmin, "admin@x.com", "super-admin")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(ttl).To(Equal(time.Hour))

	claims, err := manager.ParseAccessToken(token)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(claims.IdentityID).To(Equal("id-1"))
	g.Expect(claims.Type).To(Equal(utils.TokenTypeAdmin))
	g.Expect(claims.Role).To(Equal("super-admin"))
	g.Expect(claims.Email).To(Equal("admin@x.com"))
}

func TestJWTManager_RejectsForeignSecret(t *testing.T) {
	g := NewWithT(t)

	issuer := utils.JWTManager{Secret: []byte("one")}
	token, _, err := issuer.IssueAccessToken("id-1", utils.TokenTypeUser, "a@x.com", "")
	g.Expect(err).NotTo(HaveOccurred())

	verifier := utils.JWTManager{Secret: []byte("two")}
	_, err = verifier.ParseAccessToken(token)
	g.Expect(err).To(MatchError(utils.ErrInvalidToken))
}
