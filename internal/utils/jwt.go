package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

const (
	TokenTypeUser  = "user"
	TokenTypeAdmin = "admin"
)

type JWTManager struct {
	Secret        []byte
	Issuer        string
	UserTokenTTL  time.Duration
	AdminTokenTTL time.Duration
}

type AccessClaims struct {
	IdentityID string `json:"sub"`
	Type       string `json:"typ"`
	Email      string `json:"email"`
	Role       string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func (m JWTManager) IssueAccessToken(identityID string, tokenType string, email string, role string) (string, time.Duration, error) {
	ttl := m.ttlFor(tokenType)
	now := time.Now()
	claims := AccessClaims{
		IdentityID: identityID,
		Type:       tokenType,
		Email:      email,
		Role:       role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.Issuer,
			Subject:   identityID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.Secret)
	if err != nil {
		return "", 0, err
	}
	return signed, ttl, nil
}

func (m JWTManager) ParseAccessToken(tokenString string) (*AccessClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.Secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Type != TokenTypeUser && claims.Type != TokenTypeAdmin {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m JWTManager) ttlFor(tokenType string) time.Duration {
	if tokenType == TokenTypeAdmin {
		if m.AdminTokenTTL > 0 {
			return m.AdminTokenTTL
		}
		return 8 * time.Hour
	}
	if m.UserTokenTTL > 0 {
		return m.UserTokenTTL
	}
	return 30 * 24 * time.Hour
}
