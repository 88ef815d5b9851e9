package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleOperator may query the user directory.
const RoleOperator = "operator"

var ErrJWTDisabled = errors.New("jwt secret not configured")

// JWTManager signs and checks HS256 bearer tokens for staff-facing routes.
// Registration and verification never need one.
type JWTManager struct {
	Secret []byte
	TTL    time.Duration
	Issuer string
}

// NewJWTManager returns nil when secret is empty; protected routes then
// reject every request.
func NewJWTManager(secret string, ttl time.Duration, issuer string) *JWTManager {
	if secret == "" {
		return nil
	}
	return &JWTManager{Secret: []byte(secret), TTL: ttl, Issuer: issuer}
}

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken issues a token for subject carrying role.
func (m *JWTManager) GenerateToken(subject, role string) (string, time.Time, error) {
	if m == nil {
		return "", time.Time{}, ErrJWTDisabled
	}
	now := time.Now()
	exp := now.Add(m.TTL)
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    m.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.Secret)
	return s, exp, err
}

// ParseToken verifies signature, issuer and expiry.
func (m *JWTManager) ParseToken(tokenStr string) (*Claims, error) {
	if m == nil {
		return nil, ErrJWTDisabled
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims,
		func(*jwt.Token) (interface{}, error) { return m.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
