package jwt

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"healthcare-appointment-api/config"
	"healthcare-appointment-api/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingRole  = errors.New("token has no role claim")
	ErrEmptySecret  = errors.New("jwt secret is empty")
)

// Claims is the signed assertion of identity and role embedded in a session
// token. Subject carries the username; Role carries the bare uppercase role.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and validates HS256 session tokens. It is stateless
// apart from the signing key and the configured lifetime.
type TokenService struct {
	secret []byte
	expiry time.Duration
}

// NewTokenService decodes the base64-encoded symmetric secret. Changing the
// secret invalidates all outstanding tokens.
func NewTokenService(cfg config.JWTConfig) (*TokenService, error) {
	secret, err := base64.StdEncoding.DecodeString(cfg.Secret)
	if err != nil {
		return nil, err
	}
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	return &TokenService{secret: secret, expiry: cfg.Expiry}, nil
}

// Issue mints a token for the given subject, valid for the configured
// lifetime from now.
func (s *TokenService) Issue(username string, role entity.Role) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role.Claim(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate verifies signature, structure and expiry.
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// RoleOf extracts the role claim, case-normalized to the closed role set.
func (s *TokenService) RoleOf(claims *Claims) (entity.Role, error) {
	if strings.TrimSpace(claims.Role) == "" {
		return "", ErrMissingRole
	}
	role, err := entity.ParseRole(claims.Role)
	if err != nil {
		return "", ErrMissingRole
	}
	return role, nil
}

func (s *TokenService) Expiry() time.Duration {
	return s.expiry
}
