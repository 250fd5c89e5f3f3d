package jwt

import (
	"encoding/base64"
	"testing"
	"time"

	"healthcare-appointment-api/config"
	"healthcare-appointment-api/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, expiry time.Duration) *TokenService {
	t.Helper()
	cfg := config.JWTConfig{
		Secret: base64.StdEncoding.EncodeToString([]byte("test-signing-key-0123456789abcdef")),
		Expiry: expiry,
	}
	svc, err := NewTokenService(cfg)
	require.NoError(t, err)
	return svc
}

func TestNewTokenService(t *testing.T) {
	t.Run("rejects non-base64 secret", func(t *testing.T) {
		_, err := NewTokenService(config.JWTConfig{Secret: "not base64!!!"})
		assert.Error(t, err)
	})

	t.Run("rejects empty secret", func(t *testing.T) {
		_, err := NewTokenService(config.JWTConfig{Secret: ""})
		assert.ErrorIs(t, err, ErrEmptySecret)
	})
}

func TestIssueAndValidate(t *testing.T) {
	svc := newTestService(t, time.Hour)

	token, err := svc.Issue("alice", entity.RolePatient)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, "PATIENT", claims.Role)

	role, err := svc.RoleOf(claims)
	require.NoError(t, err)
	assert.Equal(t, entity.RolePatient, role)
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	svc := newTestService(t, time.Hour)

	token, err := svc.Issue("alice", entity.RolePatient)
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = svc.Validate(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	issuer := newTestService(t, time.Hour)

	other, err := NewTokenService(config.JWTConfig{
		Secret: base64.StdEncoding.EncodeToString([]byte("a-different-signing-key")),
		Expiry: time.Hour,
	})
	require.NoError(t, err)

	token, err := issuer.Issue("alice", entity.RoleDoctor)
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := newTestService(t, time.Millisecond)

	token, err := svc.Issue("alice", entity.RolePatient)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := newTestService(t, time.Hour)

	_, err := svc.Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRoleOf(t *testing.T) {
	svc := newTestService(t, time.Hour)

	t.Run("missing role claim", func(t *testing.T) {
		_, err := svc.RoleOf(&Claims{})
		assert.ErrorIs(t, err, ErrMissingRole)
	})

	t.Run("unknown role claim", func(t *testing.T) {
		_, err := svc.RoleOf(&Claims{Role: "ADMIN"})
		assert.ErrorIs(t, err, ErrMissingRole)
	})

	t.Run("case-normalized", func(t *testing.T) {
		role, err := svc.RoleOf(&Claims{Role: "doctor"})
		require.NoError(t, err)
		assert.Equal(t, entity.RoleDoctor, role)
	})
}
