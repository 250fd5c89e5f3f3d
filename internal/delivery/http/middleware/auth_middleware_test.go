package middleware

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"healthcare-appointment-api/config"
	"healthcare-appointment-api/internal/domain/entity"
	"healthcare-appointment-api/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	users map[string]*entity.User
	err   error
}

func (s *stubResolver) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.users[username], nil
}

func newAuthTestService(t *testing.T) *jwt.TokenService {
	t.Helper()
	svc, err := jwt.NewTokenService(config.JWTConfig{
		Secret: base64.StdEncoding.EncodeToString([]byte("middleware-test-signing-key")),
		Expiry: time.Hour,
	})
	require.NoError(t, err)
	return svc
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// captureHandler records whether it ran and what identity the request carried.
type captureHandler struct {
	called bool
	caller *entity.User
	role   entity.Role
	hasAll bool
}

func (h *captureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	caller, okCaller := CallerFromContext(r.Context())
	role, okRole := RoleFromContext(r.Context())
	h.caller = caller
	h.role = role
	h.hasAll = okCaller && okRole
	w.WriteHeader(http.StatusOK)
}

func TestAuthenticate(t *testing.T) {
	tokenService := newAuthTestService(t)
	alice := &entity.User{ID: uuid.New(), Username: "alice", Roles: entity.RoleSet{entity.RolePatient}}
	resolver := &stubResolver{users: map[string]*entity.User{"alice": alice}}

	newRequest := func(authHeader string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/appointments", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		return req
	}

	t.Run("no header continues anonymously", func(t *testing.T) {
		mw := NewAuthMiddleware(tokenService, resolver, quietLogger())
		next := &captureHandler{}
		rec := httptest.NewRecorder()

		mw.Authenticate(next).ServeHTTP(rec, newRequest(""))

		assert.True(t, next.called)
		assert.False(t, next.hasAll)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("malformed header continues anonymously", func(t *testing.T) {
		mw := NewAuthMiddleware(tokenService, resolver, quietLogger())
		next := &captureHandler{}

		mw.Authenticate(next).ServeHTTP(httptest.NewRecorder(), newRequest("Token abc"))

		assert.True(t, next.called)
		assert.False(t, next.hasAll)
	})

	t.Run("invalid token continues anonymously", func(t *testing.T) {
		mw := NewAuthMiddleware(tokenService, resolver, quietLogger())
		next := &captureHandler{}

		mw.Authenticate(next).ServeHTTP(httptest.NewRecorder(), newRequest("Bearer not.a.token"))

		assert.True(t, next.called)
		assert.False(t, next.hasAll)
	})

	t.Run("valid token establishes caller and role", func(t *testing.T) {
		mw := NewAuthMiddleware(tokenService, resolver, quietLogger())
		token, err := tokenService.Issue("alice", entity.RolePatient)
		require.NoError(t, err)

		next := &captureHandler{}
		mw.Authenticate(next).ServeHTTP(httptest.NewRecorder(), newRequest("Bearer "+token))

		require.True(t, next.hasAll)
		assert.Equal(t, alice.ID, next.caller.ID)
		assert.Equal(t, entity.RolePatient, next.role)
	})

	t.Run("unknown subject is rejected, not anonymous", func(t *testing.T) {
		mw := NewAuthMiddleware(tokenService, resolver, quietLogger())
		token, err := tokenService.Issue("ghost", entity.RolePatient)
		require.NoError(t, err)

		next := &captureHandler{}
		rec := httptest.NewRecorder()
		mw.Authenticate(next).ServeHTTP(rec, newRequest("Bearer "+token))

		assert.False(t, next.called)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("resolver failure is a server error", func(t *testing.T) {
		broken := &stubResolver{err: errors.New("database down")}
		mw := NewAuthMiddleware(tokenService, broken, quietLogger())
		token, err := tokenService.Issue("alice", entity.RolePatient)
		require.NoError(t, err)

		next := &captureHandler{}
		rec := httptest.NewRecorder()
		mw.Authenticate(next).ServeHTTP(rec, newRequest("Bearer "+token))

		assert.False(t, next.called)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	withRole := func(req *http.Request, role entity.Role) *http.Request {
		ctx := context.WithValue(req.Context(), callerKey, &entity.User{ID: uuid.New()})
		ctx = context.WithValue(ctx, roleKey, role)
		return req.WithContext(ctx)
	}

	t.Run("anonymous caller gets 401", func(t *testing.T) {
		next := &captureHandler{}
		rec := httptest.NewRecorder()

		RequirePatient(next).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/appointments", nil))

		assert.False(t, next.called)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong role gets 403", func(t *testing.T) {
		next := &captureHandler{}
		rec := httptest.NewRecorder()
		req := withRole(httptest.NewRequest(http.MethodPost, "/appointments", nil), entity.RoleDoctor)

		RequirePatient(next).ServeHTTP(rec, req)

		assert.False(t, next.called)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("allowed role passes", func(t *testing.T) {
		next := &captureHandler{}
		rec := httptest.NewRecorder()
		req := withRole(httptest.NewRequest(http.MethodPost, "/doctors", nil), entity.RoleDoctor)

		RequireDoctor(next).ServeHTTP(rec, req)

		assert.True(t, next.called)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("either role passes the shared gate", func(t *testing.T) {
		for _, role := range []entity.Role{entity.RolePatient, entity.RoleDoctor} {
			next := &captureHandler{}
			req := withRole(httptest.NewRequest(http.MethodGet, "/doctors", nil), role)

			RequirePatientOrDoctor(next).ServeHTTP(httptest.NewRecorder(), req)

			assert.True(t, next.called, "role %s should pass", role)
		}
	})
}
