package middleware

import (
	"context"
	"net/http"
	"strings"

	"healthcare-appointment-api/internal/domain/entity"
	"healthcare-appointment-api/pkg/jwt"
	"healthcare-appointment-api/pkg/response"

	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	callerKey contextKey = "caller"
	roleKey   contextKey = "role"
)

// SubjectResolver looks up a token subject in the credential store.
type SubjectResolver interface {
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
}

// AuthMiddleware establishes the caller's identity from a bearer token.
// Requests without a usable token continue anonymously; role-gated routes
// then reject them. A valid token whose subject no longer exists is an
// unrecoverable authentication failure, not an anonymous request.
type AuthMiddleware struct {
	tokenService *jwt.TokenService
	users        SubjectResolver
	log          *logrus.Logger
}

func NewAuthMiddleware(tokenService *jwt.TokenService, users SubjectResolver, log *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
		users:        users,
		log:          log,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.tokenService.Validate(parts[1])
		if err != nil {
			m.log.Debugf("Rejected bearer token: %+v", err)
			next.ServeHTTP(w, r)
			return
		}

		role, err := m.tokenService.RoleOf(claims)
		if err != nil {
			m.log.Debugf("Token for %q has no usable role claim", claims.Subject)
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.users.FindByUsername(r.Context(), claims.Subject)
		if err != nil {
			m.log.Warnf("Failed to resolve token subject %q: %+v", claims.Subject, err)
			response.InternalServerError(w, "Failed to authenticate request")
			return
		}
		if user == nil {
			response.Unauthorized(w, "Unknown token subject")
			return
		}

		ctx := context.WithValue(r.Context(), callerKey, user)
		ctx = context.WithValue(ctx, roleKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CallerFromContext returns the authenticated user, if any.
func CallerFromContext(ctx context.Context) (*entity.User, bool) {
	user, ok := ctx.Value(callerKey).(*entity.User)
	return user, ok
}

// RoleFromContext returns the role claim carried by the caller's token.
func RoleFromContext(ctx context.Context) (entity.Role, bool) {
	role, ok := ctx.Value(roleKey).(entity.Role)
	return role, ok
}
