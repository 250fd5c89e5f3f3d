package middleware

import (
	"net/http"

	"healthcare-appointment-api/internal/domain/entity"
	"healthcare-appointment-api/pkg/response"
)

// RequireRole declares which roles may invoke a route. Anonymous callers are
// rejected before the handler runs; authenticated callers holding none of
// the allowed roles get a forbidden, not a business-logic error.
func RequireRole(allowedRoles ...entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := RoleFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Authentication required")
				return
			}

			allowed := false
			for _, allowedRole := range allowedRoles {
				if role == allowedRole {
					allowed = true
					break
				}
			}

			if !allowed {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequirePatient gates patient-only routes
func RequirePatient(next http.Handler) http.Handler {
	return RequireRole(entity.RolePatient)(next)
}

// RequireDoctor gates doctor-only routes
func RequireDoctor(next http.Handler) http.Handler {
	return RequireRole(entity.RoleDoctor)(next)
}

// RequirePatientOrDoctor gates routes open to any authenticated role
func RequirePatientOrDoctor(next http.Handler) http.Handler {
	return RequireRole(entity.RolePatient, entity.RoleDoctor)(next)
}
