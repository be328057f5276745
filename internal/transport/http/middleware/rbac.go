package middleware

import (
	"net/http"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
)

// RequireAtLeast gates a route on the admin > pup_admin > user
// hierarchy. It must sit inside Auth: a request with no role stamped on
// its context is treated as unauthenticated, not merely under-ranked.
func RequireAtLeast(minRole string, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := RoleFromContext(r.Context())
			if !ok {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			// An unknown role string (from a stale token) never passes.
			if !domain.IsValidRole(role) || !domain.IsValidRole(minRole) {
				writeErr(w, r, domain.ErrForbidden())
				return
			}
			if domain.RoleRank(role) < domain.RoleRank(minRole) {
				writeErr(w, r, domain.ErrInsufficientRole(minRole))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
