package middleware

import (
	"net/http"
	"strconv"

	"github.com/barefootnomad/backend/internal"
	"github.com/barefootnomad/backend/internal/transport"
	"github.com/go-chi/chi"
)

// RequireSelf allows the request only when the authenticated user id equals
// the named route parameter. It must run after authentication.
func RequireSelf(h *transport.BaseHandler, param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := internal.IdentityFromContext(r.Context())
			if !ok {
				h.HandleServiceError(w, internal.ErrMissingToken)
				return
			}

			id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
			if err != nil || id != identity.UserID {
				h.Logger.Warn("access denied: identity does not match route",
					"user_id", identity.UserID,
					"param", param,
					"value", chi.URLParam(r, param))
				h.HandleServiceError(w, internal.ErrAccessDenied)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRoles allows the request only for identities holding one of roles.
func RequireRoles(h *transport.BaseHandler, roles ...int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := internal.IdentityFromContext(r.Context())
			if !ok {
				h.HandleServiceError(w, internal.ErrMissingToken)
				return
			}

			if !HasAnyRole(identity, roles...) {
				h.Logger.Warn("access denied: user lacks required role",
					"user_id", identity.UserID,
					"role_id", identity.RoleID,
					"required_roles", roles)
				h.HandleServiceError(w, internal.ErrUnauthorizedUser)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func HasAnyRole(identity internal.Identity, roles ...int64) bool {
	for _, role := range roles {
		if identity.RoleID == role {
			return true
		}
	}
	return false
}
