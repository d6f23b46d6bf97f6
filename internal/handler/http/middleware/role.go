package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-backend-go/internal/handler/http/response"
)

// RequirePermission rejects callers whose role can never perform action on
// resource. Ownership of the targeted record is checked by the services.
func RequirePermission(resource user.Resource, action user.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := user.PrincipalFromContext(r.Context())
			if err != nil {
				response.HandleError(w, err)
				return
			}

			if !user.CanAttempt(principal, resource, action) {
				// Authorize tells a missing employee profile apart from a wrong role.
				response.HandleError(w, user.Authorize(principal, resource, action, ""))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
