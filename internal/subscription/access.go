// AngelaMos | 2026
// access.go

package subscription

import (
	"net/http"

	"github.com/liftlog/liftlog-api/internal/core"
	"github.com/liftlog/liftlog-api/internal/middleware"
)

// RequireAccess gates premium routes. It must run after the authenticator.
// Admins always pass.
func (s *Service) RequireAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if middleware.GetUserRole(r.Context()) == "admin" {
			next.ServeHTTP(w, r)
			return
		}

		ok, err := s.CheckAccess(r.Context(), middleware.GetUserID(r.Context()))
		if err != nil {
			core.InternalServerError(w, err)
			return
		}
		if !ok {
			core.JSONError(w, core.PaymentRequiredError("an active subscription is required"))
			return
		}

		next.ServeHTTP(w, r)
	})
}
