package middleware

import (
	"net/http"
	"strings"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// RequireCompany rejects tokens that are not yet bound to a company.
func RequireCompany(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, user.ErrCompanyIDRequired)
			return
		}

		companyID, ok := claims["company_id"].(string)
		if !ok || companyID == "" {
			response.HandleError(w, user.ErrCompanyIDRequired)
			return
		}

		if role, _ := claims["role"].(string); user.Role(role) == user.RolePending {
			response.HandleError(w, user.ErrCompanyIDRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireCompanyPath limits file routes under prefix to the caller's own
// exports/<company_id>/ tree.
func RequireCompanyPath(prefix string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, _ := jwtauth.FromContext(r.Context())
			companyID, _ := claims["company_id"].(string)

			allowed := prefix + "/exports/" + companyID + "/"
			if companyID == "" || !strings.HasPrefix(r.URL.Path, allowed) {
				response.NotFound(w, "File not found")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
