package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/odpc9/attendance-backend-go/internal/domain/auth"
	"github.com/odpc9/attendance-backend-go/internal/handler/http/response"
)

// AdminOnly admits tokens issued by the admin login: subject "admin" with
// the is_admin claim set.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		admin, _ := claims["is_admin"].(bool)
		subject, _ := claims["sub"].(string)
		if !admin || subject != "admin" {
			response.HandleError(w, auth.ErrAdminRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
