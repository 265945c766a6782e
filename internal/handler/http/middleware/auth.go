package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/odpc9/attendance-backend-go/internal/domain/auth"
	"github.com/odpc9/attendance-backend-go/internal/handler/http/response"
	"github.com/odpc9/attendance-backend-go/internal/pkg/jwt"
)

// AuthRequired rejects requests whose verified token is missing, is not an
// access token, or was revoked by a logout.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if jwtService.IsTokenRevoked(jwtauth.TokenFromHeader(r)) {
				response.HandleError(w, auth.ErrTokenRevoked)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}
