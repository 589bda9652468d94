package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/HansOr04/testing-sub002/internal/handler/http/response"
)

func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.Unauthorized(w, "Missing token")
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.Unauthorized(w, "Invalid token")
				return
			}
			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.Unauthorized(w, "Invalid token")
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}

// ActorID extracts the audit identity from the verified token. Empty when
// the route is unauthenticated.
func ActorID(r *http.Request) string {
	token, claims, err := jwtauth.FromContext(r.Context())
	if err != nil || token == nil {
		return ""
	}
	if id, ok := claims["user_id"].(string); ok {
		return id
	}
	return ""
}
