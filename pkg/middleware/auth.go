package middleware

import (
	"net/http"
	"strings"

	"marketplace-backend/internal/usecase"
	"marketplace-backend/pkg/utils"

	"go.uber.org/zap"
)

// Auth validates the access token (cookie or bearer header) and puts the
// account id and audience into the request context.
func Auth(tokenService usecase.TokenService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractAccessToken(r)
			if token == "" {
				utils.ResponseUnauthorized(w, "Missing access token")
				return
			}

			accountID, audience, err := tokenService.ValidateAccessToken(token)
			if err != nil {
				logger.Warn("Invalid or expired access token",
					zap.String("path", r.URL.Path),
					zap.Error(err))
				utils.ResponseUnauthorized(w, "Invalid or expired access token")
				return
			}

			ctx := utils.SetAccountContext(r.Context(), accountID, audience)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAudience restricts a route to one audience. Mount after Auth.
func RequireAudience(audience string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := utils.GetAudienceFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if got != audience {
				logger.Warn("Audience mismatch",
					zap.String("want", audience),
					zap.String("got", got),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Access denied")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractAccessToken prefers the cookie the verify endpoint sets; the bearer
// header is accepted for non-browser clients.
func extractAccessToken(r *http.Request) string {
	if cookie, err := r.Cookie("accessToken"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}
