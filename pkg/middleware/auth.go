package middleware

import (
	"errors"
	"net/http"
	"strings"

	"roomly/pkg/identity"
	"roomly/pkg/logger"
)

// Authenticate verifies the bearer token and stores the caller identity in
// the request context. Requests without a valid token get 401.
func Authenticate(verifier identity.Verifier, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r.Header.Get("Authorization"))
			id, err := verifier.Verify(r.Context(), token)
			if err != nil {
				msg := "invalid token"
				if errors.Is(err, identity.ErrMissingToken) {
					msg = "missing bearer token"
				}
				log.Warn("Authentication failed",
					"request_id", RequestIDFromContext(r.Context()),
					"path", r.URL.Path,
					"error", err,
				)
				writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", msg)
				return
			}

			next.ServeHTTP(w, r.WithContext(identity.WithIdentity(r.Context(), id)))
		})
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
