package identity

import (
	"errors"
	"net/http"
	"strings"

	"github.com/courtside/pickup/internal/modules/core"
)

// AuthenticationMiddleware resolves the request's bearer token through the
// verifier and stores the resulting identity in the request context.
func AuthenticationMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				core.WriteUnauthorized(w, r, nil)
				return
			}

			id, err := verifier.Verify(r.Context(), token)
			switch {
			case errors.Is(err, ErrTokenRejected):
				core.WriteUnauthorized(w, r, nil)
				return
			case err != nil:
				core.WriteInternalServerError(w, r, nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
