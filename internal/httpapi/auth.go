package httpapi

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"tableorder/api-service/internal/auth"
)

// TokenVerifier is satisfied by auth.TokenCodec.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

type ownerContextKey struct{}

// AuthMiddleware resolves the request identity before any handler runs.
// It extracts the bearer token, verifies it, and publishes the subject id
// into the request context. Missing and invalid tokens are both rejected
// with 401; handlers never learn the owner from bodies or paths.
func AuthMiddleware(verifier TokenVerifier, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicEndpoint(r) {
			next.ServeHTTP(w, r)
			return
		}
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}
		ownerID, err := verifier.Verify(token)
		if err != nil {
			var verr *auth.VerificationError
			if errors.As(err, &verr) {
				log.Printf("token rejected kind=%s path=%s", verr.Kind, r.URL.Path)
			}
			writeError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
			return
		}
		ctx := context.WithValue(r.Context(), ownerContextKey{}, ownerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func ownerFromContext(ctx context.Context) (string, bool) {
	value := ctx.Value(ownerContextKey{})
	if value == nil {
		return "", false
	}
	ownerID, ok := value.(string)
	if !ok || ownerID == "" {
		return "", false
	}
	return ownerID, true
}

// requireOwner fetches the resolved identity or rejects the request. The
// middleware runs first on every protected route, so a miss here means the
// handler was wired outside the middleware chain.
func requireOwner(w http.ResponseWriter, r *http.Request) (string, bool) {
	ownerID, ok := ownerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing identity")
		return "", false
	}
	return ownerID, true
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return ""
	}
	if strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}

func isPublicEndpoint(r *http.Request) bool {
	switch r.URL.Path {
	case "/healthz", "/debug/vars", "/api/auth/signup", "/api/auth/login", "/api/auth/reset-password":
		return true
	default:
		return r.Method == http.MethodOptions
	}
}
