package api

import (
	"chatlead-backend/pkg/httputil"
	"crypto/subtle"
	"log"
	"net/http"
	"strings"
)

// --- API Key Middleware ---

// APIKeyAuthMiddleware gates requests on a single pre-shared secret presented
// either as a raw value in x-api-key or as "Bearer <secret>" in Authorization.
// A missing server-side secret is a deployment error and is reported as 500,
// distinct from the 401 returned for an invalid client credential. The check
// is a pure predicate over header values; comparison is constant-time.
func APIKeyAuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				log.Println("ERROR [APIKeyAuth] COLLECT_API_KEY is not configured")
				httputil.RespondError(w, http.StatusInternalServerError, "Server missing COLLECT_API_KEY")
				return
			}

			presented := r.Header.Get("x-api-key")
			if presented == "" {
				presented = r.Header.Get("Authorization")
			}
			// The Bearer prefix is the one accepted alternate presentation;
			// anything else must match the secret byte for byte.
			presented = strings.TrimPrefix(presented, "Bearer ")

			if subtle.ConstantTimeCompare([]byte(presented), []byte(secret)) != 1 {
				log.Println("WARN [APIKeyAuth] Rejected request with invalid API key")
				httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized - invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
