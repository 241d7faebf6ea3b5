package api

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/adityar/eventpin/internal/api/sseauth"
)

// securityHeadersMiddleware adds security headers to API responses.
func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Prevent MIME type sniffing
		w.Header().Set("X-Content-Type-Options", "nosniff")

		// Prevent clickjacking
		w.Header().Set("X-Frame-Options", "DENY")

		// Control referrer information
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

// constantTimeEqualString compares two strings in constant time.
// Uses SHA-256 hashing to ensure comparison time is independent of input lengths.
func constantTimeEqualString(a, b string) bool {
	ah := sha256.Sum256([]byte(a))
	bh := sha256.Sum256([]byte(b))
	return subtle.ConstantTimeCompare(ah[:], bh[:]) == 1
}

// basicAuthMiddleware returns a middleware that checks HTTP Basic Auth credentials.
// Uses constant-time comparison to prevent timing attacks. When a failure
// limiter is given, failed attempts count toward lockout and a success
// clears the record.
func basicAuthMiddleware(username, password string, afl *AuthFailureLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, p, ok := r.BasicAuth()

			authorized := ok &&
				constantTimeEqualString(u, username) &&
				constantTimeEqualString(p, password)

			if !authorized {
				if afl != nil && ok {
					afl.RecordFailure(extractIP(r))
				}
				w.Header().Set("WWW-Authenticate", `Basic realm="Eventpin"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if afl != nil {
				afl.RecordSuccess(extractIP(r))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// sseTokenMiddleware returns a middleware that accepts either Basic Auth or a
// stream token. EventSource cannot set headers, so the token is passed via
// ?token=xxx query parameter.
func sseTokenMiddleware(username, password string, sseSecret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Try Basic Auth first
			if u, p, ok := r.BasicAuth(); ok {
				usernameMatch := constantTimeEqualString(u, username)
				passwordMatch := constantTimeEqualString(p, password)
				if usernameMatch && passwordMatch {
					next.ServeHTTP(w, r)
					return
				}
			}

			// Try the stream token from the query parameter
			token := r.URL.Query().Get("token")
			if token != "" && len(sseSecret) > 0 {
				_, err := sseauth.ValidateToken(token, sseSecret, sseauth.ScopeSSE, time.Now())
				if err == nil {
					next.ServeHTTP(w, r)
					return
				}
			}

			// Neither auth method succeeded
			w.Header().Set("WWW-Authenticate", `Basic realm="Eventpin"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
		})
	}
}
