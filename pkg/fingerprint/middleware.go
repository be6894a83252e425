package fingerprint

import "net/http"

// Middleware stores the request fingerprint in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := SetFingerprintToContext(r.Context(), Generate(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
