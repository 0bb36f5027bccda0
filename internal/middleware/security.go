// internal/middleware/security.go
//
// Security-header middleware.
//
// Injects standard headers on every rendered page:
//
//   • Content-Security-Policy   –  self-only default policy
//   • X-Frame-Options           –  click-jacking defence
//   • X-Content-Type-Options    –  MIME-sniffing defence
//   • Referrer-Policy           –  drops path/query from Referer
//   • Permissions-Policy        –  disables powerful features by default
//
// Strict-Transport-Security is only sent on TLS requests; the view server
// is usually run behind a proxy in development where HSTS would stick to
// localhost.
//
// Notes
// -----
// • Headers are set *before* next.ServeHTTP so they reach the client even
//   when the handler writes the body immediately.  A handler may still
//   replace any of them.
// • Oxford commas, two spaces after periods.

package middleware

import "net/http"

const (
	hsts = "max-age=63072000; includeSubDomains; preload"
	csp  = "default-src 'self'; img-src 'self' data:; object-src 'none'; " +
		"base-uri 'self'; frame-ancestors 'none'"
)

var baseHeaders = [][2]string{
	{"Content-Security-Policy", csp},
	{"X-Frame-Options", "DENY"},
	{"X-Content-Type-Options", "nosniff"},
	{"Referrer-Policy", "strict-origin-when-cross-origin"},
	{"Permissions-Policy", "geolocation=(), microphone=(), camera=()"},
}

// Security sets security headers for every response.
func Security(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		for _, kv := range baseHeaders {
			if h.Get(kv[0]) == "" {
				h.Set(kv[0], kv[1])
			}
		}
		if r.TLS != nil && h.Get("Strict-Transport-Security") == "" {
			h.Set("Strict-Transport-Security", hsts)
		}
		next.ServeHTTP(w, r)
	})
}
