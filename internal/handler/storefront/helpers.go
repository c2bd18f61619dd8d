package storefront

import "net/http"

// requestOrigin reconstructs the scheme+host the client used, honoring
// X-Forwarded-Proto when the server sits behind a proxy.
func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}
