package middleware

import (
	"fmt"
	"net/http"
)

// CacheControl returns a middleware that marks successful GET responses as
// publicly cacheable for maxAge seconds. A non-positive maxAge sets no-store.
func CacheControl(maxAge int) func(http.Handler) http.Handler {
	value := "no-store"
	if maxAge > 0 {
		value = fmt.Sprintf("public, max-age=%d", maxAge)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				w.Header().Set("Cache-Control", value)
			}
			next.ServeHTTP(w, r)
		})
	}
}
