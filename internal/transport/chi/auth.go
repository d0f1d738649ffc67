package chi

import (
	"net/http"
)

// apiKeyHeader carries the api key; the api_key query parameter is the fallback.
const apiKeyHeader = "X-Authorization"

// apiKey extracts the caller's api key from the request.
func apiKey(r *http.Request) string {
	if key := r.Header.Get(apiKeyHeader); key != "" {
		return key
	}
	return r.URL.Query().Get("api_key")
}

// PreflightMiddleware answers every OPTIONS request with 204 before routing,
// authentication or any store access.
func PreflightMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// HeadersMiddleware sets the Server and Cache-Control headers on every response.
func HeadersMiddleware(serverName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Server", serverName)
			w.Header().Set("Cache-Control", "max-age=1")
			next.ServeHTTP(w, r)
		})
	}
}
