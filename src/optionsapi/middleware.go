package optionsapi

import "net/http"

// CorsMiddleware mirrors the permissive cross-origin policy the
// service has always exposed to browser clients.
func CorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(204)
			return
		}

		next.ServeHTTP(w, r)
	})
}
