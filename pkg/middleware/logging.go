package middleware

import (
	"net/http"
	"time"

	"friendchat/pkg/logger"
)

// LoggingMiddleware logs every HTTP request with its duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Log.Infof("%s %s completed in %s", r.Method, r.URL.Path, time.Since(start))
	})
}
