package middleware

import (
	"net/http"

	log "github.com/sirupsen/logrus"
)

// LogRequest logs every inbound webhook request at debug level.
func LogRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Debugf("request [%s] path: [%s] [UA: %s]", r.Method, r.URL.Path, r.Header.Get("User-Agent"))
		next.ServeHTTP(w, r)
	})
}
