package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/cloud-ru/mcp-tvm-go/internal/logging"
)

// NewCORS создает CORS middleware для указанных источников
func NewCORS(allowedOrigins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Content-Type",
			"Authorization",
		},
		ExposedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	})
}

// Logger пишет в журнал каждый HTTP запрос
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		// CR/LF из пользовательских значений не попадают в журнал
		sanitize := strings.NewReplacer("\n", "", "\r", "").Replace
		logging.Log.WithFields(logrus.Fields{
			"method":      sanitize(r.Method),
			"path":        sanitize(r.URL.Path),
			"status":      wrapped.statusCode,
			"duration_ms": time.Since(start).Milliseconds(),
			"request_id":  middleware.GetReqID(r.Context()),
		}).Info("http request")
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
