package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
)

type requestIDKey struct{}

// NewRouter wires the four handlers behind chi, replacing the original
// handlers' hand-written Access-Control-Allow-* header dict with
// gorilla/handlers' CORS middleware and tagging every request with a UUID
// request ID (X-Request-Id header), surfaced in the access log line.
func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(requestIDMiddleware)
	r.Use(accessLogMiddleware(s))

	r.Post("/hide", s.HandleHide)
	r.Post("/retrieve", s.HandleRetrieve)
	r.Post("/embed-watermark", s.HandleEmbedWatermark)
	r.Post("/extract-watermark", s.HandleExtractWatermark)

	cors := handlers.CORS(
		handlers.AllowedHeaders([]string{"Content-Type"}),
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"POST", "GET", "OPTIONS"}),
	)
	return cors(r)
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestID extracts the request ID stashed by requestIDMiddleware, or ""
// if the request was never routed through it.
func RequestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey{}).(string)
	return id
}

func accessLogMiddleware(s *Server) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			s.Log.Info().
				Str("request_id", RequestID(r)).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("elapsed", time.Since(start)).
				Msg("request handled")
		})
	}
}
