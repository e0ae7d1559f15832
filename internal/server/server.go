// Package server exposes the core rtfstream parser over HTTP and
// WebSocket: a synchronous /v1/parse endpoint backed by a dedupe cache and
// an audit store, and a /v1/stream endpoint that forwards the parser's
// callbacks as JSON messages in document order.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/inkwell-go/rtfstream/internal/cache"
	"github.com/inkwell-go/rtfstream/internal/store"
)

// Server bundles the dependencies every handler needs.
type Server struct {
	router *chi.Mux
	auth   *AuthService
	cache  *cache.Cache
	store  store.Store
	log    *zap.SugaredLogger
}

// New wires up the router. cache and log may be nil; a nil cache disables
// dedupe, a nil log disables request logging beyond chi's default.
func New(auth *AuthService, c *cache.Cache, s store.Store, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	srv := &Server{router: chi.NewRouter(), auth: auth, cache: c, store: s, log: log}
	srv.routes()
	return srv
}

// ServeHTTP lets Server itself be passed to http.ListenAndServe.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(30 * time.Second))

	s.router.Route("/v1", func(r chi.Router) {
		r.Use(s.auth.Middleware)
		r.Post("/parse", s.handleParse)
		r.Get("/stream", s.handleStream)
	})
}

// requestID returns a uuid for a request; chi's own request-id middleware
// produces a short counter-based string unsuitable for cross-service
// correlation, so handlers mint their own.
func requestID() string {
	return uuid.NewString()
}
