package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/rubychat/gamescan/internal/config"
)

type Server struct {
	config  *config.Config
	handler *Handler
	hub     *Hub
	server  *http.Server
	log     zerolog.Logger
}

// NewServer builds the command API. The hub is mounted at /ws and is expected
// to be registered as an event sink by the caller.
func NewServer(cfg *config.Config, ctrl Controller, hub *Hub, log zerolog.Logger) *Server {
	log = log.With().Str("component", "web").Logger()
	handler := NewHandler(ctrl, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))
	handler.SetupRoutes(r)
	r.Get("/ws", hub.ServeHTTP)

	httpServer := &http.Server{
		Addr:        cfg.WebAddress(),
		Handler:     r,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	return &Server{
		config:  cfg,
		handler: handler,
		hub:     hub,
		server:  httpServer,
		log:     log,
	}
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.log.Info().Str("addr", "http://"+s.server.Addr).Msg("starting web server")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("shutting down web server")
	s.hub.Close()
	return s.server.Shutdown(ctx)
}

func (s *Server) GetAddress() string {
	return s.server.Addr
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			log.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("took", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("request")
		})
	}
}
