// Package server is the companion REST backend for the timetable client:
// sign-in, user records and per-user weekly entries.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/julianstephens/timetable/internal/constants"
	"github.com/julianstephens/timetable/internal/logger"
	"github.com/julianstephens/timetable/internal/storage"
)

type Server struct {
	cfg        Config
	store      storage.Provider
	tokens     *TokenIssuer
	identities *IdentityVerifier
	router     *mux.Router
	now        func() time.Time
}

func New(cfg Config, store storage.Provider) *Server {
	s := &Server{
		cfg:        cfg,
		store:      store,
		tokens:     NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL),
		identities: NewIdentityVerifier(cfg.Provider),
		now:        time.Now,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := mux.NewRouter()
	r.Use(observe)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	authRouter := api.PathPrefix("/auth").Subrouter()
	authRouter.HandleFunc("/signup", s.handleSignUp).Methods(http.MethodPost)
	authRouter.HandleFunc("/signin", s.handleSignIn).Methods(http.MethodPost)
	authRouter.HandleFunc("/provider", s.handleProviderSignIn).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(s.requireAuth)
	protected.HandleFunc("/users", s.handleSaveUser).Methods(http.MethodPost)
	protected.HandleFunc("/users/{uid}", s.handleGetUser).Methods(http.MethodGet)
	protected.HandleFunc("/timetable/{userId}", s.handleListEntries).Methods(http.MethodGet)
	protected.HandleFunc("/timetable", s.handleCreateEntry).Methods(http.MethodPost)
	protected.HandleFunc("/timetable/{id}", s.handleUpdateEntry).Methods(http.MethodPut)
	protected.HandleFunc("/timetable/{id}", s.handleDeleteEntry).Methods(http.MethodDelete)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "no such route")
	})
	s.router = r
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		logger.Warn("Health check failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, codeUnavailable, "storage unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "storage": s.store.Describe()})
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", "addr", s.cfg.ListenAddr, "storage", s.store.Describe())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ServerShutdownGrace)
	defer cancel()
	logger.Info("Shutting down server")
	return srv.Shutdown(shutdownCtx)
}
