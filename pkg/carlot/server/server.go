package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/nekruzvatanshoev/carlot/pkg/carlot/logging"
	"github.com/nekruzvatanshoev/carlot/pkg/carlot/store"
)

// Config holds the HTTP server settings.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Logger       *slog.Logger
	// Limiter is optional; requests are not limited when nil.
	Limiter Limiter
}

// NewHTTPServer returns a new HTTP server serving the car API from repo
func NewHTTPServer(repo store.Repository, cfg Config) *http.Server {
	server := newHTTPServer(repo, cfg.Logger)
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.router(cfg.Limiter),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}
}

type httpServer struct {
	log  *slog.Logger
	repo store.Repository
}

func newHTTPServer(repo store.Repository, logger *slog.Logger) *httpServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &httpServer{
		log:  logging.WithComponent(logger, "http"),
		repo: repo,
	}
}

func (h *httpServer) router(limiter Limiter) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(logging.RequestLogger(h.log))
	r.Use(h.recoverMiddleware)
	r.Use(contentTypeApplicationJSONMiddleware)
	if limiter != nil {
		r.Use(h.rateLimitMiddleware(limiter))
	}

	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	r.HandleFunc("/cars", h.CreateCar).Methods(http.MethodPost)
	r.HandleFunc("/cars", h.GetCars).Methods(http.MethodGet)
	r.HandleFunc("/cars/{id}", h.UpdateCar).Methods(http.MethodPut)
	r.HandleFunc("/cars/{id}", h.DeleteCar).Methods(http.MethodDelete)
	return r
}
