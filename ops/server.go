// Package ops serves health endpoints for operators and orchestrators.
package ops

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"pizza-telegram/models"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type LocationLister interface {
	ListFulfillingLocations(ctx context.Context) ([]models.FulfillingLocation, error)
}

// Server answers /healthz (session store reachable) and /readyz (store
// reachable and at least one fulfilling location configured).
type Server struct {
	Router    *chi.Mux
	store     Pinger
	locations LocationLister
}

func New(store Pinger, locations LocationLister) *Server {
	s := &Server{Router: chi.NewRouter(), store: store, locations: locations}
	s.Router.Use(chimw.RealIP)
	s.Router.Use(chimw.Recoverer)
	s.Router.Get("/healthz", s.healthz)
	s.Router.Get("/readyz", s.readyz)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "down", "store": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "down", "store": err.Error()})
		return
	}
	locs, err := s.locations.ListFulfillingLocations(ctx)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "down", "locations": err.Error()})
		return
	}
	if len(locs) == 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "misconfigured", "locations": 0})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "locations": len(locs)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("ops server listening on %s", addr)
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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
