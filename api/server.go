// Package api provides the HTTP server for solarsim.
//
// The compatibility surface is two routes: GET /health and POST /calculate,
// whose bodies are bare JSON objects. Everything under /api/v1 beyond those
// two mirrors uses the {success, data, error} envelope.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/seenimoa/solarsim/internal/catalog"
	"github.com/seenimoa/solarsim/internal/config"
	"github.com/seenimoa/solarsim/internal/infra"
	"github.com/seenimoa/solarsim/internal/metrics"
	"github.com/seenimoa/solarsim/web"
)

// ServiceName is reported by the health probe.
const ServiceName = "solar-simulator"

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Server is the HTTP API server.
type Server struct {
	router  chi.Router
	cfg     *config.Config
	catalog *catalog.Store
	metrics *metrics.Metrics
	limiter *infra.RateLimiter
}

// NewServer creates a configured API server with all routes and middleware.
// store may be nil, in which case catalog routes answer 503. m may be nil to
// disable instrumentation.
func NewServer(cfg *config.Config, store *catalog.Store, m *metrics.Metrics) *Server {
	srv := &Server{
		cfg:     cfg,
		catalog: store,
		metrics: m,
	}
	if cfg.API.RateLimit > 0 {
		srv.limiter = infra.NewRateLimiter(cfg.API.RateLimit, cfg.API.RateWindow())
	}
	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server and blocks until SIGINT/SIGTERM,
// then shuts down gracefully.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.cfg.API.RequestTimeout() + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(done)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("solarsim listening on %s", addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-done:
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if s.cfg.Logging.LogRequests() {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)
	r.Use(middleware.Timeout(s.cfg.API.RequestTimeout()))

	// CORS
	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.With(s.rateLimit).Post("/calculate", s.handleCalculate)

	if s.metrics != nil && s.cfg.Metrics.Enabled {
		r.Method(http.MethodGet, s.cfg.Metrics.Path, s.metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Catalog
		r.Get("/panels", s.handleListPanels)
		r.Get("/panels/{id}", s.handleGetPanel)
		r.Get("/locations", s.handleListLocations)
		r.Get("/locations/{id}", s.handleGetLocation)

		// Estimation
		r.Group(func(r chi.Router) {
			r.Use(s.rateLimit)
			r.Post("/calculate", s.handleCalculate)
			r.Post("/calculate/batch", s.handleBatch)
			r.Post("/simulate", s.handleSimulate)
			r.Post("/compare", s.handleCompare)
		})

		// Configuration
		r.Get("/config", s.handleGetConfig)
	})

	// Embedded estimator form
	if s.cfg.Web.Enabled {
		s.mountIndex(r, web.StaticFS())
	}

	return r
}

// mountIndex serves the embedded index.html at "/". Only the root path is
// claimed so unknown routes keep answering 404.
func (s *Server) mountIndex(r chi.Router, staticFS fs.FS) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		data, err := fs.ReadFile(staticFS, "index.html")
		if err != nil {
			http.Error(w, "web UI not available", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.WriteHeader(http.StatusOK)
		w.Write(data) //nolint:errcheck
	})
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope for /api/v1 extensions.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ErrorResponse is the body of a rejected /calculate request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the liveness probe body.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// ============================================================
// Helpers
// ============================================================

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to write JSON response: %v", err)
	}
}

// writeError writes the enveloped error used by /api/v1 extensions.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}

// writeBareError writes {"error": msg} for the compatibility routes.
func writeBareError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// errTrailingData is returned when a body holds more than one JSON value.
var errTrailingData = errors.New("unexpected data after JSON value")

// decodeJSON reads a size-limited body holding exactly one JSON value into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}
