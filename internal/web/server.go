package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/vbonduro/salonbook/internal/service"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	reviews      *service.ReviewService
	appointments *service.AppointmentService
	diagnostics  *service.DiagnosticsService
	mux          *http.ServeMux
	handler      http.Handler
	logger       *slog.Logger
}

func NewServer(
	reviews *service.ReviewService,
	appointments *service.AppointmentService,
	diagnostics *service.DiagnosticsService,
	corsOrigins []string,
	logger *slog.Logger,
) *Server {
	s := &Server{
		reviews:      reviews,
		appointments: appointments,
		diagnostics:  diagnostics,
		mux:          http.NewServeMux(),
		logger:       logger,
	}
	s.registerRoutes()

	h := securityHeaders(s.mux)
	h = withCORS(corsPolicy{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", requestIDHeader},
		AllowCredentials: true,
		MaxAge:           10 * time.Minute,
	})(h)
	h = requestLogger(logger, h)
	h = withRequestID(h)
	s.handler = otelhttp.NewHandler(h, "salonbook")
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /{$}", s.handleRoot)
	s.mux.HandleFunc("GET /test", s.handleDiagnostics)
	s.mux.HandleFunc("GET /api/reviews", s.handleListReviews)
	s.mux.HandleFunc("POST /api/appointments", s.handleCreateAppointment)
	s.mux.HandleFunc("GET /api/seo/keywords", s.handleSEOKeywords)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
