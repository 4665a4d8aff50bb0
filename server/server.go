// Package server exposes conversions over HTTP as plain text
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"station-scraper/converter"
)

// Converter runs one conversion request
type Converter interface {
	Convert(ctx context.Context, req converter.Request) string
}

// NewRouter creates the HTTP routes.
// GET /convert and GET /station.php accept lineurl, lineq and stationurl.
func NewRouter(conv Converter) http.Handler {
	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		requestLogger,
		middleware.Recoverer,
	)

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	convert := convertHandler(conv)
	router.Get("/convert", convert)
	router.Get("/station.php", convert)

	return router
}

func convertHandler(conv Converter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		req := converter.Request{
			LineURL:    q.Get("lineurl"),
			LineID:     q.Get("lineq"),
			StationURL: q.Get("stationurl"),
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if req.LineURL == "" && req.StationURL == "" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte("Error: Missing lineurl or stationurl"))
			return
		}

		result := conv.Convert(r.Context(), req)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(result))
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.InfoContext(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// Run serves handler on addr until ctx is cancelled
func Run(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	}
}
