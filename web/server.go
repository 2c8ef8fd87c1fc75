package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/filbar/swapper/web/routes"
)

func disableCacheInDevMode(dev bool, next http.Handler) http.Handler {
	if !dev {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

func BuildServer(handler *routes.ServerHandler, dev bool) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /api/state", disableCacheInDevMode(dev, http.HandlerFunc(handler.StateHandle)))
	mux.Handle("GET /{$}", disableCacheInDevMode(dev, http.HandlerFunc(handler.StatusHandle)))

	return mux
}

// StartServer serves the status page until ctx is done.
func StartServer(ctx context.Context, port int, handler *routes.ServerHandler, dev bool) error {
	slog.Info("Running interface", "port", port)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           BuildServer(handler, dev),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Could not stop server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("could not run server: %w", err)
	}

	return nil
}
