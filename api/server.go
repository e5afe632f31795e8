package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/rustyeddy/tradedesk/desk"
)

// Serve runs the HTTP API for d on addr until ctx is cancelled, then shuts
// the server down gracefully.
func Serve(ctx context.Context, addr string, d *desk.Desk) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      SetupRoutes(NewHandler(d)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("api listening on %s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
