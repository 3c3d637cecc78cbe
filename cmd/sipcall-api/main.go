package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/PabloGalante/sipcall/internal/adapters/http"
	"github.com/PabloGalante/sipcall/internal/app"
	"github.com/PabloGalante/sipcall/internal/config"
	"github.com/PabloGalante/sipcall/internal/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(os.Getenv("SIPCALL_CONFIG"))
	if err != nil {
		observability.Logger().Error("error loading config", "error", err)
		os.Exit(1)
	}

	logger := observability.Setup(os.Stdout, cfg.LogFormat, cfg.LogLevel)

	a, err := app.New(ctx, cfg)
	if err != nil {
		logger.Error("error initializing services", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	// HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpadapter.NewServer(a.Directory, a.History, a.Calls),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("error shutting down http server", "error", err)
		}
	}()

	logger.Info("sipcall API listening", "port", cfg.Port, "backend", cfg.StorageBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server stopped", "error", err)
		os.Exit(1)
	}
}
