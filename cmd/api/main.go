package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pet-registry/internal/app"
	"pet-registry/internal/platform/config"
	"pet-registry/internal/platform/logger"
	"pet-registry/internal/router"
)

// @title           Pet Registry Sync API
// @version         1.0
// @description     Sincroniza el registro de mascotas desde Google Sheets + Drive hacia la base.
// @BasePath /
func main() {
	config.LoadEnvFiles()

	cfg, err := config.FromEnv()
	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})
	if err != nil {
		log.Error("invalid configuration", map[string]any{"error": err})
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, log, app.Options{})
	if err != nil {
		log.Error("startup failed", map[string]any{"error": err})
		os.Exit(1)
	}
	defer a.Close(context.Background())

	r := router.NewRouter(router.Options{
		Sync:       a.Service,
		AdminToken: cfg.AdminToken,
		Log:        log,
	})

	// WriteTimeout abierto: una corrida de sync puede durar minutos.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("starting server", map[string]any{"addr": srv.Addr})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", map[string]any{"error": err})
		os.Exit(1)
	}
	log.Info("server stopped", nil)
}
