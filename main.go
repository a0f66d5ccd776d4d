package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stevemurr/negocio-server/config"
	"github.com/stevemurr/negocio-server/handler"
	"github.com/stevemurr/negocio-server/logger"
	"github.com/stevemurr/negocio-server/store"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.NewFromConfig(cfg.Log.Level, cfg.Log.Format)
	defer appLogger.Sync()

	if err := run(cfg, appLogger); err != nil {
		appLogger.Error("server stopped", zap.Error(err))
		appLogger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, appLogger *zap.Logger) error {
	s, err := store.New(store.Options{
		Backend:     cfg.Store.Backend,
		DataDir:     cfg.Store.DataDir,
		DSN:         cfg.Store.DSN,
		AutoMigrate: cfg.Store.AutoMigrate,
	})
	if err != nil {
		return err
	}
	defer s.Close()

	fields := []zap.Field{
		zap.String("address", cfg.Server.Addr()),
		zap.String("store", cfg.Store.Backend),
		zap.String("log_level", cfg.Log.Level),
	}
	if fs, ok := s.(*store.JsonFileStore); ok {
		fields = append(fields, zap.String("database", fs.Path()))
	}
	appLogger.Info("Starting Negocio Server", fields...)

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler.New(s, appLogger, cfg.Server.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	appLogger.Info("Shutting down", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	appLogger.Info("Server stopped")
	return nil
}
