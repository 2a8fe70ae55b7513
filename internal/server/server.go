// Package server boots every subsystem and runs the HTTP server until
// a shutdown signal arrives.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/roadassist/roadassist/app/models"
	"github.com/roadassist/roadassist/config"
	"github.com/roadassist/roadassist/internal/kernel"
	"github.com/roadassist/roadassist/pkg/audit"
	"github.com/roadassist/roadassist/pkg/cache"
	"github.com/roadassist/roadassist/pkg/database"
	"github.com/roadassist/roadassist/pkg/logger"
	"github.com/roadassist/roadassist/pkg/storage"
)

// Start boots config, database, cache, storage and the audit recorder,
// then serves HTTP until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	db, err := database.Connect()
	if err != nil {
		return err
	}

	// Redis being down degrades to the in-process cache store.
	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, using in-process cache", "error", err)
	}

	storage.Connect()

	var recorder *audit.Recorder
	if uri := config.MongoURI(); uri != "" {
		recorder, err = audit.NewRecorder(uri, config.MongoDB())
		if err != nil {
			logger.Warn("audit recorder disabled", "error", err)
			recorder = nil
		} else {
			defer recorder.Close()
		}
	}

	// Keep the schema current; the migration CLI manages versioned
	// changes, AutoMigrate covers fresh local setups.
	if err := db.AutoMigrate(
		&models.User{},
		&models.Vehicle{},
		&models.ServiceRequest{},
		&models.Mechanic{},
		&models.Payment{},
		&models.Review{},
	); err != nil {
		return err
	}

	k := kernel.NewHTTPKernel(db, recorder)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           k.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
