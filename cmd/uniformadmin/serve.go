package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/tn02103/uniformAdministrationApp-sub001/internal/api"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/custody"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/db"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate the database and serve the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, closeLog, err := loadConfig()
		if err != nil {
			return err
		}
		defer closeLog()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		database, err := db.Open(cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return err
		}
		defer database.Close()

		if err := db.Migrate(ctx, database); err != nil {
			return err
		}
		slog.Info("database ready", "driver", cfg.Database.Driver)

		jwtSecret := cfg.Auth.JWTSecret
		if jwtSecret == "" {
			jwtSecret, err = store.GetJWTSecret(ctx, database)
			if err != nil {
				return err
			}
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		engine := custody.New(database, custody.NewMetrics(reg))

		opts := api.Options{JWTSecret: jwtSecret, TokenTTL: cfg.Auth.TokenTTL}
		if cfg.Metrics.Enabled {
			opts.Metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
		}

		server := &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           api.LoggingMiddleware(api.NewRouter(database, engine, opts)),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		}

		go func() {
			<-ctx.Done()
			slog.Info("shutdown signal received")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				slog.Error("server forced to shutdown", "error", err)
			}
		}()

		slog.Info("server started", "addr", cfg.HTTP.Addr, "metrics", cfg.Metrics.Enabled)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}

		slog.Info("server stopped, closing database")
		return nil
	},
}
