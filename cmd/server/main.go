// Command server runs the CRM HTTP API.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	app "github.com/clientdesk/clientdesk/internal/app"
	"github.com/clientdesk/clientdesk/internal/app/httpapi"
	"github.com/clientdesk/clientdesk/internal/app/migrations"
	"github.com/clientdesk/clientdesk/internal/app/storage/postgres"
	"github.com/clientdesk/clientdesk/internal/config"
	"github.com/clientdesk/clientdesk/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config/server.yaml", "path to the server config file")
	flag.Parse()

	cfg, err := config.LoadFromPath(*configPath)
	if err != nil {
		logger.NewDefault("server").WithError(err).Error("load configuration")
		os.Exit(1)
	}

	log := logger.NewDefault("server")

	var stores app.Stores
	if cfg.DatabaseURL != "" {
		db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Error("connect to postgres")
			os.Exit(1)
		}
		defer db.Close()

		if err := migrations.Apply(db.DB); err != nil {
			log.WithError(err).Error("apply migrations")
			os.Exit(1)
		}

		pg := postgres.New(db)
		stores = app.Stores{
			Users:        pg,
			Sessions:     pg,
			Clients:      pg,
			Projects:     pg,
			Interactions: pg,
			Reminders:    pg,
			Dashboard:    pg,
		}
		log.Info("using postgres storage")
	} else {
		log.Warn("DATABASE_URL not set; using in-memory storage")
	}

	application := app.New(stores, app.Options{
		JWTSecret:  []byte(cfg.JWTSecret),
		SessionTTL: cfg.SessionTTL,
	}, log)

	handler := httpapi.NewRouter(application, httpapi.Options{
		CORSOrigins:   cfg.CORSOrigins,
		SecureCookies: cfg.Production(),
		AuthRateLimit: cfg.AuthRateLimit,
		AuthRateBurst: cfg.AuthRateBurst,
	}, log)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.Addr).Info("server listening")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.WithError(err).Error("server error")
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("server shutdown")
	}

	log.Info("server stopped")
}
