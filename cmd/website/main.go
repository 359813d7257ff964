package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/alamal-ev/website/internal/database"
	"github.com/alamal-ev/website/internal/logging"
	"github.com/alamal-ev/website/internal/mail"
	"github.com/alamal-ev/website/internal/server"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	logger := logging.Setup(os.Getenv("SITE_LOG_LEVEL"))

	addr := envOr("SITE_ADDR", ":8080")
	dbPath := envOr("SITE_DB_PATH", "website.db")
	baseURL := envOr("SITE_BASE_URL", "http://localhost:8080")

	db, err := database.Open(dbPath)
	if err != nil {
		logger.Error("open database", "path", dbPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	smtpPort, _ := strconv.Atoi(envOr("SMTP_PORT", "587"))
	mailer, err := mail.NewClient(mail.Config{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     smtpPort,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     envOr("SMTP_FROM", "noreply@alamal-ev.de"),
		BaseURL:  baseURL,
	})
	if err != nil {
		logger.Error("configure mail client", "error", err)
		os.Exit(1)
	}
	if !mailer.Configured() {
		logger.Warn("SMTP_HOST not set, outgoing mail disabled")
	}

	srv := server.New(db, mailer, logger)

	// Expired magic-link tokens and stale rate-limit windows are swept
	// hourly.
	cleanupDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n, err := srv.AuthTokenStore().DeleteExpired(); err != nil {
					logger.Error("delete expired auth tokens", "error", err)
				} else if n > 0 {
					logger.Debug("deleted expired auth tokens", "count", n)
				}
				srv.RateLimiter().Cleanup()
			case <-cleanupDone:
				return
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", addr, "base_url", baseURL)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	close(cleanupDone)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
