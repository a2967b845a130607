package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"meetnotes/backend/internal/config"
	"meetnotes/backend/internal/handler"
	transport "meetnotes/backend/internal/http"
	"meetnotes/backend/internal/logger"
	"meetnotes/backend/internal/metrics"
	"meetnotes/backend/internal/network"
	"meetnotes/backend/internal/repository"
	"meetnotes/backend/internal/service"
	"meetnotes/backend/internal/service/ai"
	"meetnotes/backend/internal/service/mail"
)

const shutdownTimeout = 10 * time.Second

// @title AI Meeting Notes API
// @version 1.0.0
// @description Summarize meeting transcripts, share summaries as links and email them.
// @BasePath /api
func main() {
	// a missing .env is fine
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(logger.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	if err := run(cfg); err != nil {
		logger.Error("server stopped", "module", "main", "action", "start", "resource", "server", "result", "failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clientFactory := network.NewClientFactory(cfg.AI.ProxyURL)
	provider, err := ai.NewProvider(ai.Config{
		Provider:   cfg.AI.Provider,
		APIKey:     cfg.AI.APIKey,
		BaseURL:    cfg.AI.BaseURL,
		Model:      cfg.AI.Model,
		Title:      cfg.AI.Title,
		Referer:    cfg.AI.Referer,
		HTTPClient: clientFactory.NewHTTPClient(),
	})
	if err != nil {
		logger.Warn("ai provider disabled", "module", "main", "action", "create", "resource", "ai", "result", "failed", "provider", cfg.AI.Provider, "error", err)
		provider = nil
	} else {
		logger.Info("ai provider ready", "module", "main", "action", "create", "resource", "ai", "result", "ok", "provider", provider.Name(), "model", cfg.AI.Model, "proxy", clientFactory.ProxyURL() != "")
	}

	sender := mail.NewSMTPSender(mail.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.User,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	if !sender.Configured() {
		logger.Warn("smtp not configured", "module", "main", "action", "create", "resource", "mail", "result", "failed")
	}

	m := metrics.New(nil)
	shareRepo := repository.NewMemoryShareRepository()
	m.RegisterShareGauge(func() float64 {
		n, err := shareRepo.Count(context.Background())
		if err != nil {
			return 0
		}
		return float64(n)
	})

	summarizeService := service.NewSummarizeService(provider, m)
	shareService := service.NewShareService(shareRepo, cfg.PublicBaseURL, m)
	mailService := service.NewMailService(sender, m)

	router := transport.NewRouter(
		handler.NewHealthHandler(),
		handler.NewSummarizeHandler(summarizeService),
		handler.NewShareHandler(shareService),
		handler.NewMailHandler(mailService),
		m,
		transport.Options{
			CORSOrigins: cfg.CORSOrigins,
			BodyLimit:   cfg.BodyLimit,
			StaticDir:   cfg.StaticDir,
		},
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", "module", "main", "action", "start", "resource", "server", "result", "ok", "addr", cfg.Addr, "public_url", cfg.PublicBaseURL)
		if err := router.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", "module", "main", "action", "stop", "resource", "server", "result", "ok")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return router.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
