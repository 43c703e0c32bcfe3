package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"budgeter/internal/api"
	"budgeter/internal/auth"
	"budgeter/internal/config"
	"budgeter/internal/events"
	"budgeter/internal/mail"
	"budgeter/internal/service"
	"budgeter/internal/storage/sqlite"
	"budgeter/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	logging.Setup()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)
	authenticator := auth.NewPasswordAuthenticator(store)

	var notifier service.Notifier
	if cfg.MailEnabled() {
		notifier = mail.New(mail.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
		slog.Info("Invitation mail enabled", "host", cfg.SMTPHost)
	}

	var publisher *events.Publisher
	if cfg.EventsEnabled() {
		publisher, err = events.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			slog.Error("Failed to connect to AMQP", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		slog.Info("Ledger event feed enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	server := api.NewServer(
		service.NewAuthService(authenticator, jwtManager, slog.Default()),
		service.NewHouseholdService(store, notifier, cfg.BaseURL),
		service.NewAccountService(store),
		service.NewCategoryService(store),
		service.NewTransactionService(store, publisher),
		jwtManager,
	)

	// h2c allows HTTP/2 clients without TLS termination in front.
	handler := h2c.NewHandler(server.Handler(), &http2.Server{})
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server starting", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
