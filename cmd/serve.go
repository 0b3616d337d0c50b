package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voxcredit/internal/config"
	"voxcredit/internal/gateway"
	"voxcredit/internal/handlers"
	"voxcredit/internal/logger"
	"voxcredit/internal/mail"
	"voxcredit/internal/repository"
	"voxcredit/internal/repository/db"
	"voxcredit/internal/server"
	"voxcredit/internal/service"
	"voxcredit/internal/tts"

	"github.com/spf13/cobra"
)

const (
	janitorTick     = 5 * time.Minute
	shutdownTimeout = 10 * time.Second
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// init logger
	log := logger.Get(cfg.Log.Level)
	defer func() { _ = log.Sync() }()

	conn, err := openDB(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	if err := tts.EnsureDir(cfg.Audio.Dir); err != nil {
		return err
	}

	// wire dependencies
	repos := repository.NewRepository(conn)
	services := service.NewService(repos, service.Deps{
		Gateway:     gateway.NewRazorpay(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret),
		Synthesizer: tts.NewGoogleTranslate(),
		Mailer:      newMailer(cfg, log),
		Log:         log,
	}, service.Options{
		SigningKey:    cfg.Auth.SigningKey,
		TokenTTL:      cfg.Auth.TokenTTL,
		ResetTTL:      cfg.Auth.ResetTTL,
		SignupBonus:   cfg.Credits.SignupBonus,
		WebhookSecret: cfg.Razorpay.WebhookSecret,
		AudioDir:      cfg.Audio.Dir,
		AudioCost:     cfg.Audio.Cost,
		MaxTextLength: cfg.Audio.MaxTextLength,
		HistoryLimit:  cfg.Audio.HistoryLimit,
	})
	apiHandler := handlers.NewHandler(services, log,
		handlers.WithAudioDir(cfg.Audio.Dir),
		handlers.WithBaseURL(cfg.App.BaseURL),
	)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// sweep audio files that never made it into history
	go services.Janitor.Run(ctx, janitorTick)

	srv := &server.Server{}
	errCh := runHTTPServer(srv, cfg.Port, apiHandler, log)

	return waitForShutdown(cancel, srv, errCh, log)
}

// openDB initializes the SQLite database using configuration.
func openDB(cfg *config.Config, log *logger.Logger) (*sql.DB, error) {
	log.Infow("opening database", "path", cfg.DB.Path)
	return db.InitDB(cfg.DB.Path)
}

func newMailer(cfg *config.Config, log *logger.Logger) mail.Mailer {
	if cfg.Mail.SendGridAPIKey == "" {
		log.Warnw("mail.sendgrid_api_key not set; reset emails are only logged")
		return mail.NewLogMailer(log)
	}
	return mail.NewSendGrid(cfg.Mail.SendGridAPIKey, cfg.Mail.FromName, cfg.Mail.FromAddress)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Infow("http server listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	return errCh
}

// waitForShutdown blocks until a termination signal or a server failure, then stops everything.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, errCh <-chan error, log *logger.Logger) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		log.Infow("shutting down server...")
	case err, ok := <-errCh:
		cancel()
		if ok && err != nil {
			log.Errorw("error starting server", "err", err)
			return err
		}
		return nil
	}

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
		return err
	}
	return nil
}
