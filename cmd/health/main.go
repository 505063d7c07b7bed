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

	"github.com/Rohit-1301/Health/internal/config"
	"github.com/Rohit-1301/Health/internal/database"
	"github.com/Rohit-1301/Health/internal/email"
	"github.com/Rohit-1301/Health/internal/logging"
	"github.com/Rohit-1301/Health/internal/push"
	"github.com/Rohit-1301/Health/internal/reminder"
	"github.com/Rohit-1301/Health/internal/server"
	"github.com/Rohit-1301/Health/internal/store"
)

const rateLimitIdle = 3 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.Database.Path, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	pushStore := store.NewPushStore(db)
	var pushSvc *push.Service
	var pushNotifier *push.Notifier
	if cfg.Push.Enabled() {
		pushSvc = push.NewService(cfg.Push.VAPIDPublicKey, cfg.Push.VAPIDPrivateKey, cfg.Push.Subscriber)
		pushNotifier = push.NewNotifier(pushSvc, pushStore, logger.With("component", "push"))
	}

	srv := server.New(db, cfg, pushSvc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				srv.RateLimiter().Cleanup(rateLimitIdle)
			}
		}
	}()

	if cfg.Reminder.ScheduleEnabled {
		hour, minute, _ := cfg.Reminder.Clock()
		loc, _ := cfg.Reminder.Location()

		emailClient := email.NewClient(cfg.Email.PostmarkToken, cfg.Email.FromEmail, cfg.Server.URL())
		reminderLogger := logger.With("component", "reminder")
		scanner := reminder.NewScanner(
			store.NewAppointmentStore(db),
			store.NewUserStore(db),
			reminder.Channels(emailClient, pushNotifier, reminderLogger),
			reminderLogger,
			reminder.WithLocation(loc),
		)
		sched := reminder.NewScheduler(scanner, hour, minute, loc, reminderLogger.With("job", "scheduler"))
		sched.Start(ctx)
		defer sched.Stop()
		logger.Info("reminder schedule enabled", "run_at", cfg.Reminder.RunAt, "timezone", loc.String())
	}

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      srv.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("health tracker running", "url", cfg.Server.URL())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
