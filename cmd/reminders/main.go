// Command reminders runs one reminder scan for appointments happening
// tomorrow and exits. It is meant to be started by cron.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Rohit-1301/Health/internal/config"
	"github.com/Rohit-1301/Health/internal/database"
	"github.com/Rohit-1301/Health/internal/email"
	"github.com/Rohit-1301/Health/internal/logging"
	"github.com/Rohit-1301/Health/internal/push"
	"github.com/Rohit-1301/Health/internal/reminder"
	"github.com/Rohit-1301/Health/internal/store"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format).With("component", "reminder")

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var pushNotifier *push.Notifier
	if cfg.Push.Enabled() {
		svc := push.NewService(cfg.Push.VAPIDPublicKey, cfg.Push.VAPIDPrivateKey, cfg.Push.Subscriber)
		pushNotifier = push.NewNotifier(svc, store.NewPushStore(db), logger.With("channel", "push"))
	}
	emailClient := email.NewClient(cfg.Email.PostmarkToken, cfg.Email.FromEmail, cfg.Server.URL())

	loc, _ := cfg.Reminder.Location()
	scanner := reminder.NewScanner(
		store.NewAppointmentStore(db),
		store.NewUserStore(db),
		reminder.Channels(emailClient, pushNotifier, logger),
		logger,
		reminder.WithLocation(loc),
	)

	if _, err := scanner.Run(ctx); err != nil {
		logger.Error("reminder scan failed", "error", err)
		return 1
	}
	return 0
}
