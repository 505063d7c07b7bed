package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Rohit-1301/Health/internal/database"
	"github.com/Rohit-1301/Health/internal/model"
	"github.com/Rohit-1301/Health/internal/store"
)

func setEnv(t *testing.T, dbPath string) {
	t.Helper()
	t.Setenv("HEALTH_CONFIG_PATH", "")
	t.Setenv("HEALTH_DB_PATH", dbPath)
	t.Setenv("HEALTH_TIMEZONE", "UTC")
	t.Setenv("HEALTH_LOG_LEVEL", "error")
	t.Setenv("HEALTH_POSTMARK_TOKEN", "")
	t.Setenv("HEALTH_VAPID_PUBLIC_KEY", "")
	t.Setenv("HEALTH_VAPID_PRIVATE_KEY", "")
}

func TestRunUnopenableDatabase(t *testing.T) {
	setEnv(t, filepath.Join(t.TempDir(), "no", "such", "dir", "health.db"))

	if code := run(); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func TestRunInvalidConfig(t *testing.T) {
	setEnv(t, filepath.Join(t.TempDir(), "health.db"))
	t.Setenv("HEALTH_REMINDER_RUN_AT", "25:99")

	if code := run(); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func TestRunMarksTomorrowsReminders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "health.db")
	setEnv(t, path)

	db, err := database.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	ctx := context.Background()
	u, err := store.NewUserStore(db).Create(ctx, "pat@example.com", "Pat", "")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	tomorrow := model.FormatDate(time.Now().UTC().AddDate(0, 0, 1))
	a, err := store.NewAppointmentStore(db).Create(ctx, u.ID, store.AppointmentParams{
		DoctorName: "Dr. Rao", Specialty: "Cardiology", Location: "Clinic",
		Date: tomorrow, Time: "10:00", SetReminder: true,
	})
	if err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	db.Close()

	if code := run(); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}

	db, err = database.Open(path)
	if err != nil {
		t.Fatalf("reopen db: %v", err)
	}
	defer db.Close()
	got, err := store.NewAppointmentStore(db).GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("get appointment: %v", err)
	}
	if got.LastReminderSentDate == nil || *got.LastReminderSentDate != tomorrow {
		t.Errorf("last reminder sent = %v, want %s", got.LastReminderSentDate, tomorrow)
	}
}
