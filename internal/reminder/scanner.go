// Package reminder finds appointments happening tomorrow and notifies their
// owners once per appointment date.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Rohit-1301/Health/internal/model"
)

// AppointmentSource lists reminder candidates and records dispatches.
type AppointmentSource interface {
	ListDueForReminder(ctx context.Context, date string) ([]model.Appointment, error)
	MarkReminderSent(ctx context.Context, id int64, date string) error
}

type UserGetter interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// Result summarises one scan.
type Result struct {
	RunID      string `json:"runId"`
	TargetDate string `json:"targetDate"`
	Found      int    `json:"found"`
	Sent       int    `json:"sent"`
	Skipped    int    `json:"skipped"`
	Failed     int    `json:"failed"`
}

type Scanner struct {
	appts    AppointmentSource
	users    UserGetter
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
	loc      *time.Location
}

type ScannerOption func(*Scanner)

func WithClock(now func() time.Time) ScannerOption {
	return func(s *Scanner) { s.now = now }
}

// WithLocation sets the zone whose calendar decides "tomorrow".
func WithLocation(loc *time.Location) ScannerOption {
	return func(s *Scanner) { s.loc = loc }
}

func NewScanner(appts AppointmentSource, users UserGetter, notifier Notifier, logger *slog.Logger, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		appts:    appts,
		users:    users,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		loc:      time.Local,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// TargetDate returns the YYYY-MM-DD date one day after now in loc.
func TargetDate(now time.Time, loc *time.Location) string {
	return model.FormatDate(now.In(loc).AddDate(0, 0, 1))
}

// Run scans once. Only a failed candidate query is returned as an error;
// problems with individual appointments are logged and counted.
func (s *Scanner) Run(ctx context.Context) (Result, error) {
	res := Result{
		RunID:      uuid.NewString(),
		TargetDate: TargetDate(s.now(), s.loc),
	}
	logger := s.logger.With("run_id", res.RunID, "target_date", res.TargetDate)
	logger.Info("reminder scan started")

	appts, err := s.appts.ListDueForReminder(ctx, res.TargetDate)
	if err != nil {
		logger.Error("reminder query failed", "error", err)
		return res, fmt.Errorf("list appointments due %s: %w", res.TargetDate, err)
	}
	res.Found = len(appts)
	logger.Info("appointments found", "count", res.Found)

	for _, a := range appts {
		s.process(ctx, logger, a, &res)
	}

	logger.Info("reminder scan completed",
		"found", res.Found, "sent", res.Sent, "skipped", res.Skipped, "failed", res.Failed)
	return res, nil
}

func (s *Scanner) process(ctx context.Context, logger *slog.Logger, a model.Appointment, res *Result) {
	logger = logger.With("appointment_id", a.ID, "user_id", a.UserID)

	if a.ReminderSentFor(res.TargetDate) {
		logger.Info("reminder already sent, skipping")
		res.Skipped++
		return
	}

	user, err := s.users.GetByID(ctx, a.UserID)
	if err != nil {
		logger.Error("user lookup failed", "error", err)
		res.Failed++
		return
	}
	if user == nil {
		logger.Warn("appointment owner not found, skipping")
		res.Skipped++
		return
	}

	logger.Info("sending reminder",
		"doctor", a.DoctorName, "specialty", a.Specialty, "date", a.Date, "time", a.Time, "location", a.Location)

	if err := s.notifier.Notify(ctx, NewMessage(*user, a)); err != nil {
		logger.Error("reminder dispatch failed", "error", err)
		res.Failed++
		return
	}
	res.Sent++

	if err := s.appts.MarkReminderSent(ctx, a.ID, res.TargetDate); err != nil {
		logger.Error("record reminder sent", "error", err)
	}
}
