package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Rohit-1301/Health/internal/model"
)

// Message is one reminder for one appointment owner.
type Message struct {
	User        model.User
	Appointment model.Appointment
	Subject     string
	Body        string
}

// NewMessage renders the reminder text for a.
func NewMessage(u model.User, a model.Appointment) Message {
	body := strings.Join([]string{
		fmt.Sprintf("Reminder: you have an appointment tomorrow with %s (%s).", a.DoctorName, a.Specialty),
		"Date: " + a.Date,
		"Time: " + a.Time,
		"Location: " + a.Location,
		"Reason: " + a.ReasonOrDefault(),
	}, "\n")
	return Message{
		User:        u,
		Appointment: a,
		Subject:     fmt.Sprintf("Appointment reminder: %s on %s at %s", a.DoctorName, a.Date, a.Time),
		Body:        body,
	}
}

type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, msg Message) error

func (f NotifierFunc) Notify(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

// LogNotifier writes reminders to the log instead of delivering them.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, msg Message) error {
	n.logger.Info("appointment reminder",
		"user_id", msg.User.ID,
		"email", msg.User.Email,
		"appointment_id", msg.Appointment.ID,
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}

// EmailSender is implemented by email.Client.
type EmailSender interface {
	SendAppointmentReminder(ctx context.Context, toEmail, name string, a model.Appointment) error
}

// EmailNotifier delivers reminders by email.
type EmailNotifier struct {
	sender EmailSender
}

func NewEmailNotifier(sender EmailSender) *EmailNotifier {
	return &EmailNotifier{sender: sender}
}

func (n *EmailNotifier) Notify(ctx context.Context, msg Message) error {
	if err := n.sender.SendAppointmentReminder(ctx, msg.User.Email, msg.User.Name, msg.Appointment); err != nil {
		return fmt.Errorf("email reminder: %w", err)
	}
	return nil
}

// PushSender is implemented by push.Notifier.
type PushSender interface {
	SendAppointmentReminder(ctx context.Context, userID int64, a model.Appointment) error
}

// PushNotifier delivers reminders as web push notifications.
type PushNotifier struct {
	sender PushSender
}

func NewPushNotifier(sender PushSender) *PushNotifier {
	return &PushNotifier{sender: sender}
}

func (n *PushNotifier) Notify(ctx context.Context, msg Message) error {
	if err := n.sender.SendAppointmentReminder(ctx, msg.User.ID, msg.Appointment); err != nil {
		return fmt.Errorf("push reminder: %w", err)
	}
	return nil
}

// MultiNotifier tries every channel and succeeds if at least one delivered.
// Failures on individual channels are logged.
type MultiNotifier struct {
	notifiers []Notifier
	logger    *slog.Logger
}

func NewMultiNotifier(logger *slog.Logger, notifiers ...Notifier) *MultiNotifier {
	return &MultiNotifier{notifiers: notifiers, logger: logger}
}

func (m *MultiNotifier) Notify(ctx context.Context, msg Message) error {
	if len(m.notifiers) == 0 {
		return errors.New("no notification channels configured")
	}

	var errs []error
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, msg); err != nil {
			m.logger.Warn("notification channel failed",
				"appointment_id", msg.Appointment.ID, "channel", fmt.Sprintf("%T", n), "error", err)
			errs = append(errs, err)
		}
	}
	if len(errs) == len(m.notifiers) {
		return errors.Join(errs...)
	}
	return nil
}
