package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/Rohit-1301/Health/internal/model"
)

// SubscriptionStore is the slice of the push store the notifier needs.
type SubscriptionStore interface {
	ListByUser(ctx context.Context, userID int64) ([]model.PushSubscription, error)
	DeleteByEndpoint(ctx context.Context, endpoint string) error
}

// Notifier delivers a payload to every device a user has subscribed.
type Notifier struct {
	service *Service
	subs    SubscriptionStore
	logger  *slog.Logger
}

func NewNotifier(service *Service, subs SubscriptionStore, logger *slog.Logger) *Notifier {
	return &Notifier{service: service, subs: subs, logger: logger}
}

// SendToUser pushes payload to each of the user's subscriptions and returns
// how many accepted it. Expired subscriptions are deleted. It fails when the
// user has subscriptions and none accepted the payload.
func (n *Notifier) SendToUser(ctx context.Context, userID int64, payload Payload) (int, error) {
	subs, err := n.subs.ListByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("list push subscriptions: %w", err)
	}
	if len(subs) == 0 {
		return 0, fmt.Errorf("user %d has no push subscriptions", userID)
	}

	delivered := 0
	var errs []error
	for _, sub := range subs {
		err := n.service.Send(ctx, &sub, payload)
		switch {
		case err == nil:
			delivered++
		case errors.Is(err, ErrExpired):
			n.logger.Info("pruning expired push subscription", "user_id", userID, "subscription_id", sub.ID)
			if err := n.subs.DeleteByEndpoint(ctx, sub.Endpoint); err != nil {
				n.logger.Error("delete expired subscription", "subscription_id", sub.ID, "error", err)
			}
			errs = append(errs, err)
		default:
			n.logger.Warn("push send failed", "user_id", userID, "subscription_id", sub.ID, "error", err)
			errs = append(errs, err)
		}
	}

	if delivered == 0 {
		return 0, fmt.Errorf("push to user %d: %w", userID, errors.Join(errs...))
	}
	return delivered, nil
}

// SendAppointmentReminder pushes the day-before reminder for a.
func (n *Notifier) SendAppointmentReminder(ctx context.Context, userID int64, a model.Appointment) error {
	_, err := n.SendToUser(ctx, userID, Payload{
		Title: "Appointment tomorrow",
		Body:  fmt.Sprintf("%s (%s) at %s, %s", a.DoctorName, a.Specialty, a.Time, a.Location),
		URL:   "/appointments",
		Tag:   "appointment-" + strconv.FormatInt(a.ID, 10),
	})
	return err
}
