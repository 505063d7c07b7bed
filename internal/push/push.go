// Package push delivers Web Push notifications signed with the server's
// VAPID key pair.
package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/Rohit-1301/Health/internal/model"
)

// ErrExpired means the push service no longer knows the subscription
// (404 or 410) and it should be discarded.
var ErrExpired = errors.New("push subscription expired")

// Reminders are stale once the appointment day has passed.
const defaultTTL = 24 * time.Hour

// Payload is the JSON body the service worker receives.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
	Tag   string `json:"tag,omitempty"`
}

type Service struct {
	base webpush.Options
}

type Option func(*webpush.Options)

// WithHTTPClient routes push requests through c.
func WithHTTPClient(c webpush.HTTPClient) Option {
	return func(o *webpush.Options) { o.HTTPClient = c }
}

// WithTTL sets how long the push service may hold an undelivered message.
func WithTTL(d time.Duration) Option {
	return func(o *webpush.Options) { o.TTL = int(d / time.Second) }
}

// NewService signs with the given VAPID keys. subscriber is the operator
// contact (mailto: or https:) push services may use.
func NewService(publicKey, privateKey, subscriber string, opts ...Option) *Service {
	s := &Service{base: webpush.Options{
		VAPIDPublicKey:  publicKey,
		VAPIDPrivateKey: privateKey,
		Subscriber:      subscriber,
		TTL:             int(defaultTTL / time.Second),
		Urgency:         webpush.UrgencyNormal,
	}}
	for _, o := range opts {
		o(&s.base)
	}
	return s
}

// VAPIDPublicKey is handed to browsers as the applicationServerKey.
func (s *Service) VAPIDPublicKey() string {
	return s.base.VAPIDPublicKey
}

// Send encrypts payload for sub and posts it to the subscription endpoint.
func (s *Service) Send(ctx context.Context, sub *model.PushSubscription, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	opts := s.base
	target := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys:     webpush.Keys{P256dh: sub.P256dhKey, Auth: sub.AuthKey},
	}
	resp, err := webpush.SendNotificationWithContext(ctx, body, target, &opts)
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusGone:
		return ErrExpired
	case resp.StatusCode >= 400:
		return fmt.Errorf("push service returned %d", resp.StatusCode)
	}
	return nil
}
