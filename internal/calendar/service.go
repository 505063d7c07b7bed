package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/Rohit-1301/Health/internal/model"
)

// UpcomingWindow is how many days ahead the upcoming-reminders view looks.
const UpcomingWindow = 7

type MedicationLister interface {
	ListActiveByUser(ctx context.Context, userID int64) ([]model.Medication, error)
}

type HistoryLister interface {
	ListByUser(ctx context.Context, userID int64) ([]model.MedicationHistory, error)
}

type AppointmentLister interface {
	ListByUser(ctx context.Context, userID int64) ([]model.Appointment, error)
	ListUpcomingWithReminders(ctx context.Context, userID int64, from, to string) ([]model.Appointment, error)
}

type cacheEntry struct {
	today  string
	events []model.CalendarEvent
}

// Service loads a user's schedule data and serves expanded calendars. Full
// expansions are cached per user until the TTL lapses, the day changes, or
// Invalidate is called after a write.
type Service struct {
	meds    MedicationLister
	history HistoryLister
	appts   AppointmentLister
	cache   *expirable.LRU[int64, cacheEntry]
	loc     *time.Location
	now     func() time.Time
	logger  *slog.Logger
}

type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the zone used to decide what "today" is.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

func NewService(meds MedicationLister, history HistoryLister, appts AppointmentLister, cacheSize int, ttl time.Duration, logger *slog.Logger, opts ...Option) *Service {
	if cacheSize <= 0 {
		cacheSize = 256
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	s := &Service{
		meds:    meds,
		history: history,
		appts:   appts,
		cache:   expirable.NewLRU[int64, cacheEntry](cacheSize, nil, ttl),
		loc:     time.Local,
		now:     time.Now,
		logger:  logger.With("component", "calendar"),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Today returns the current time in the service's zone.
func (s *Service) Today() time.Time {
	return s.now().In(s.loc)
}

// Events returns the user's medication occurrences and calendar-flagged
// appointments dated within [start, end], sorted ascending.
func (s *Service) Events(ctx context.Context, userID int64, start, end string) ([]model.CalendarEvent, error) {
	all, err := s.allEvents(ctx, userID)
	if err != nil {
		return nil, err
	}
	events := InRange(all, start, end)
	SortAscending(events)
	return events, nil
}

func (s *Service) allEvents(ctx context.Context, userID int64) ([]model.CalendarEvent, error) {
	today := s.Today()
	key := model.FormatDate(today)
	if e, ok := s.cache.Get(userID); ok && e.today == key {
		return slices.Clone(e.events), nil
	}

	meds, err := s.meds.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load medications: %w", err)
	}
	history, err := s.history.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load medication history: %w", err)
	}
	appts, err := s.appts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}

	events := Expand(meds, history, today, s.logger.With("user_id", userID))
	events = append(events, AppointmentEvents(appts)...)

	s.cache.Add(userID, cacheEntry{today: key, events: events})
	return slices.Clone(events), nil
}

// Invalidate drops the cached expansion for userID.
func (s *Service) Invalidate(userID int64) {
	s.cache.Remove(userID)
}

// Upcoming returns reminder-enabled appointments in the next UpcomingWindow
// days, soonest first.
func (s *Service) Upcoming(ctx context.Context, userID int64) ([]model.Appointment, error) {
	today := s.Today()
	from := model.FormatDate(today)
	to := model.FormatDate(today.AddDate(0, 0, UpcomingWindow))
	appts, err := s.appts.ListUpcomingWithReminders(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("load upcoming appointments: %w", err)
	}
	return appts, nil
}

// Adherence reports the user's dose adherence over the last days days.
func (s *Service) Adherence(ctx context.Context, userID int64, days int) (AdherenceReport, error) {
	meds, err := s.meds.ListActiveByUser(ctx, userID)
	if err != nil {
		return AdherenceReport{}, fmt.Errorf("load medications: %w", err)
	}
	history, err := s.history.ListByUser(ctx, userID)
	if err != nil {
		return AdherenceReport{}, fmt.Errorf("load medication history: %w", err)
	}
	return Adherence(meds, history, s.Today(), days, s.logger.With("user_id", userID)), nil
}
