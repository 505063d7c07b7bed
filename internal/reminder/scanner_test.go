package reminder

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Rohit-1301/Health/internal/database"
	"github.com/Rohit-1301/Health/internal/model"
	"github.com/Rohit-1301/Health/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recorder captures every message it is asked to deliver.
type recorder struct {
	msgs []Message
	fail map[int64]bool
}

func (r *recorder) Notify(_ context.Context, msg Message) error {
	if r.fail[msg.Appointment.ID] {
		return errors.New("smtp unavailable")
	}
	r.msgs = append(r.msgs, msg)
	return nil
}

type fakeAppointments struct {
	appts   []model.Appointment
	err     error
	marked  map[int64]string
	markErr error
	queried string
}

func (f *fakeAppointments) ListDueForReminder(_ context.Context, date string) ([]model.Appointment, error) {
	f.queried = date
	return f.appts, f.err
}

func (f *fakeAppointments) MarkReminderSent(_ context.Context, id int64, date string) error {
	if f.markErr != nil {
		return f.markErr
	}
	if f.marked == nil {
		f.marked = make(map[int64]string)
	}
	f.marked[id] = date
	return nil
}

type fakeUsers struct {
	users map[int64]*model.User
	err   map[int64]error
}

func (f fakeUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	if err := f.err[id]; err != nil {
		return nil, err
	}
	return f.users[id], nil
}

var scanNow = time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)

func newTestScanner(appts AppointmentSource, users UserGetter, n Notifier) *Scanner {
	return NewScanner(appts, users, n, discardLogger(),
		WithClock(func() time.Time { return scanNow }), WithLocation(time.UTC))
}

func TestTargetDate(t *testing.T) {
	tests := []struct {
		now  time.Time
		loc  *time.Location
		want string
	}{
		{time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC), time.UTC, "2026-10-17"},
		{time.Date(2026, 12, 31, 23, 59, 0, 0, time.UTC), time.UTC, "2027-01-01"},
		{time.Date(2028, 2, 28, 12, 0, 0, 0, time.UTC), time.UTC, "2028-02-29"},
		// 22:00 UTC is already the next day in UTC+5.
		{time.Date(2026, 10, 16, 22, 0, 0, 0, time.UTC), time.FixedZone("UTC+5", 5*3600), "2026-10-18"},
	}
	for _, tt := range tests {
		if got := TargetDate(tt.now, tt.loc); got != tt.want {
			t.Errorf("TargetDate(%v) = %s, want %s", tt.now, got, tt.want)
		}
	}
}

func TestScanSelectsTomorrowOnly(t *testing.T) {
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	ctx := context.Background()

	users := store.NewUserStore(db)
	appts := store.NewAppointmentStore(db)
	u, err := users.Create(ctx, "pat@example.com", "Pat", "")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	base := store.AppointmentParams{DoctorName: "Dr. Rao", Specialty: "Cardiology", Location: "Clinic", Time: "10:00"}
	mk := func(date string, status model.AppointmentStatus, reminder bool) int64 {
		p := base
		p.Date, p.Status, p.SetReminder = date, status, reminder
		a, err := appts.Create(ctx, u.ID, p)
		if err != nil {
			t.Fatalf("create appointment: %v", err)
		}
		return a.ID
	}
	want := mk("2026-10-17", model.AppointmentConfirmed, true)
	mk("2026-10-18", model.AppointmentConfirmed, true)
	mk("2026-10-17", model.AppointmentCancelled, true)
	mk("2026-10-17", model.AppointmentConfirmed, false)

	rec := &recorder{}
	res, err := newTestScanner(appts, users, rec).Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Found != 1 || res.Sent != 1 {
		t.Fatalf("result = %+v, want 1 found, 1 sent", res)
	}
	if rec.msgs[0].Appointment.ID != want {
		t.Errorf("notified appointment %d, want %d", rec.msgs[0].Appointment.ID, want)
	}

	// A second run on the same day is deduplicated by the stored marker.
	res, err = newTestScanner(appts, users, rec).Run(ctx)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if res.Sent != 0 || res.Skipped != 1 {
		t.Errorf("second result = %+v, want 0 sent, 1 skipped", res)
	}
	if len(rec.msgs) != 1 {
		t.Errorf("messages = %d, want 1", len(rec.msgs))
	}
}

func TestScanContinuesPastMissingUser(t *testing.T) {
	appts := &fakeAppointments{appts: []model.Appointment{
		{ID: 1, UserID: 404, Date: "2026-10-17", SetReminder: true},
		{ID: 2, UserID: 7, Date: "2026-10-17", SetReminder: true},
	}}
	users := fakeUsers{users: map[int64]*model.User{7: {ID: 7, Email: "s@example.com"}}}
	rec := &recorder{}

	res, err := newTestScanner(appts, users, rec).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(rec.msgs) != 1 || rec.msgs[0].Appointment.ID != 2 {
		t.Fatalf("messages = %+v, want only appointment 2", rec.msgs)
	}
	if res.Found != 2 || res.Sent != 1 || res.Skipped != 1 || res.Failed != 0 {
		t.Errorf("result = %+v", res)
	}
	if _, ok := appts.marked[1]; ok {
		t.Error("skipped appointment was marked as reminded")
	}
	if appts.marked[2] != "2026-10-17" {
		t.Errorf("marker = %q, want 2026-10-17", appts.marked[2])
	}
}

func TestScanContinuesPastFailures(t *testing.T) {
	appts := &fakeAppointments{appts: []model.Appointment{
		{ID: 1, UserID: 1},
		{ID: 2, UserID: 2},
		{ID: 3, UserID: 3},
	}}
	users := fakeUsers{
		users: map[int64]*model.User{2: {ID: 2}, 3: {ID: 3}},
		err:   map[int64]error{1: errors.New("connection reset")},
	}
	rec := &recorder{fail: map[int64]bool{2: true}}

	res, err := newTestScanner(appts, users, rec).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Sent != 1 || res.Failed != 2 {
		t.Errorf("result = %+v, want 1 sent, 2 failed", res)
	}
	if _, ok := appts.marked[2]; ok {
		t.Error("failed dispatch was marked as reminded")
	}
}

func TestScanQueryErrorIsFatal(t *testing.T) {
	appts := &fakeAppointments{err: errors.New("database is locked")}

	_, err := newTestScanner(appts, fakeUsers{}, &recorder{}).Run(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestScanMarkerFailureIsNotFatal(t *testing.T) {
	appts := &fakeAppointments{
		appts:   []model.Appointment{{ID: 1, UserID: 1}},
		markErr: errors.New("read-only database"),
	}
	users := fakeUsers{users: map[int64]*model.User{1: {ID: 1}}}

	res, err := newTestScanner(appts, users, &recorder{}).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Sent != 1 {
		t.Errorf("sent = %d, want 1", res.Sent)
	}
}

func TestScanSkipsAlreadyReminded(t *testing.T) {
	sent := "2026-10-17"
	stale := "2026-10-10"
	appts := &fakeAppointments{appts: []model.Appointment{
		{ID: 1, UserID: 1, LastReminderSentDate: &sent},
		{ID: 2, UserID: 1, LastReminderSentDate: &stale},
	}}
	users := fakeUsers{users: map[int64]*model.User{1: {ID: 1}}}
	rec := &recorder{}

	res, err := newTestScanner(appts, users, rec).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Skipped != 1 || res.Sent != 1 {
		t.Errorf("result = %+v", res)
	}
	if appts.queried != "2026-10-17" {
		t.Errorf("queried %q, want 2026-10-17", appts.queried)
	}
}

func TestScanRunIDsDiffer(t *testing.T) {
	s := newTestScanner(&fakeAppointments{}, fakeUsers{}, &recorder{})
	a, _ := s.Run(context.Background())
	b, _ := s.Run(context.Background())
	if a.RunID == "" || a.RunID == b.RunID {
		t.Errorf("run ids = %q, %q", a.RunID, b.RunID)
	}
}
