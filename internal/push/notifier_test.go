package push

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Rohit-1301/Health/internal/model"
)

type fakeSubStore struct {
	subs    []model.PushSubscription
	deleted []string
}

func (f *fakeSubStore) ListByUser(_ context.Context, userID int64) ([]model.PushSubscription, error) {
	var out []model.PushSubscription
	for _, s := range f.subs {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubStore) DeleteByEndpoint(_ context.Context, endpoint string) error {
	f.deleted = append(f.deleted, endpoint)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// pushServer answers 410 for endpoints containing "gone" and 201 otherwise.
func pushServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "gone") {
			w.WriteHeader(http.StatusGone)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestSendToUserPrunesExpired(t *testing.T) {
	server := pushServer(t)
	store := &fakeSubStore{subs: []model.PushSubscription{
		testSubscription(t, 1, server.URL+"/ok"),
		testSubscription(t, 2, server.URL+"/gone"),
	}}
	n := NewNotifier(testService(t), store, discardLogger())

	delivered, err := n.SendToUser(context.Background(), 1, Payload{Title: "hi"})
	if err != nil {
		t.Fatalf("send to user: %v", err)
	}
	if delivered != 1 {
		t.Errorf("delivered = %d, want 1", delivered)
	}
	if len(store.deleted) != 1 || store.deleted[0] != server.URL+"/gone" {
		t.Errorf("deleted = %v", store.deleted)
	}
}

func TestSendToUserAllFail(t *testing.T) {
	server := pushServer(t)
	store := &fakeSubStore{subs: []model.PushSubscription{testSubscription(t, 1, server.URL+"/gone")}}
	n := NewNotifier(testService(t), store, discardLogger())

	if _, err := n.SendToUser(context.Background(), 1, Payload{Title: "hi"}); err == nil {
		t.Fatal("expected error when no subscription accepted the payload")
	}
}

func TestSendToUserNoSubscriptions(t *testing.T) {
	n := NewNotifier(testService(t), &fakeSubStore{}, discardLogger())

	if _, err := n.SendToUser(context.Background(), 1, Payload{Title: "hi"}); err == nil {
		t.Fatal("expected error for user without subscriptions")
	}
}

func TestSendAppointmentReminder(t *testing.T) {
	server := pushServer(t)
	store := &fakeSubStore{subs: []model.PushSubscription{testSubscription(t, 1, server.URL+"/ok")}}
	n := NewNotifier(testService(t), store, discardLogger())

	err := n.SendAppointmentReminder(context.Background(), 1, model.Appointment{
		ID: 7, UserID: 1, DoctorName: "Dr. Kim", Specialty: "ENT", Time: "09:15", Location: "Clinic",
	})
	if err != nil {
		t.Fatalf("send appointment reminder: %v", err)
	}
}
