package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	ws "github.com/coder/websocket"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockClient creates a Client with a send channel but no real connection.
func mockClient(hub *Hub, userID int64) *Client {
	return &Client{
		hub:    hub,
		conn:   nil,
		userID: userID,
		send:   make(chan []byte, sendBufferSize),
	}
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case data := <-c.send:
		var got Message
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return got
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for message")
	}
	return Message{}
}

func TestRegisterUnregister(t *testing.T) {
	hub := NewHub(testLogger())

	c1 := mockClient(hub, 1)
	c2 := mockClient(hub, 2)

	hub.Register(c1)
	hub.Register(c2)

	if got := hub.ClientCount(); got != 2 {
		t.Fatalf("expected 2 clients, got %d", got)
	}

	hub.Unregister(c1)
	if got := hub.ClientCount(); got != 1 {
		t.Fatalf("expected 1 client after unregister, got %d", got)
	}

	hub.Unregister(c2)
	if got := hub.ClientCount(); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
}

func TestDoubleUnregister(t *testing.T) {
	hub := NewHub(testLogger())
	c := mockClient(hub, 1)
	hub.Register(c)
	hub.Unregister(c)
	// Should not panic
	hub.Unregister(c)

	if got := hub.ClientCount(); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
}

func TestSendToUser(t *testing.T) {
	hub := NewHub(testLogger())

	phone := mockClient(hub, 1)
	laptop := mockClient(hub, 1)
	other := mockClient(hub, 2)
	hub.Register(phone)
	hub.Register(laptop)
	hub.Register(other)

	hub.SendToUser(1, NewMessage("medication", "taken", 42, map[string]any{"date": "2026-10-16"}))

	for _, c := range []*Client{phone, laptop} {
		got := receive(t, c)
		if got.Type != "medication_taken" {
			t.Errorf("expected type medication_taken, got %s", got.Type)
		}
		if got.ID != 42 {
			t.Errorf("expected id 42, got %d", got.ID)
		}
	}

	select {
	case <-other.send:
		t.Error("message leaked to another user")
	default:
	}
}

func TestBroadcast(t *testing.T) {
	hub := NewHub(testLogger())

	c1 := mockClient(hub, 1)
	c2 := mockClient(hub, 2)
	hub.Register(c1)
	hub.Register(c2)

	hub.Broadcast(NewMessage("system", "maintenance", 0, nil))

	for _, c := range []*Client{c1, c2} {
		if got := receive(t, c); got.Type != "system_maintenance" {
			t.Errorf("expected type system_maintenance, got %s", got.Type)
		}
	}
}

func TestSendToUserWithoutClients(t *testing.T) {
	hub := NewHub(testLogger())
	// Should not panic
	hub.SendToUser(99, NewMessage("appointment", "created", 1, nil))
}

func TestSendFullBuffer(t *testing.T) {
	hub := NewHub(testLogger())

	c := mockClient(hub, 1)
	hub.Register(c)

	for i := 0; i < sendBufferSize+5; i++ {
		hub.SendToUser(1, NewMessage("test", "fill", int64(i), nil))
	}

	count := 0
	for {
		select {
		case <-c.send:
			count++
		default:
			goto done
		}
	}
done:
	if count != sendBufferSize {
		t.Errorf("expected %d messages, got %d", sendBufferSize, count)
	}
}

func TestNewMessage(t *testing.T) {
	msg := NewMessage("appointment", "cancelled", 5, nil)
	if msg.Type != "appointment_cancelled" {
		t.Errorf("expected type appointment_cancelled, got %s", msg.Type)
	}
	if msg.Entity != "appointment" || msg.Action != "cancelled" || msg.ID != 5 {
		t.Errorf("message = %+v", msg)
	}
}

func TestConcurrentAccess(t *testing.T) {
	hub := NewHub(testLogger())
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			c := mockClient(hub, userID)
			hub.Register(c)
			hub.SendToUser(userID, NewMessage("test", "concurrent", 0, nil))
			hub.Broadcast(NewMessage("test", "concurrent", 0, nil))
			for {
				select {
				case <-c.send:
				default:
					hub.Unregister(c)
					return
				}
			}
		}(int64(i % 3))
	}

	wg.Wait()

	if got := hub.ClientCount(); got != 0 {
		t.Errorf("expected 0 clients after concurrent test, got %d", got)
	}
}

func TestHandleWebSocketRequiresUser(t *testing.T) {
	hub := NewHub(testLogger())
	rec := httptest.NewRecorder()
	HandleWebSocket(hub, testLogger())(rec, httptest.NewRequest("GET", "/ws", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleWebSocketDelivers(t *testing.T) {
	hub := NewHub(testLogger())
	server := httptest.NewServer(HandleWebSocket(hub, testLogger()))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?user_id=7"
	conn, _, err := ws.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()

	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if hub.ClientCount() != 1 {
		t.Fatalf("clients = %d, want 1", hub.ClientCount())
	}

	hub.SendToUser(7, NewMessage("appointment", "created", 3, nil))

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got Message
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Type != "appointment_created" || got.ID != 3 {
		t.Errorf("message = %+v", got)
	}
}

func TestClientUnregistersWhenPeerCloses(t *testing.T) {
	hub := NewHub(testLogger())
	server := httptest.NewServer(HandleWebSocket(hub, testLogger()))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?user_id=4"
	conn, _, err := ws.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	waitFor := func(want int) {
		t.Helper()
		deadline := time.Now().Add(time.Second)
		for hub.ClientCount() != want && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		if got := hub.ClientCount(); got != want {
			t.Fatalf("clients = %d, want %d", got, want)
		}
	}

	waitFor(1)
	conn.Close(ws.StatusNormalClosure, "bye")
	waitFor(0)
}
