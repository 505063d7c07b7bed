package store

import (
	"context"
	"testing"
)

func TestCreateSubscription(t *testing.T) {
	db := setupTestDB(t)
	ps := NewPushStore(db)
	uid := createTestUser(t, db, "a@example.com")

	sub, err := ps.CreateSubscription(context.Background(), uid, "https://push.example.com/sub1", "p256dh_key1", "auth_key1", "Chrome Desktop")
	if err != nil {
		t.Fatalf("create subscription: %v", err)
	}
	if sub.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if sub.DeviceName != "Chrome Desktop" {
		t.Errorf("device_name = %q, want %q", sub.DeviceName, "Chrome Desktop")
	}
}

func TestCreateSubscriptionUpsert(t *testing.T) {
	db := setupTestDB(t)
	ps := NewPushStore(db)
	ctx := context.Background()
	uid := createTestUser(t, db, "a@example.com")

	first, _ := ps.CreateSubscription(ctx, uid, "https://push.example.com/sub1", "k1", "a1", "Phone")
	second, err := ps.CreateSubscription(ctx, uid, "https://push.example.com/sub1", "k2", "a2", "Phone")
	if err != nil {
		t.Fatalf("upsert subscription: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("id = %d, want %d", second.ID, first.ID)
	}
	if second.P256dhKey != "k2" {
		t.Errorf("p256dh = %q, want k2", second.P256dhKey)
	}

	subs, _ := ps.ListByUser(ctx, uid)
	if len(subs) != 1 {
		t.Errorf("subscriptions = %d, want 1", len(subs))
	}
}

func TestDeleteSubscriptionScopedToUser(t *testing.T) {
	db := setupTestDB(t)
	ps := NewPushStore(db)
	ctx := context.Background()
	uid := createTestUser(t, db, "a@example.com")
	other := createTestUser(t, db, "b@example.com")

	sub, _ := ps.CreateSubscription(ctx, uid, "https://push.example.com/sub1", "k", "a", "")

	if err := ps.DeleteSubscription(ctx, other, sub.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got, _ := ps.GetByID(ctx, uid, sub.ID); got == nil {
		t.Fatal("another user deleted the subscription")
	}

	if err := ps.DeleteByEndpoint(ctx, "https://push.example.com/sub1"); err != nil {
		t.Fatalf("delete by endpoint: %v", err)
	}
	if got, _ := ps.GetByID(ctx, uid, sub.ID); got != nil {
		t.Error("expected nil after delete by endpoint")
	}
}
