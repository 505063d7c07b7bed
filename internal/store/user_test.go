package store

import (
	"context"
	"errors"
	"testing"

	"github.com/Rohit-1301/Health/internal/model"
)

func TestUserCreate(t *testing.T) {
	us := NewUserStore(setupTestDB(t))
	ctx := context.Background()

	u, err := us.Create(ctx, "alice@example.com", "Alice", "s3cret")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if u.Email != "alice@example.com" {
		t.Errorf("email = %q, want %q", u.Email, "alice@example.com")
	}
	if u.PasswordHash == "" || u.PasswordHash == "s3cret" {
		t.Errorf("password hash = %q, want bcrypt hash", u.PasswordHash)
	}
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	us := NewUserStore(setupTestDB(t))
	ctx := context.Background()

	if _, err := us.Create(ctx, "alice@example.com", "Alice", ""); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := us.Create(ctx, "alice@example.com", "Alice2", ""); err == nil {
		t.Fatal("expected error for duplicate email, got nil")
	}
}

func TestUserGetByIDNotFound(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	u, err := us.GetByID(context.Background(), 999)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u != nil {
		t.Errorf("expected nil, got %+v", u)
	}
}

func TestUserCheckPassword(t *testing.T) {
	us := NewUserStore(setupTestDB(t))
	ctx := context.Background()

	created, err := us.Create(ctx, "bob@example.com", "Bob", "hunter2")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	u, err := us.CheckPassword(ctx, "bob@example.com", "hunter2")
	if err != nil {
		t.Fatalf("check password: %v", err)
	}
	if u.ID != created.ID {
		t.Errorf("id = %d, want %d", u.ID, created.ID)
	}

	if _, err := us.CheckPassword(ctx, "bob@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := us.CheckPassword(ctx, "nobody@example.com", "hunter2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v, want ErrInvalidCredentials", err)
	}
}

func TestUserUpdateProfile(t *testing.T) {
	us := NewUserStore(setupTestDB(t))
	ctx := context.Background()

	created, _ := us.Create(ctx, "carol@example.com", "Carol", "")
	u, err := us.UpdateProfile(ctx, created.ID, "Carol C", "555-0100", "1990-04-01")
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if u.Name != "Carol C" || u.Phone != "555-0100" || u.DateOfBirth != "1990-04-01" {
		t.Errorf("profile = %+v", u)
	}
}

func TestUserDelete(t *testing.T) {
	us := NewUserStore(setupTestDB(t))
	ctx := context.Background()

	created, _ := us.Create(ctx, "dan@example.com", "Dan", "")
	if err := us.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	u, err := us.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u != nil {
		t.Error("expected nil after delete")
	}
}

func TestUserDeleteRemovesOwnedRows(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	us := NewUserStore(db)
	as := NewAppointmentStore(db)
	ms := NewMedicationStore(db)

	gone := createTestUser(t, db, "gone@example.com")
	kept := createTestUser(t, db, "kept@example.com")
	for _, uid := range []int64{gone, kept} {
		if _, err := as.Create(ctx, uid, newAppointment("2026-10-17", model.AppointmentConfirmed, true)); err != nil {
			t.Fatalf("create appointment: %v", err)
		}
		if _, err := ms.Create(ctx, uid, MedicationParams{Name: "Metformin", Dosage: "500mg", StartDate: "2026-10-01", ReminderTime: "08:00"}); err != nil {
			t.Fatalf("create medication: %v", err)
		}
	}

	if err := us.Delete(ctx, gone); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	appts, err := as.ListByUser(ctx, gone)
	if err != nil {
		t.Fatalf("list appointments: %v", err)
	}
	if len(appts) != 0 {
		t.Errorf("appointments of deleted user = %d, want 0", len(appts))
	}
	meds, err := ms.ListByUser(ctx, gone)
	if err != nil {
		t.Fatalf("list medications: %v", err)
	}
	if len(meds) != 0 {
		t.Errorf("medications of deleted user = %d, want 0", len(meds))
	}

	due, err := as.ListDueForReminder(ctx, "2026-10-17")
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	if len(due) != 1 || due[0].UserID != kept {
		t.Errorf("due for reminder = %+v, want only the remaining user's appointment", due)
	}
}
