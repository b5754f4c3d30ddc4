package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/slotswap/slotswap/internal/domain"
	"github.com/slotswap/slotswap/internal/repository/sqlite"
	"github.com/slotswap/slotswap/internal/service"
)

func newTestSlotService(t *testing.T) (*service.SlotService, *sqlite.DB) {
	t.Helper()
	db := newTestDB(t)
	return service.NewSlotService(db.Slots()), db
}

func registerUser(t *testing.T, db *sqlite.DB, email string) *domain.User {
	t.Helper()
	user := &domain.User{Email: email, DisplayName: "User " + email, PasswordHash: "hash"}
	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}

var (
	slotStart = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	slotEnd   = time.Date(2025, 1, 1, 11, 0, 0, 0, time.UTC)
)

func TestSlotService_Create(t *testing.T) {
	slots, db := newTestSlotService(t)
	ctx := context.Background()
	owner := registerUser(t, db, "owner@example.com")

	slot, err := slots.Create(ctx, owner.ID, "Dentist", slotStart, slotEnd)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if slot.Status != domain.SlotStatusBusy {
		t.Fatalf("new slots must start BUSY, got %s", slot.Status)
	}
	if slot.UserID != owner.ID {
		t.Fatalf("expected owner %d, got %d", owner.ID, slot.UserID)
	}
}

func TestSlotService_Create_Validation(t *testing.T) {
	slots, db := newTestSlotService(t)
	ctx := context.Background()
	owner := registerUser(t, db, "owner@example.com")

	tests := []struct {
		name       string
		title      string
		start, end time.Time
	}{
		{"empty title", "  ", slotStart, slotEnd},
		{"zero start", "Dentist", time.Time{}, slotEnd},
		{"zero end", "Dentist", slotStart, time.Time{}},
		{"start equals end", "Dentist", slotStart, slotStart},
		{"start after end", "Dentist", slotEnd, slotStart},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := slots.Create(ctx, owner.ID, tt.title, tt.start, tt.end)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestSlotService_SetStatus_Toggle(t *testing.T) {
	slots, db := newTestSlotService(t)
	ctx := context.Background()
	owner := registerUser(t, db, "owner@example.com")

	slot, err := slots.Create(ctx, owner.ID, "Dentist", slotStart, slotEnd)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := slots.SetStatus(ctx, slot.ID, owner.ID, domain.SlotStatusSwappable)
	if err != nil {
		t.Fatalf("SetStatus to SWAPPABLE: %v", err)
	}
	if updated.Status != domain.SlotStatusSwappable {
		t.Fatalf("expected SWAPPABLE, got %s", updated.Status)
	}

	updated, err = slots.SetStatus(ctx, slot.ID, owner.ID, domain.SlotStatusBusy)
	if err != nil {
		t.Fatalf("SetStatus back to BUSY: %v", err)
	}
	if updated.Status != domain.SlotStatusBusy {
		t.Fatalf("expected BUSY, got %s", updated.Status)
	}
}

func TestSlotService_SetStatus_RejectsSwapPending(t *testing.T) {
	slots, db := newTestSlotService(t)
	ctx := context.Background()
	owner := registerUser(t, db, "owner@example.com")

	slot, err := slots.Create(ctx, owner.ID, "Dentist", slotStart, slotEnd)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// The locked state is reachable only through proposal creation, never
	// through the plain status-update path.
	_, err = slots.SetStatus(ctx, slot.ID, owner.ID, domain.SlotStatusSwapPending)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	got, err := db.Slots().GetByID(ctx, slot.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != domain.SlotStatusBusy {
		t.Fatalf("slot should be untouched, got %s", got.Status)
	}
}

func TestSlotService_SetStatus_UnknownStatus(t *testing.T) {
	slots, db := newTestSlotService(t)
	ctx := context.Background()
	owner := registerUser(t, db, "owner@example.com")

	slot, err := slots.Create(ctx, owner.ID, "Dentist", slotStart, slotEnd)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = slots.SetStatus(ctx, slot.ID, owner.ID, "ON_FIRE")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSlotService_SetStatus_NotOwner(t *testing.T) {
	slots, db := newTestSlotService(t)
	ctx := context.Background()
	owner := registerUser(t, db, "owner@example.com")
	stranger := registerUser(t, db, "stranger@example.com")

	slot, err := slots.Create(ctx, owner.ID, "Dentist", slotStart, slotEnd)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = slots.SetStatus(ctx, slot.ID, stranger.ID, domain.SlotStatusSwappable)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSlotService_ListForOwner(t *testing.T) {
	slots, db := newTestSlotService(t)
	ctx := context.Background()
	owner := registerUser(t, db, "owner@example.com")
	other := registerUser(t, db, "other@example.com")

	if _, err := slots.Create(ctx, owner.ID, "Mine", slotStart, slotEnd); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := slots.Create(ctx, other.ID, "Theirs", slotStart, slotEnd); err != nil {
		t.Fatalf("Create: %v", err)
	}

	mine, err := slots.ListForOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListForOwner: %v", err)
	}
	if len(mine) != 1 || mine[0].Title != "Mine" {
		t.Fatalf("expected only the owner's slot, got %+v", mine)
	}
}

func TestSlotService_Delete(t *testing.T) {
	slots, db := newTestSlotService(t)
	ctx := context.Background()
	owner := registerUser(t, db, "owner@example.com")

	slot, err := slots.Create(ctx, owner.ID, "Dentist", slotStart, slotEnd)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := slots.Delete(ctx, slot.ID, owner.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := slots.Delete(ctx, slot.ID, owner.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete should be ErrNotFound, got %v", err)
	}
}
