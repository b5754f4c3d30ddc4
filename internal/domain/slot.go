package domain

import (
	"context"
	"time"
)

// Slot is a calendar interval owned by exactly one user at a time.
type Slot struct {
	ID        int64
	UserID    int64
	Title     string
	StartTime time.Time
	EndTime   time.Time
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Slot statuses. A slot is created BUSY; its owner toggles it between BUSY
// and SWAPPABLE. SWAP_PENDING is set only while a pending proposal
// references the slot, and never through the plain status-update path.
const (
	SlotStatusBusy        = "BUSY"
	SlotStatusSwappable   = "SWAPPABLE"
	SlotStatusSwapPending = "SWAP_PENDING"
)

// SwappableSlot pairs a marketplace slot with its owner's display details.
type SwappableSlot struct {
	Slot       Slot
	OwnerName  string
	OwnerEmail string
}

// SlotRepository defines persistence operations for slots. Mutating
// operations scoped by ownerID affect only slots the owner holds and report
// ErrNotFound otherwise, so a caller cannot probe other users' slots.
type SlotRepository interface {
	Create(ctx context.Context, slot *Slot) error
	GetByID(ctx context.Context, id int64) (*Slot, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]Slot, error)
	ListSwappableExcluding(ctx context.Context, ownerID int64) ([]Slot, error)
	UpdateStatus(ctx context.Context, id, ownerID int64, status string) (*Slot, error)
	Delete(ctx context.Context, id, ownerID int64) error
}
