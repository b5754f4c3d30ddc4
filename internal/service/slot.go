package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/slotswap/slotswap/internal/domain"
)

// SlotService handles the slot lifecycle: creation, the owner's
// BUSY/SWAPPABLE toggle, and deletion. SWAP_PENDING is reserved for the swap
// engine; nothing here can produce it.
type SlotService struct {
	slots domain.SlotRepository
}

// NewSlotService creates a new SlotService.
func NewSlotService(slots domain.SlotRepository) *SlotService {
	return &SlotService{slots: slots}
}

// Create registers a new calendar slot for the owner. New slots start BUSY.
func (s *SlotService) Create(ctx context.Context, ownerID int64, title string, start, end time.Time) (*domain.Slot, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("%w: start and end times are required", domain.ErrInvalidInput)
	}
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: start time must be before end time", domain.ErrInvalidInput)
	}

	slot := &domain.Slot{
		UserID:    ownerID,
		Title:     strings.TrimSpace(title),
		StartTime: start,
		EndTime:   end,
		Status:    domain.SlotStatusBusy,
	}

	if err := s.slots.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("create slot: %w", err)
	}

	return slot, nil
}

// ListForOwner returns the owner's slots ordered by start time ascending.
func (s *SlotService) ListForOwner(ctx context.Context, ownerID int64) ([]domain.Slot, error) {
	return s.slots.ListByOwner(ctx, ownerID)
}

// SetStatus toggles a slot the owner holds between BUSY and SWAPPABLE.
// SWAP_PENDING is rejected here: it only ever appears as a side effect of
// proposal creation, so a user cannot manufacture a locked slot with no
// matching proposal. A slot currently locked by a pending proposal cannot be
// toggled either (ErrSlotLocked).
func (s *SlotService) SetStatus(ctx context.Context, slotID, ownerID int64, status string) (*domain.Slot, error) {
	switch status {
	case domain.SlotStatusBusy, domain.SlotStatusSwappable:
	default:
		return nil, fmt.Errorf("%w: status must be %s or %s", domain.ErrInvalidInput,
			domain.SlotStatusBusy, domain.SlotStatusSwappable)
	}

	return s.slots.UpdateStatus(ctx, slotID, ownerID, status)
}

// Delete removes a slot the owner holds. Slots locked by a pending proposal
// cannot be deleted; the owner has to resolve (or have rejected) the
// proposal first.
func (s *SlotService) Delete(ctx context.Context, slotID, ownerID int64) error {
	return s.slots.Delete(ctx, slotID, ownerID)
}
