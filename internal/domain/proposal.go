package domain

import (
	"context"
	"time"
)

// SwapProposal is a requester's offer to trade one of their slots for a
// target slot owned by the receiver. Proposals are never deleted; resolved
// rows remain as an audit trail.
type SwapProposal struct {
	ID              int64
	RequesterUserID int64
	RequesterSlotID int64
	ReceiverUserID  int64
	ReceiverSlotID  int64
	Status          string
	CreatedAt       time.Time
	RespondedAt     *time.Time
}

// Proposal statuses. PENDING transitions exactly once, to ACCEPTED or
// REJECTED; the terminal states are final.
const (
	ProposalStatusPending  = "PENDING"
	ProposalStatusAccepted = "ACCEPTED"
	ProposalStatusRejected = "REJECTED"
)

// ProposalRepository defines persistence operations for swap proposals.
//
// CreateExchange and ResolveExchange are the system's two multi-record
// mutations. Each runs as a single transaction: either every row involved is
// updated, or none are. CreateExchange re-checks both slot statuses inside
// the transaction, so concurrent proposals against the same slot cannot both
// win; the loser gets ErrSlotNotSwappable. ResolveExchange guards the
// PENDING->terminal transition the same way, so a second resolution attempt
// gets ErrProposalResolved.
type ProposalRepository interface {
	// CreateExchange locks both referenced slots into SWAP_PENDING and
	// persists the proposal as PENDING, all in one transaction.
	CreateExchange(ctx context.Context, proposal *SwapProposal) error

	// ResolveExchange finalizes a pending proposal. On accept the two slots
	// exchange owners and become BUSY; on reject ownership is untouched and
	// both slots return to SWAPPABLE. The proposal's status and responded-at
	// timestamp are updated in the same transaction and reflected on the
	// passed-in value.
	ResolveExchange(ctx context.Context, proposal *SwapProposal, accept bool) error

	GetByID(ctx context.Context, id int64) (*SwapProposal, error)
	ListByReceiver(ctx context.Context, receiverID int64, status string) ([]SwapProposal, error)
	ListByRequester(ctx context.Context, requesterID int64) ([]SwapProposal, error)

	// HasPendingForSlot reports whether any pending proposal references the
	// slot, as requester's offer or receiver's target.
	HasPendingForSlot(ctx context.Context, slotID int64) (bool, error)
}
