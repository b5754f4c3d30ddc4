package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/slotswap/slotswap/internal/domain"
)

// SwapService is the swap negotiation engine. It owns proposal creation, the
// receiver's accept/reject decision, and the marketplace read views. All
// multi-record writes are delegated to the proposal repository's
// transactional exchange methods; this layer enforces the protocol rules
// (who may do what, and in which state).
type SwapService struct {
	slots     domain.SlotRepository
	proposals domain.ProposalRepository
	users     domain.UserRepository
}

// NewSwapService creates a new SwapService.
func NewSwapService(slots domain.SlotRepository, proposals domain.ProposalRepository, users domain.UserRepository) *SwapService {
	return &SwapService{slots: slots, proposals: proposals, users: users}
}

// ProposalDetail is a proposal resolved to its referenced slots and the
// counterpart user, assembled for display. Slot pointers are nil when the
// slot no longer exists, which can only happen on resolved proposals.
type ProposalDetail struct {
	Proposal      domain.SwapProposal
	RequesterSlot *domain.Slot
	ReceiverSlot  *domain.Slot
	Counterpart   *domain.User
}

// Marketplace returns every other user's SWAPPABLE slots, each annotated
// with the owner's display name and email.
func (s *SwapService) Marketplace(ctx context.Context, excludingUserID int64) ([]domain.SwappableSlot, error) {
	slots, err := s.slots.ListSwappableExcluding(ctx, excludingUserID)
	if err != nil {
		return nil, fmt.Errorf("list swappable slots: %w", err)
	}

	owners := make(map[int64]*domain.User)
	listings := make([]domain.SwappableSlot, 0, len(slots))
	for _, slot := range slots {
		owner, ok := owners[slot.UserID]
		if !ok {
			owner, err = s.users.GetByID(ctx, slot.UserID)
			if err != nil {
				return nil, fmt.Errorf("get slot owner %d: %w", slot.UserID, err)
			}
			owners[slot.UserID] = owner
		}
		listings = append(listings, domain.SwappableSlot{
			Slot:       slot,
			OwnerName:  owner.DisplayName,
			OwnerEmail: owner.Email,
		})
	}
	return listings, nil
}

// CreateProposal offers the requester's slot in exchange for the target
// slot. Both slots must be SWAPPABLE; on success both are locked into
// SWAP_PENDING and a PENDING proposal references them. The status checks
// here give precise errors, but the authoritative re-check happens inside
// the creation transaction, so two racing proposals against the same slot
// cannot both succeed.
func (s *SwapService) CreateProposal(ctx context.Context, requesterID, offeredSlotID, targetSlotID int64) (*domain.SwapProposal, error) {
	offered, err := s.slots.GetByID(ctx, offeredSlotID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: your slot", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get offered slot: %w", err)
	}
	if offered.UserID != requesterID {
		// Not owned by the requester; indistinguishable from absent.
		return nil, fmt.Errorf("%w: your slot", domain.ErrNotFound)
	}

	target, err := s.slots.GetByID(ctx, targetSlotID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: their slot", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get target slot: %w", err)
	}

	if target.UserID == requesterID {
		return nil, fmt.Errorf("%w: cannot propose a swap with yourself", domain.ErrInvalidInput)
	}
	if offered.Status != domain.SlotStatusSwappable {
		return nil, fmt.Errorf("%w: your slot must be swappable", domain.ErrSlotNotSwappable)
	}
	if target.Status != domain.SlotStatusSwappable {
		return nil, fmt.Errorf("%w: their slot is no longer swappable", domain.ErrSlotNotSwappable)
	}

	proposal := &domain.SwapProposal{
		RequesterUserID: requesterID,
		RequesterSlotID: offered.ID,
		ReceiverUserID:  target.UserID,
		ReceiverSlotID:  target.ID,
	}

	if err := s.proposals.CreateExchange(ctx, proposal); err != nil {
		return nil, err
	}
	return proposal, nil
}

// Resolve applies the receiver's accept/reject decision to a pending
// proposal. Only the receiver may resolve it, and only once. Accept
// exchanges slot ownership and returns both slots to BUSY; reject leaves
// ownership alone and returns both to SWAPPABLE.
func (s *SwapService) Resolve(ctx context.Context, receiverID, proposalID int64, accept bool) (*domain.SwapProposal, error) {
	proposal, err := s.proposals.GetByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: swap proposal", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get proposal: %w", err)
	}

	if proposal.ReceiverUserID != receiverID {
		return nil, domain.ErrForbidden
	}
	if proposal.Status != domain.ProposalStatusPending {
		return nil, domain.ErrProposalResolved
	}

	if err := s.proposals.ResolveExchange(ctx, proposal, accept); err != nil {
		return nil, err
	}
	return proposal, nil
}

// IncomingPending returns the pending proposals addressed to the user, each
// resolved to its slots and the requesting user.
func (s *SwapService) IncomingPending(ctx context.Context, userID int64) ([]ProposalDetail, error) {
	proposals, err := s.proposals.ListByReceiver(ctx, userID, domain.ProposalStatusPending)
	if err != nil {
		return nil, fmt.Errorf("list incoming proposals: %w", err)
	}
	return s.assembleDetails(ctx, proposals, func(p domain.SwapProposal) int64 { return p.RequesterUserID })
}

// OutgoingAll returns every proposal the user has made, in any status, each
// resolved to its slots and the receiving user.
func (s *SwapService) OutgoingAll(ctx context.Context, userID int64) ([]ProposalDetail, error) {
	proposals, err := s.proposals.ListByRequester(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list outgoing proposals: %w", err)
	}
	return s.assembleDetails(ctx, proposals, func(p domain.SwapProposal) int64 { return p.ReceiverUserID })
}

// assembleDetails joins proposals with their slots and counterpart users via
// id lookups. Missing slots are tolerated (resolved proposals may outlive
// their slots); a missing counterpart user is an integrity error.
func (s *SwapService) assembleDetails(ctx context.Context, proposals []domain.SwapProposal, counterpartID func(domain.SwapProposal) int64) ([]ProposalDetail, error) {
	users := make(map[int64]*domain.User)
	details := make([]ProposalDetail, 0, len(proposals))
	for _, p := range proposals {
		cpID := counterpartID(p)
		counterpart, ok := users[cpID]
		if !ok {
			var err error
			counterpart, err = s.users.GetByID(ctx, cpID)
			if err != nil {
				return nil, fmt.Errorf("get counterpart user %d: %w", cpID, err)
			}
			users[cpID] = counterpart
		}

		requesterSlot, err := s.slotOrNil(ctx, p.RequesterSlotID)
		if err != nil {
			return nil, err
		}
		receiverSlot, err := s.slotOrNil(ctx, p.ReceiverSlotID)
		if err != nil {
			return nil, err
		}

		details = append(details, ProposalDetail{
			Proposal:      p,
			RequesterSlot: requesterSlot,
			ReceiverSlot:  receiverSlot,
			Counterpart:   counterpart,
		})
	}
	return details, nil
}

func (s *SwapService) slotOrNil(ctx context.Context, slotID int64) (*domain.Slot, error) {
	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot %d: %w", slotID, err)
	}
	return slot, nil
}
