package handler

import (
	"time"

	"github.com/slotswap/slotswap/internal/domain"
	"github.com/slotswap/slotswap/internal/service"
)

// UserDTO is the JSON representation of a user.
type UserDTO struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	CreatedAt   string `json:"createdAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt.Format(time.RFC3339),
	}
}

// SlotDTO is the JSON representation of a calendar slot.
type SlotDTO struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"userId"`
	Title     string `json:"title"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toSlotDTO(s *domain.Slot) SlotDTO {
	return SlotDTO{
		ID:        s.ID,
		UserID:    s.UserID,
		Title:     s.Title,
		StartTime: s.StartTime.Format(time.RFC3339),
		EndTime:   s.EndTime.Format(time.RFC3339),
		Status:    s.Status,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
	}
}

func toSlotDTOs(slots []domain.Slot) []SlotDTO {
	dtos := make([]SlotDTO, len(slots))
	for i := range slots {
		dtos[i] = toSlotDTO(&slots[i])
	}
	return dtos
}

// MarketplaceSlotDTO is a swappable slot annotated with its owner's details.
type MarketplaceSlotDTO struct {
	SlotDTO
	OwnerName  string `json:"ownerName"`
	OwnerEmail string `json:"ownerEmail"`
}

func toMarketplaceSlotDTOs(listings []domain.SwappableSlot) []MarketplaceSlotDTO {
	dtos := make([]MarketplaceSlotDTO, len(listings))
	for i, l := range listings {
		dtos[i] = MarketplaceSlotDTO{
			SlotDTO:    toSlotDTO(&l.Slot),
			OwnerName:  l.OwnerName,
			OwnerEmail: l.OwnerEmail,
		}
	}
	return dtos
}

// ProposalDTO is the JSON representation of a swap proposal.
type ProposalDTO struct {
	ID              int64   `json:"id"`
	RequesterUserID int64   `json:"requesterUserId"`
	RequesterSlotID int64   `json:"requesterSlotId"`
	ReceiverUserID  int64   `json:"receiverUserId"`
	ReceiverSlotID  int64   `json:"receiverSlotId"`
	Status          string  `json:"status"`
	CreatedAt       string  `json:"createdAt"`
	RespondedAt     *string `json:"respondedAt"`
}

func toProposalDTO(p *domain.SwapProposal) ProposalDTO {
	dto := ProposalDTO{
		ID:              p.ID,
		RequesterUserID: p.RequesterUserID,
		RequesterSlotID: p.RequesterSlotID,
		ReceiverUserID:  p.ReceiverUserID,
		ReceiverSlotID:  p.ReceiverSlotID,
		Status:          p.Status,
		CreatedAt:       p.CreatedAt.Format(time.RFC3339),
	}
	if p.RespondedAt != nil {
		formatted := p.RespondedAt.Format(time.RFC3339)
		dto.RespondedAt = &formatted
	}
	return dto
}

// ProposalDetailDTO is a proposal joined with its slots and the counterpart
// user, for the incoming/outgoing listings. Slots are null when they no
// longer exist (possible only on resolved proposals).
type ProposalDetailDTO struct {
	ProposalDTO
	RequesterSlot *SlotDTO `json:"requesterSlot"`
	ReceiverSlot  *SlotDTO `json:"receiverSlot"`
	Counterpart   UserDTO  `json:"counterpart"`
}

func toProposalDetailDTOs(details []service.ProposalDetail) []ProposalDetailDTO {
	dtos := make([]ProposalDetailDTO, len(details))
	for i, d := range details {
		dto := ProposalDetailDTO{
			ProposalDTO: toProposalDTO(&d.Proposal),
			Counterpart: toUserDTO(d.Counterpart),
		}
		if d.RequesterSlot != nil {
			s := toSlotDTO(d.RequesterSlot)
			dto.RequesterSlot = &s
		}
		if d.ReceiverSlot != nil {
			s := toSlotDTO(d.ReceiverSlot)
			dto.ReceiverSlot = &s
		}
		dtos[i] = dto
	}
	return dtos
}
