package handler

import (
	"net/http"
	"strconv"

	"github.com/slotswap/slotswap/internal/domain"
	"github.com/slotswap/slotswap/internal/service"
)

// SwapHandler handles marketplace and swap negotiation HTTP requests.
type SwapHandler struct {
	swaps *service.SwapService
}

// NewSwapHandler creates a new SwapHandler.
func NewSwapHandler(swaps *service.SwapService) *SwapHandler {
	return &SwapHandler{swaps: swaps}
}

// HandleMarketplace lists other users' swappable slots with owner details.
// GET /api/swaps/swappable-slots
func (h *SwapHandler) HandleMarketplace(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	listings, err := h.swaps.Marketplace(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMarketplaceSlotDTOs(listings))
}

type createProposalRequest struct {
	MySlotID    int64 `json:"mySlotId" validate:"required"`
	TheirSlotID int64 `json:"theirSlotId" validate:"required"`
}

// HandleCreateProposal submits a swap proposal against another user's slot.
// POST /api/swaps/swap-request
func (h *SwapHandler) HandleCreateProposal(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req createProposalRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := checkRequest(req); err != nil {
		writeServiceError(w, err)
		return
	}

	proposal, err := h.swaps.CreateProposal(r.Context(), user.ID, req.MySlotID, req.TheirSlotID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toProposalDTO(proposal))
}

// HandleIncoming lists pending proposals addressed to the user.
// GET /api/swaps/incoming-requests
func (h *SwapHandler) HandleIncoming(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	details, err := h.swaps.IncomingPending(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProposalDetailDTOs(details))
}

// HandleOutgoing lists every proposal the user has made, any status.
// GET /api/swaps/outgoing-requests
func (h *SwapHandler) HandleOutgoing(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	details, err := h.swaps.OutgoingAll(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProposalDetailDTOs(details))
}

type resolveProposalRequest struct {
	Accept *bool `json:"accept" validate:"required"`
}

// HandleResolve applies the receiver's accept/reject decision.
// POST /api/swaps/swap-response/{id}
func (h *SwapHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid proposal id.")
		return
	}

	var req resolveProposalRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.Accept == nil {
		writeError(w, http.StatusBadRequest, "accept must be a boolean.")
		return
	}

	proposal, err := h.swaps.Resolve(r.Context(), user.ID, id, *req.Accept)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	message := "Swap rejected"
	if proposal.Status == domain.ProposalStatusAccepted {
		message = "Swap accepted"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  message,
		"proposal": toProposalDTO(proposal),
	})
}
