package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/slotswap/slotswap/internal/service"
)

// SlotHandler handles calendar slot HTTP requests.
type SlotHandler struct {
	slots *service.SlotService
}

// NewSlotHandler creates a new SlotHandler.
func NewSlotHandler(slots *service.SlotService) *SlotHandler {
	return &SlotHandler{slots: slots}
}

type createSlotRequest struct {
	Title     string    `json:"title" validate:"required,max=200"`
	StartTime time.Time `json:"startTime" validate:"required"`
	EndTime   time.Time `json:"endTime" validate:"required"`
}

// HandleCreate registers a new slot for the authenticated user.
// POST /api/slots
func (h *SlotHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req createSlotRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := checkRequest(req); err != nil {
		writeServiceError(w, err)
		return
	}

	slot, err := h.slots.Create(r.Context(), user.ID, req.Title, req.StartTime, req.EndTime)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSlotDTO(slot))
}

// HandleList returns the authenticated user's slots ordered by start time.
// GET /api/slots
func (h *SlotHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	slots, err := h.slots.ListForOwner(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSlotDTOs(slots))
}

type updateSlotStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleUpdateStatus toggles a slot between BUSY and SWAPPABLE.
// PATCH /api/slots/{id}
func (h *SlotHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid slot id.")
		return
	}

	var req updateSlotStatusRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := checkRequest(req); err != nil {
		writeServiceError(w, err)
		return
	}

	slot, err := h.slots.SetStatus(r.Context(), id, user.ID, req.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSlotDTO(slot))
}

// HandleDelete removes a slot the authenticated user owns.
// DELETE /api/slots/{id}
func (h *SlotHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid slot id.")
		return
	}

	if err := h.slots.Delete(r.Context(), id, user.ID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Slot deleted"})
}
