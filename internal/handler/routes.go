package handler

import (
	"net/http"

	"github.com/slotswap/slotswap/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, auth *service.AuthService, slots *service.SlotService, swaps *service.SwapService, limiter *service.RateLimiter) {
	authHandler := NewAuthHandler(auth)
	slotHandler := NewSlotHandler(slots)
	swapHandler := NewSwapHandler(swaps)

	protected := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(auth, h)
	}
	throttled := func(h http.HandlerFunc) http.Handler {
		return RateLimit(limiter, h)
	}

	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.Handle("POST /api/auth/register", throttled(authHandler.HandleRegister))
	mux.Handle("POST /api/auth/login", throttled(authHandler.HandleLogin))
	mux.Handle("GET /api/auth/me", protected(authHandler.HandleMe))

	mux.Handle("POST /api/slots", protected(slotHandler.HandleCreate))
	mux.Handle("GET /api/slots", protected(slotHandler.HandleList))
	mux.Handle("PATCH /api/slots/{id}", protected(slotHandler.HandleUpdateStatus))
	mux.Handle("DELETE /api/slots/{id}", protected(slotHandler.HandleDelete))

	mux.Handle("GET /api/swaps/swappable-slots", protected(swapHandler.HandleMarketplace))
	mux.Handle("POST /api/swaps/swap-request", protected(swapHandler.HandleCreateProposal))
	mux.Handle("GET /api/swaps/incoming-requests", protected(swapHandler.HandleIncoming))
	mux.Handle("GET /api/swaps/outgoing-requests", protected(swapHandler.HandleOutgoing))
	mux.Handle("POST /api/swaps/swap-response/{id}", protected(swapHandler.HandleResolve))
}
