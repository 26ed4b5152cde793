package booking

import (
	"context"
	"net/http"

	"github.com/barefootnomad/backend/internal"
	"github.com/barefootnomad/backend/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, identity internal.Identity, dto CreateBookingDTO) (*Booking, error)
	ListForUser(ctx context.Context, userID int64) ([]*Booking, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(base *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: base,
		Service:     svc,
	}
}

// Create handles POST /api/bookings
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrMissingToken)
		return
	}

	var dto CreateBookingDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	b, err := h.Service.Create(r.Context(), identity, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, b)
}

// List handles GET /api/bookings
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrMissingToken)
		return
	}

	bookings, err := h.Service.ListForUser(r.Context(), identity.UserID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, bookings)
}
