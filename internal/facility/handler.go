package facility

import (
	"context"
	"net/http"

	"github.com/barefootnomad/backend/internal"
	"github.com/barefootnomad/backend/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, identity internal.Identity, dto CreateFacilityDTO) (*Facility, error)
	GetByID(ctx context.Context, identity internal.Identity, id int64) (*Facility, error)
	List(ctx context.Context, identity internal.Identity) ([]*Facility, error)
	Update(ctx context.Context, identity internal.Identity, id int64, dto UpdateFacilityDTO) (*Facility, error)
	CreateRoom(ctx context.Context, identity internal.Identity, facilityID int64, dto CreateRoomDTO) (*Room, error)
	ListRooms(ctx context.Context, identity internal.Identity, facilityID int64) ([]*Room, error)
	UpdateRoom(ctx context.Context, identity internal.Identity, id int64, dto UpdateRoomDTO) (*Room, error)
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

// identityAndID pulls the caller identity and, when param is set, a path id.
func (h *Handler) identityAndID(w http.ResponseWriter, r *http.Request, param string) (internal.Identity, int64, bool) {
	identity, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrMissingToken)
		return identity, 0, false
	}
	if param == "" {
		return identity, 0, true
	}
	id, err := h.ParamInt64(r, param)
	if err != nil {
		h.HandleServiceError(w, err)
		return identity, 0, false
	}
	return identity, id, true
}

// Create handles POST /api/facilities
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	identity, _, ok := h.identityAndID(w, r, "")
	if !ok {
		return
	}

	var dto CreateFacilityDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	f, err := h.Service.Create(r.Context(), identity, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, f)
}

// List handles GET /api/facilities
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	identity, _, ok := h.identityAndID(w, r, "")
	if !ok {
		return
	}

	facilities, err := h.Service.List(r.Context(), identity)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, facilities)
}

// Get handles GET /api/facilities/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	identity, id, ok := h.identityAndID(w, r, "id")
	if !ok {
		return
	}

	f, err := h.Service.GetByID(r.Context(), identity, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, f)
}

// Update handles PATCH /api/facilities/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	identity, id, ok := h.identityAndID(w, r, "id")
	if !ok {
		return
	}

	var dto UpdateFacilityDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	f, err := h.Service.Update(r.Context(), identity, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, f)
}

// CreateRoom handles POST /api/facilities/{id}/rooms
func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	identity, facilityID, ok := h.identityAndID(w, r, "id")
	if !ok {
		return
	}

	var dto CreateRoomDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	room, err := h.Service.CreateRoom(r.Context(), identity, facilityID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, room)
}

// ListRooms handles GET /api/facilities/{id}/rooms
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	identity, facilityID, ok := h.identityAndID(w, r, "id")
	if !ok {
		return
	}

	rooms, err := h.Service.ListRooms(r.Context(), identity, facilityID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, rooms)
}

// UpdateRoom handles PATCH /api/rooms/{id}
func (h *Handler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	identity, id, ok := h.identityAndID(w, r, "id")
	if !ok {
		return
	}

	var dto UpdateRoomDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	room, err := h.Service.UpdateRoom(r.Context(), identity, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, room)
}
