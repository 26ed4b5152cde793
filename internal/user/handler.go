package user

import (
	"context"
	"net/http"

	"github.com/barefootnomad/backend/internal/transport"
)

type ServiceAPI interface {
	GetProfile(ctx context.Context, id int64) (*Profile, error)
	UpdateProfile(ctx context.Context, id int64, dto UpdateProfileDTO) (*Profile, error)
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

// GetProfile handles GET /api/users/profile/{id}
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParamInt64(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	p, err := h.Service.GetProfile(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, p)
}

// UpdateProfile handles PATCH /api/users/profile/{id}/update
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParamInt64(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto UpdateProfileDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	p, err := h.Service.UpdateProfile(r.Context(), id, dto)
	if err != nil {
		h.Logger.Warn("UpdateProfile: service error", "error", err, "user_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, p)
}
