package role

import (
	"context"
	"net/http"

	"github.com/barefootnomad/backend/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context) ([]*Role, error)
	GetByID(ctx context.Context, id int64) (*Role, error)
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

// ListRoles handles GET /api/roles
func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, roles)
}

// GetRole handles GET /api/roles/{id}
func (h *Handler) GetRole(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParamInt64(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	rl, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, rl)
}
