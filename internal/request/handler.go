package request

import (
	"context"
	"net/http"

	"github.com/barefootnomad/backend/internal"
	"github.com/barefootnomad/backend/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(ctx context.Context, identity internal.Identity, dto CreateRequestDTO) (*Request, error)
	GetByID(ctx context.Context, identity internal.Identity, id int64) (*Request, error)
	ListForUser(ctx context.Context, userID int64) ([]*Request, error)
	ListForUserByStatus(ctx context.Context, userID int64, status string) ([]*Request, error)
	ListAll(ctx context.Context, identity internal.Identity) ([]*Request, error)
	UpdateStatus(ctx context.Context, identity internal.Identity, id int64, dto UpdateStatusDTO) (*Request, error)
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

// Create handles POST /api/users/requests
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrMissingToken)
		return
	}

	var dto CreateRequestDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	req, err := h.Service.Create(r.Context(), identity, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, req)
}

// ListAll handles GET /api/users/requests
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	identity, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrMissingToken)
		return
	}

	requests, err := h.Service.ListAll(r.Context(), identity)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, requests)
}

// ListForUser handles GET /api/users/requests/{id}
func (h *Handler) ListForUser(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParamInt64(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	requests, err := h.Service.ListForUser(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, requests)
}

// ListByStatus handles GET /api/users/requests/user/{status}
func (h *Handler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrMissingToken)
		return
	}

	requests, err := h.Service.ListForUserByStatus(r.Context(), identity.UserID, chi.URLParam(r, "status"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, requests)
}

// Detail handles GET /api/users/requests/detail/{id}
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	identity, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrMissingToken)
		return
	}

	id, err := h.ParamInt64(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	req, err := h.Service.GetByID(r.Context(), identity, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, req)
}

// UpdateStatus handles PATCH /api/users/requests/{id}
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrMissingToken)
		return
	}

	id, err := h.ParamInt64(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto UpdateStatusDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	req, err := h.Service.UpdateStatus(r.Context(), identity, id, dto)
	if err != nil {
		h.Logger.Warn("UpdateStatus: service error", "error", err, "request_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, req)
}
