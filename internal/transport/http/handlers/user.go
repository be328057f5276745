package http_handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/application/user"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/transport/http/dto"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/transport/http/middleware"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/transport/http/response"
)

type UserHandler struct {
	svc *user.Service
}

func NewUserHandler(svc *user.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	us, err := h.svc.List(r.Context())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	views := make([]dto.UserView, 0, len(us))
	for _, u := range us {
		views = append(views, dto.ToUserView(u))
	}
	response.OK(w, views)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := h.requireSelfOrAdmin(r, id); err != nil {
		response.WriteError(w, r, err)
		return
	}

	u, err := h.svc.Get(r.Context(), id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.ToUserView(u))
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := h.requireSelfOrAdmin(r, id); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.NoContent(w)
}

// requireSelfOrAdmin allows a user to act on their own account and admins
// to act on anyone's.
func (h *UserHandler) requireSelfOrAdmin(r *http.Request, targetID int64) error {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return domain.ErrTokenInvalid()
	}
	if callerID == targetID {
		return nil
	}
	role, _ := middleware.RoleFromContext(r.Context())
	if role == string(domain.RoleAdmin) {
		return nil
	}
	return domain.ErrForbidden()
}
