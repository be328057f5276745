package http_handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/application/terminal"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/logger"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/transport/http/dto"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/transport/http/response"
)

type TerminalHandler struct {
	svc *terminal.Service
}

func NewTerminalHandler(svc *terminal.Service) *TerminalHandler {
	return &TerminalHandler{svc: svc}
}

func (h *TerminalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTerminalRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	t, err := h.svc.Create(r.Context(), req.TerminalNumber, req.Status)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Created(w, dto.ToTerminalView(t))
}

func (h *TerminalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	t, err := h.svc.Get(r.Context(), id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.ToTerminalView(t))
}

func (h *TerminalHandler) List(w http.ResponseWriter, r *http.Request) {
	ts, err := h.svc.List(r.Context())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.ToTerminalViews(ts))
}

func (h *TerminalHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	var req dto.UpdateTerminalRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	t, err := h.svc.Update(r.Context(), id, terminal.UpdateParams{
		TerminalNumber: req.TerminalNumber,
		Status:         req.Status,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.ToTerminalView(t))
}

func (h *TerminalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.NoContent(w)
}

func (h *TerminalHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	var req dto.AssignTerminalRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	a, err := h.svc.Assign(r.Context(), terminal.AssignParams{
		TerminalID:     id,
		UserID:         req.UserID,
		ShopName:       req.ShopName,
		StreetAddress:  req.StreetAddress,
		PostalCode:     req.PostalCode,
		StateRegion:    req.StateRegion,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		GPSCoordinates: req.GPSCoordinates,
		MACAddress:     req.MACAddress,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Int64("terminal_id", id).
		Int64("user_id", req.UserID).
		Msg("terminal_assigned")

	response.Created(w, dto.ToAssignmentView(a))
}

func (h *TerminalHandler) Unassign(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.svc.Unassign(r.Context(), id); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.NoContent(w)
}

func (h *TerminalHandler) Assignment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	a, err := h.svc.AssignmentByTerminal(r.Context(), id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.ToAssignmentView(a))
}

func (h *TerminalHandler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	as, err := h.svc.ListAssignments(r.Context())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.ToAssignmentViews(as))
}
