package http_handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/application/locker"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/logger"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/transport/http/dto"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/transport/http/middleware"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/transport/http/response"
)

type LockerHandler struct {
	svc *locker.Service
}

func NewLockerHandler(svc *locker.Service) *LockerHandler {
	return &LockerHandler{svc: svc}
}

func (h *LockerHandler) Create(w http.ResponseWriter, r *http.Request) {
	terminalID, err := parseID(chi.URLParam(r, "terminalID"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	var req dto.CreateLockerRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	l, err := h.svc.Create(r.Context(), locker.CreateParams{
		TerminalID:   terminalID,
		LockerNumber: req.LockerNumber,
		Location:     req.Location,
		Status:       req.Status,
		Size:         req.Size,
		Notes:        req.Notes,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Created(w, dto.ToLockerView(l))
}

func (h *LockerHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	terminalID, err := parseID(chi.URLParam(r, "terminalID"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	var req dto.CreateLockerBatchRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	ls, err := h.svc.CreateBatch(r.Context(), terminalID, req.Prefix, req.Count, req.Size)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Created(w, dto.ToLockerViews(ls))
}

func (h *LockerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	l, err := h.svc.Get(r.Context(), id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.ToLockerView(l))
}

func (h *LockerHandler) ListByTerminal(w http.ResponseWriter, r *http.Request) {
	terminalID, err := parseID(chi.URLParam(r, "terminalID"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	var (
		ls []domain.Locker
	)
	if r.URL.Query().Get("available") == "true" {
		ls, err = h.svc.ListAvailable(r.Context(), terminalID)
	} else {
		ls, err = h.svc.ListByTerminal(r.Context(), terminalID)
	}
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.ToLockerViews(ls))
}

func (h *LockerHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	ls, err := h.svc.ListPurchasedBy(r.Context(), userID)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.ToLockerViews(ls))
}

func (h *LockerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	var req dto.UpdateLockerRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	l, err := h.svc.Update(r.Context(), id, locker.UpdateParams{
		Location: req.Location,
		Status:   req.Status,
		Size:     req.Size,
		Notes:    req.Notes,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.ToLockerView(l))
}

func (h *LockerHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

func (h *LockerHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	var req dto.PurchaseLockerRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Purchase(r.Context(), id, userID, req.SecretPIN, req.ExpiryDate)
	if err != nil {
		if domain.Is(err, "locker_occupied") {
			middleware.LockerPurchasesTotal.WithLabelValues("occupied").Inc()
		}
		response.WriteError(w, r, err)
		return
	}
	middleware.LockerPurchasesTotal.WithLabelValues("success").Inc()

	logger.WithCtx(r.Context()).Info().
		Int64("locker_id", id).
		Int64("user_id", userID).
		Str("key_code", res.Key.KeyCode).
		Msg("locker_purchased")

	response.Created(w, dto.ToPurchaseData(res))
}

func (h *LockerHandler) KeyByCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	k, err := h.svc.KeyByCode(r.Context(), code)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.ToKeyView(k))
}

func (h *LockerHandler) DeactivateKey(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if err := h.svc.DeactivateKey(r.Context(), code); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.NoContent(w)
}
