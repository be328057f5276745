package http_handlers

import (
	"net/http"
	"strconv"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/application/auth"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/logger"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/transport/http/dto"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/transport/http/middleware"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/transport/http/response"
)

type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req dto.SignUpRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	u, err := h.svc.SignUp(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Int64("user_id", u.ID).
		Str("email", u.Email).
		Msg("user_signed_up")

	response.Created(w, dto.SignUpData{User: dto.ToUserView(u)})
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req dto.SignInRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		middleware.SignInAttemptsTotal.WithLabelValues(signInStatus(err)).Inc()
		response.WriteError(w, r, err)
		return
	}
	middleware.SignInAttemptsTotal.WithLabelValues("success").Inc()

	logger.WithCtx(r.Context()).Info().
		Int64("user_id", res.User.ID).
		Msg("user_signed_in")

	response.OK(w, dto.ToAuthData(res))
}

func signInStatus(err error) string {
	switch {
	case domain.Is(err, "email_not_verified"):
		return "email_not_verified"
	case domain.Is(err, "account_deactivated"):
		return "account_deactivated"
	default:
		return "invalid_credentials"
	}
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		middleware.TokenRefreshTotal.WithLabelValues("invalid").Inc()
		response.WriteError(w, r, err)
		return
	}
	middleware.TokenRefreshTotal.WithLabelValues("success").Inc()

	response.OK(w, dto.ToAuthData(res))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req dto.LogoutRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	// Logout is idempotent: an unknown or already-revoked token is fine.
	if err := h.svc.Logout(r.Context(), req.RefreshToken); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.NoContent(w)
}

func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	if err := h.svc.LogoutAll(r.Context(), userID); err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Int64("user_id", userID).
		Msg("user_logged_out_everywhere")

	response.NoContent(w)
}

func (h *AuthHandler) RevokeAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	if err := h.svc.RevokeAllTokens(r.Context(), userID); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.StatusData{Status: "ok"})
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyEmailRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.VerifyEmail(r.Context(), req.Email, req.Code)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Int64("user_id", res.User.ID).
		Msg("email_verified")

	response.OK(w, dto.ToAuthData(res))
}

func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req dto.ResendVerificationRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.svc.ResendVerification(r.Context(), req.Email); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.StatusData{Status: "ok"})
}

func (h *AuthHandler) Google(w http.ResponseWriter, r *http.Request) {
	var req dto.GoogleExchangeRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.ExchangeGoogleToken(r.Context(), req.AccessToken)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Int64("user_id", res.User.ID).
		Msg("google_signed_in")

	response.OK(w, dto.ToAuthData(res))
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	u, err := h.svc.GetUserByID(r.Context(), userID)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.MeData{User: dto.ToUserView(u)})
}

// parseID reads a positive int64 path parameter.
func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidField("id", "must be a positive integer")
	}
	return id, nil
}
