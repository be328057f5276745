package dto

import (
	"strconv"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/application/auth"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
)

// UserView is the standard user payload. The refresh-token ledger state,
// password hash and verification code never leave the server.
type UserView struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Provider      string `json:"provider"`
	Role          string `json:"role"`
	Avatar        string `json:"avatar,omitempty"`
	EmailVerified bool   `json:"email_verified"`
	IsActive      bool   `json:"is_active"`
}

func ToUserView(u domain.User) UserView {
	return UserView{
		ID:            strconv.FormatInt(u.ID, 10),
		Name:          u.Name,
		Email:         u.Email,
		Provider:      string(u.Provider),
		Role:          u.Role,
		Avatar:        u.Avatar,
		EmailVerified: u.EmailVerified,
		IsActive:      u.IsActive,
	}
}

// TokensView is the standard token-pair payload.
type TokensView struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"` // "Bearer"
	ExpiresIn    int64  `json:"expires_in"` // seconds, access token
}

func ToTokensView(t auth.AuthTokens) TokensView {
	return TokensView{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		ExpiresIn:    t.ExpiresIn,
	}
}

// SignUpData is returned by signup: the account, no tokens. Tokens come
// after email verification.
type SignUpData struct {
	User UserView `json:"user"`
}

// AuthData is returned by signin, verify-email, google and refresh.
type AuthData struct {
	User   UserView   `json:"user"`
	Tokens TokensView `json:"tokens"`
}

func ToAuthData(res auth.AuthResult) AuthData {
	return AuthData{
		User:   ToUserView(res.User),
		Tokens: ToTokensView(res.Tokens),
	}
}

// MeData is returned by /me.
type MeData struct {
	User UserView `json:"user"`
}

type StatusData struct {
	Status string `json:"status"` // "ok"
}
