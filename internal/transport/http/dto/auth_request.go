package dto

import "strings"

// -------- Core auth --------

type SignUpRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (r *SignUpRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	r.Name = strings.TrimSpace(r.Name)
	return check(r)
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *SignInRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	return check(r)
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (r *RefreshRequest) Validate() error { return check(r) }

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (r *LogoutRequest) Validate() error { return check(r) }

// -------- Email verification --------

type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,verification_code"`
}

func (r *VerifyEmailRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	return check(r)
}

type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *ResendVerificationRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	return check(r)
}

// -------- External identity --------

type GoogleExchangeRequest struct {
	AccessToken string `json:"access_token" validate:"required"`
}

func (r *GoogleExchangeRequest) Validate() error { return check(r) }
