package auth

import (
	"context"
	"strings"
	"time"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/logger"
)

// VerifyEmail consumes a verification code. On success the account becomes
// verified-active, the code is cleared, and a token pair is issued:
// verification doubles as an implicit sign-in. The welcome mail is
// best-effort and never fails the flow.
func (s *Service) VerifyEmail(ctx context.Context, email, code string) (AuthResult, error) {
	email = strings.TrimSpace(email)
	code = strings.TrimSpace(code)

	if email == "" {
		return AuthResult{}, domain.ErrMissingField("email")
	}
	if code == "" {
		return AuthResult{}, domain.ErrMissingField("code")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return AuthResult{}, domain.ErrVerificationUserUnknown()
	}

	if u.EmailVerified {
		return AuthResult{}, domain.ErrAlreadyVerified()
	}
	if !u.HasLiveVerificationCode() {
		return AuthResult{}, domain.ErrVerificationCodeInvalid()
	}

	// The conditional write is the single source of truth: it re-checks
	// code, expiry and verified-state so two concurrent verifications
	// cannot both consume one code.
	ok, err := s.users.ConsumeVerificationCode(ctx, u.ID, code, time.Now())
	if err != nil {
		return AuthResult{}, err
	}
	if !ok {
		return AuthResult{}, domain.ErrVerificationCodeInvalid()
	}

	u.EmailVerified = true
	u.VerificationCode = ""
	u.VerificationExpires = nil

	toks, err := s.issueTokens(ctx, u)
	if err != nil {
		return AuthResult{}, err
	}

	if err := s.mail.PublishWelcome(ctx, WelcomeEvent{Email: u.Email, Name: u.Name}); err != nil {
		logger.WithCtx(ctx).Warn().Err(err).
			Str("email", u.Email).
			Msg("welcome email dispatch failed")
	}

	s.audit("email_verified", map[string]string{
		"user_id": formatID(u.ID),
	})

	return AuthResult{User: u, Tokens: toks}, nil
}

// ResendVerification issues a fresh code for an unverified account,
// replacing whatever code was live before.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.ErrMissingField("email")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return domain.ErrVerificationUserUnknown()
	}

	if u.EmailVerified {
		return domain.ErrAlreadyVerified()
	}

	return s.sendVerificationCode(ctx, u)
}
