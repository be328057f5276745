package auth

import (
	"context"
	"strings"
	"time"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/logger"
)

// SignUp creates a local, unverified account and dispatches a verification
// code. Local accounts cannot authenticate before verification, so no
// tokens are issued here.
func (s *Service) SignUp(ctx context.Context, name, email, password string) (domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" {
		return domain.User{}, domain.ErrMissingField("name")
	}
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if password == "" {
		return domain.User{}, domain.ErrMissingField("password")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return domain.User{}, domain.ErrHashFailed(err)
	}

	created, err := s.users.Create(ctx, domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Provider:     domain.ProviderLocal,
		Role:         string(domain.RoleUser),
		IsActive:     true,
	})
	if err != nil {
		return domain.User{}, err
	}

	if err := s.sendVerificationCode(ctx, created); err != nil {
		return domain.User{}, err
	}

	s.audit("user_signed_up", map[string]string{
		"user_id": formatID(created.ID),
		"email":   created.Email,
	})

	return created, nil
}

// sendVerificationCode generates a fresh code, stores it (overwriting any
// prior unconsumed one) and publishes the email event. Dispatch failure
// only propagates in strict mode.
func (s *Service) sendVerificationCode(ctx context.Context, u domain.User) error {
	code, err := newVerificationCode()
	if err != nil {
		return domain.ErrRandomFailed(err)
	}

	expires := time.Now().Add(s.codeTTL)
	if err := s.users.SetVerificationCode(ctx, u.ID, code, expires); err != nil {
		return err
	}

	err = s.mail.PublishVerificationCode(ctx, VerificationCodeEvent{
		UserID:    u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Code:      code,
		ExpiresAt: expires,
	})
	if err != nil {
		if s.strictEmail {
			return domain.ErrDispatchFailed(err)
		}
		logger.WithCtx(ctx).Warn().Err(err).
			Str("email", u.Email).
			Msg("verification email dispatch failed")
	}
	return nil
}
