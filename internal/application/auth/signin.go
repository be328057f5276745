package auth

import (
	"context"
	"strings"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
)

// SignIn authenticates a local account and issues a token pair.
// A missing account and a wrong password both map to invalid credentials
// (avoid user enumeration); deactivated and unverified accounts get their
// own messages, and the deactivation check runs before the password check
// so the outcome does not depend on password correctness.
func (s *Service) SignIn(ctx context.Context, email, password string) (AuthResult, error) {
	email = strings.TrimSpace(email)

	if email == "" || password == "" {
		return AuthResult{}, domain.ErrInvalidCredentials()
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// Hide not-found behind invalid credentials
		return AuthResult{}, domain.ErrInvalidCredentials()
	}

	if !u.IsActive {
		return AuthResult{}, domain.ErrAccountDeactivated()
	}

	if u.Provider != domain.ProviderLocal {
		return AuthResult{}, domain.ErrWrongSignInMethod()
	}

	if !u.EmailVerified {
		return AuthResult{}, domain.ErrEmailNotVerified()
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return AuthResult{}, domain.ErrInvalidCredentials()
	}

	toks, err := s.issueTokens(ctx, u)
	if err != nil {
		return AuthResult{}, err
	}

	s.audit("user_signed_in", map[string]string{
		"user_id": formatID(u.ID),
	})

	return AuthResult{User: u, Tokens: toks}, nil
}
