package auth

import (
	"context"
	"time"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
)

// Refresh rotates a refresh token: the presented token is validated and
// revoked in one atomic ledger step, then a fresh pair is issued for the
// same user. Of two concurrent rotations of one token, at most one
// succeeds. Verification state is not re-checked here, only on sign-in;
// the owner does have to be active.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (AuthResult, error) {
	if refreshToken == "" {
		return AuthResult{}, domain.ErrRefreshTokenInvalid()
	}

	// Signature-level check first: the embedded exp claim and the typ
	// discriminator are authoritative independently of the ledger.
	if _, err := s.signer.Verify(refreshToken, TokenRefresh); err != nil {
		return AuthResult{}, domain.ErrRefreshTokenInvalid()
	}

	// Atomic validate-and-revoke. The old token is unusable from here on;
	// there is no grace window.
	userID, err := s.ledger.ConsumeActive(ctx, refreshToken, time.Now())
	if err != nil {
		return AuthResult{}, domain.ErrRefreshTokenInvalid()
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return AuthResult{}, domain.ErrRefreshTokenInvalid()
	}

	if !u.IsActive {
		return AuthResult{}, domain.ErrAccountDeactivated()
	}

	toks, err := s.issueTokens(ctx, u)
	if err != nil {
		return AuthResult{}, err
	}

	s.audit("tokens_refreshed", map[string]string{
		"user_id": formatID(u.ID),
	})

	return AuthResult{User: u, Tokens: toks}, nil
}

// ValidateRefreshToken checks a presented token against both the signature
// and the ledger without consuming it, and resolves the owning user.
func (s *Service) ValidateRefreshToken(ctx context.Context, refreshToken string) (domain.User, error) {
	if refreshToken == "" {
		return domain.User{}, domain.ErrRefreshTokenInvalid()
	}

	if _, err := s.signer.Verify(refreshToken, TokenRefresh); err != nil {
		return domain.User{}, domain.ErrRefreshTokenInvalid()
	}

	rec, err := s.ledger.Get(ctx, refreshToken)
	if err != nil {
		return domain.User{}, domain.ErrRefreshTokenInvalid()
	}
	if !rec.Usable(time.Now()) {
		return domain.User{}, domain.ErrRefreshTokenInvalid()
	}

	u, err := s.users.GetByID(ctx, rec.UserID)
	if err != nil {
		return domain.User{}, domain.ErrRefreshTokenInvalid()
	}
	if !u.IsActive {
		return domain.User{}, domain.ErrAccountDeactivated()
	}

	return u, nil
}
