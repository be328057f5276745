package auth

import "context"

// Logout revokes the presented refresh token (single session logout).
// Unknown or empty tokens are a no-op, not an error.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.ledger.Revoke(ctx, refreshToken)
}

// LogoutAll revokes every refresh token owned by the user. Idempotent.
func (s *Service) LogoutAll(ctx context.Context, userID int64) error {
	if err := s.ledger.RevokeAllForUser(ctx, userID); err != nil {
		return err
	}
	s.audit("user_logged_out_all", map[string]string{
		"user_id": formatID(userID),
	})
	return nil
}

// RevokeAllTokens performs the same mutation as LogoutAll. Both exist as
// separate operations because they are exposed as distinct endpoints.
func (s *Service) RevokeAllTokens(ctx context.Context, userID int64) error {
	if err := s.ledger.RevokeAllForUser(ctx, userID); err != nil {
		return err
	}
	s.audit("user_tokens_revoked", map[string]string{
		"user_id": formatID(userID),
	})
	return nil
}
