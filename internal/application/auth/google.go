package auth

import (
	"context"
	"strings"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
)

// ExchangeGoogleToken resolves a Google access token to a profile and signs
// the user in, provisioning or upgrading the account as needed. Email is
// the sole cross-provider identity key: an existing local account with the
// same email is upgraded in place (google id attached, provider switched,
// email forced verified) instead of creating a duplicate.
func (s *Service) ExchangeGoogleToken(ctx context.Context, accessToken string) (AuthResult, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return AuthResult{}, domain.ErrExternalTokenInvalid()
	}

	profile, err := s.resolver.Resolve(ctx, accessToken)
	if err != nil {
		return AuthResult{}, domain.ErrExternalTokenInvalid()
	}

	u, err := s.users.GetByEmail(ctx, profile.Email)
	switch {
	case err == nil:
		if !u.IsActive {
			return AuthResult{}, domain.ErrAccountDeactivated()
		}
		if u.GoogleID == "" {
			if err := s.users.LinkGoogle(ctx, u.ID, profile.ID, profile.AvatarURL); err != nil {
				return AuthResult{}, err
			}
			u.GoogleID = profile.ID
			u.Provider = domain.ProviderGoogle
			u.Avatar = profile.AvatarURL
			u.EmailVerified = true

			s.audit("google_identity_linked", map[string]string{
				"user_id": formatID(u.ID),
			})
		}

	case domain.Is(err, "user_not_found"):
		// Externally-provisioned accounts are trusted pre-verified.
		u, err = s.users.Create(ctx, domain.User{
			Name:          profile.Name,
			Email:         profile.Email,
			Provider:      domain.ProviderGoogle,
			GoogleID:      profile.ID,
			Avatar:        profile.AvatarURL,
			Role:          string(domain.RoleUser),
			IsActive:      true,
			EmailVerified: true,
		})
		if err != nil {
			return AuthResult{}, err
		}

		s.audit("google_user_created", map[string]string{
			"user_id": formatID(u.ID),
			"email":   u.Email,
		})

	default:
		return AuthResult{}, err
	}

	toks, err := s.issueTokens(ctx, u)
	if err != nil {
		return AuthResult{}, err
	}

	return AuthResult{User: u, Tokens: toks}, nil
}
