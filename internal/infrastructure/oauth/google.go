// Package oauth resolves external identity-provider tokens to profiles.
package oauth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/application/auth"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
)

const userinfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// GoogleClient resolves a Google OAuth access token at the userinfo
// endpoint. The client-side OAuth flow (redirects, PKCE) lives in the
// mobile app; the backend only ever sees the resulting access token.
type GoogleClient struct {
	endpoint   string
	httpClient *http.Client
}

func NewGoogleClient() *GoogleClient {
	return &GoogleClient{
		endpoint: userinfoURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WithEndpoint overrides the userinfo URL; used in tests.
func (c *GoogleClient) WithEndpoint(url string) *GoogleClient {
	c.endpoint = url
	return c
}

type userInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (c *GoogleClient) Resolve(ctx context.Context, accessToken string) (auth.ExternalProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return auth.ExternalProfile{}, domain.ErrInternal(err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return auth.ExternalProfile{}, domain.ErrExternalTokenInvalid()
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return auth.ExternalProfile{}, domain.ErrExternalTokenInvalid()
	}
	if resp.StatusCode != http.StatusOK {
		return auth.ExternalProfile{}, domain.ErrExternalTokenInvalid()
	}

	var info userInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return auth.ExternalProfile{}, domain.ErrExternalTokenInvalid()
	}
	if info.Sub == "" || info.Email == "" {
		return auth.ExternalProfile{}, domain.ErrExternalTokenInvalid()
	}

	return auth.ExternalProfile{
		ID:        info.Sub,
		Email:     info.Email,
		Name:      info.Name,
		AvatarURL: info.Picture,
	}, nil
}
