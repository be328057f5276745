package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
)

// RefreshTokenLedger is an in-memory ledger used by the HTTP-level tests.
// Behavior mirrors the Postgres ledger, including single-winner semantics
// for concurrent ConsumeActive calls on the same token.
type RefreshTokenLedger struct {
	mu     sync.Mutex
	tokens map[string]domain.RefreshToken
}

func NewRefreshTokenLedger() *RefreshTokenLedger {
	return &RefreshTokenLedger{tokens: make(map[string]domain.RefreshToken)}
}

func (l *RefreshTokenLedger) Issue(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	if token == "" {
		return domain.ErrMissingField("token")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.tokens[token] = domain.RefreshToken{
		ID:        uuid.NewString(),
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	return nil
}

func (l *RefreshTokenLedger) Get(ctx context.Context, token string) (domain.RefreshToken, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rt, ok := l.tokens[token]
	if !ok {
		return domain.RefreshToken{}, domain.ErrRefreshTokenInvalid()
	}
	return rt, nil
}

func (l *RefreshTokenLedger) ConsumeActive(ctx context.Context, token string, now time.Time) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rt, ok := l.tokens[token]
	if !ok || !rt.Usable(now) {
		return 0, domain.ErrRefreshTokenInvalid()
	}
	rt.IsRevoked = true
	l.tokens[token] = rt
	return rt.UserID, nil
}

func (l *RefreshTokenLedger) Revoke(ctx context.Context, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if rt, ok := l.tokens[token]; ok {
		rt.IsRevoked = true
		l.tokens[token] = rt
	}
	return nil
}

func (l *RefreshTokenLedger) RevokeAllForUser(ctx context.Context, userID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for tok, rt := range l.tokens {
		if rt.UserID == userID && !rt.IsRevoked {
			rt.IsRevoked = true
			l.tokens[tok] = rt
		}
	}
	return nil
}
