package auth

import (
	"context"
	"time"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
)

/*
UserRepo
--------
Persistence port for user accounts and their embedded verification state.
Only describes WHAT the auth service needs, not HOW it's stored.
*/
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)

	// LinkGoogle attaches an external identity to an existing account:
	// google id + avatar set, provider switched, email forced verified.
	LinkGoogle(ctx context.Context, userID int64, googleID, avatar string) error

	// SetVerificationCode overwrites any prior unconsumed code.
	SetVerificationCode(ctx context.Context, userID int64, code string, expires time.Time) error

	// ConsumeVerificationCode marks the email verified and clears the code,
	// in one conditional write: it succeeds only if the stored code matches,
	// has not expired at now, and the email is not yet verified. Returns
	// false when the condition did not hold (wrong code, expired, or a
	// concurrent consumer won).
	ConsumeVerificationCode(ctx context.Context, userID int64, code string, now time.Time) (bool, error)
}

/*
PasswordHasher
--------------
Abstracts bcrypt / argon2.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error // nil if match
}

/*
TokenSigner
-----------
Signs and verifies JWTs. Access and refresh tokens use distinct secret
material; the typ claim keeps them from being confused at verification
time even so.
*/
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

type TokenClaims struct {
	UserID int64
	Email  string
	Role   string
	Type   TokenType
	Exp    time.Time
}

type TokenSigner interface {
	Sign(userID int64, email, role string, typ TokenType, ttl time.Duration) (string, error)
	Verify(token string, typ TokenType) (TokenClaims, error)
}

/*
RefreshTokenLedger
------------------
Server-side record of every issued refresh token. The ledger is
authoritative for revocation; the token's own exp claim is authoritative
for signature-level expiry. Consumers check both.
*/
type RefreshTokenLedger interface {
	// Issue persists an active record for a freshly signed token.
	Issue(ctx context.Context, token string, userID int64, expiresAt time.Time) error

	// Get returns the record for a token regardless of its state.
	Get(ctx context.Context, token string) (domain.RefreshToken, error)

	// ConsumeActive atomically marks a non-revoked, non-expired record
	// revoked and returns its owner. Of two concurrent calls for the same
	// token at most one succeeds; the loser gets ErrRefreshTokenInvalid.
	ConsumeActive(ctx context.Context, token string, now time.Time) (userID int64, err error)

	// Revoke marks one record revoked; no-op if the token is unknown.
	Revoke(ctx context.Context, token string) error

	// RevokeAllForUser marks every non-revoked record owned by the user
	// as revoked; idempotent.
	RevokeAllForUser(ctx context.Context, userID int64) error
}

/*
EmailDispatcher
---------------
Publishes email events; the email worker consumes them and talks SMTP.
The auth service never sends mail directly.
*/
type EmailDispatcher interface {
	PublishVerificationCode(ctx context.Context, evt VerificationCodeEvent) error
	PublishWelcome(ctx context.Context, evt WelcomeEvent) error
}

type VerificationCodeEvent struct {
	UserID    int64
	Email     string
	Name      string
	Code      string
	ExpiresAt time.Time
}

type WelcomeEvent struct {
	Email string
	Name  string
}

/*
IdentityResolver
----------------
Resolves a foreign (Google) access token to a profile.
*/
type ExternalProfile struct {
	ID        string // provider's subject id
	Email     string
	Name      string
	AvatarURL string
}

type IdentityResolver interface {
	Resolve(ctx context.Context, accessToken string) (ExternalProfile, error)
}
