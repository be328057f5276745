package auth

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"
	"time"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
)

type Service struct {
	users    UserRepo
	hasher   PasswordHasher
	signer   TokenSigner
	ledger   RefreshTokenLedger
	mail     EmailDispatcher
	resolver IdentityResolver

	accessTTL  time.Duration
	refreshTTL time.Duration
	codeTTL    time.Duration

	// strictEmail controls whether a failed verification-mail dispatch
	// fails the calling flow (signup/resend). Welcome mail failures are
	// always swallowed.
	strictEmail bool

	audit func(action string, fields map[string]string)
}

type Config struct {
	AccessTTL           time.Duration
	RefreshTTL          time.Duration
	VerificationCodeTTL time.Duration
	StrictEmail         bool
}

func NewService(
	users UserRepo,
	hasher PasswordHasher,
	signer TokenSigner,
	ledger RefreshTokenLedger,
	mail EmailDispatcher,
	resolver IdentityResolver,
	cfg Config,
) *Service {
	accessTTL := cfg.AccessTTL
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	refreshTTL := cfg.RefreshTTL
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	codeTTL := cfg.VerificationCodeTTL
	if codeTTL <= 0 {
		codeTTL = 10 * time.Minute
	}
	return &Service{
		users:    users,
		hasher:   hasher,
		signer:   signer,
		ledger:   ledger,
		mail:     mail,
		resolver: resolver,

		accessTTL:   accessTTL,
		refreshTTL:  refreshTTL,
		codeTTL:     codeTTL,
		strictEmail: cfg.StrictEmail,

		audit: func(string, map[string]string) {},
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

// AuthTokens is the common token output for handlers/DTO mapping.
type AuthTokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64  // seconds, for the access token
	TokenType    string // "Bearer"
}

// AuthResult pairs tokens with the sanitized user they belong to.
type AuthResult struct {
	User   domain.User
	Tokens AuthTokens
}

// issueTokens signs an access + refresh pair and records the refresh half
// in the ledger. Signing and ledger persistence are one logical unit: if
// the ledger write fails the whole issuance fails and no pair is returned.
func (s *Service) issueTokens(ctx context.Context, u domain.User) (AuthTokens, error) {
	access, err := s.signer.Sign(u.ID, u.Email, u.Role, TokenAccess, s.accessTTL)
	if err != nil {
		return AuthTokens{}, domain.ErrTokenSignFailed(err)
	}

	refresh, err := s.signer.Sign(u.ID, u.Email, u.Role, TokenRefresh, s.refreshTTL)
	if err != nil {
		return AuthTokens{}, domain.ErrTokenSignFailed(err)
	}

	if err := s.ledger.Issue(ctx, refresh, u.ID, time.Now().Add(s.refreshTTL)); err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

// GetUserByID loads a user for the /me projection.
func (s *Service) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func formatID(id int64) string { return strconv.FormatInt(id, 10) }

// newVerificationCode returns a uniformly random 6-digit code in
// [100000, 999999].
func newVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
