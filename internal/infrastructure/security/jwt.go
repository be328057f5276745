package security

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/application/auth"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
)

// JWTSigner signs and verifies HS256 tokens. Access and refresh tokens
// use separate secrets, so a leaked access secret never validates a
// refresh token or the other way round. The typ claim is checked on top
// of that.
type JWTSigner struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
}

func NewJWTSigner(accessSecret, refreshSecret, issuer string) *JWTSigner {
	return &JWTSigner{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		issuer:        issuer,
	}
}

type tokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Type  string `json:"typ"`
	jwt.RegisteredClaims
}

func (s *JWTSigner) secretFor(typ auth.TokenType) []byte {
	if typ == auth.TokenRefresh {
		return s.refreshSecret
	}
	return s.accessSecret
}

func (s *JWTSigner) Sign(userID int64, email, role string, typ auth.TokenType, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Email: email,
		Role:  role,
		Type:  string(typ),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.secretFor(typ))
	if err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}
	return signed, nil
}

func (s *JWTSigner) Verify(token string, typ auth.TokenType) (auth.TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		// prevent alg confusion
		if t.Method != jwt.SigningMethodHS256 {
			return nil, domain.ErrTokenInvalid()
		}
		return s.secretFor(typ), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return auth.TokenClaims{}, domain.ErrTokenExpired()
		}
		return auth.TokenClaims{}, domain.ErrTokenInvalid()
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return auth.TokenClaims{}, domain.ErrTokenInvalid()
	}
	if claims.Type != string(typ) {
		return auth.TokenClaims{}, domain.ErrTokenInvalid()
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return auth.TokenClaims{}, domain.ErrTokenInvalid()
	}

	exp := time.Time{}
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}

	return auth.TokenClaims{
		UserID: userID,
		Email:  claims.Email,
		Role:   claims.Role,
		Type:   auth.TokenType(claims.Type),
		Exp:    exp,
	}, nil
}
