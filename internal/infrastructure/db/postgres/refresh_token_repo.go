package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
)

// RefreshTokenRepo is the server-side ledger of issued refresh tokens.
type RefreshTokenRepo struct {
	db *sql.DB
}

func NewRefreshTokenRepo(db *sql.DB) *RefreshTokenRepo {
	return &RefreshTokenRepo{db: db}
}

func (r *RefreshTokenRepo) Issue(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	if token == "" {
		return domain.ErrMissingField("token")
	}

	const q = `
INSERT INTO refresh_tokens (id, token, user_id, expires_at)
VALUES ($1,$2,$3,$4);
`
	if _, err := r.db.ExecContext(ctx, q, uuid.NewString(), token, userID, expiresAt); err != nil {
		return domain.ErrDBUnavailable(err)
	}
	return nil
}

func (r *RefreshTokenRepo) Get(ctx context.Context, token string) (domain.RefreshToken, error) {
	const q = `
SELECT id, token, user_id, expires_at, is_revoked, created_at
FROM refresh_tokens
WHERE token = $1
LIMIT 1;
`
	var rt domain.RefreshToken
	err := r.db.QueryRowContext(ctx, q, token).Scan(
		&rt.ID, &rt.Token, &rt.UserID, &rt.ExpiresAt, &rt.IsRevoked, &rt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.RefreshToken{}, domain.ErrRefreshTokenInvalid()
		}
		return domain.RefreshToken{}, domain.ErrDBUnavailable(err)
	}
	return rt, nil
}

// ConsumeActive revokes in the same statement that checks usability, so
// concurrent rotations of one token resolve to a single winner in the
// database rather than in application code.
func (r *RefreshTokenRepo) ConsumeActive(ctx context.Context, token string, now time.Time) (int64, error) {
	const q = `
UPDATE refresh_tokens
SET is_revoked = TRUE
WHERE token = $1
  AND NOT is_revoked
  AND expires_at > $2
RETURNING user_id;
`
	var userID int64
	err := r.db.QueryRowContext(ctx, q, token, now).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrRefreshTokenInvalid()
		}
		return 0, domain.ErrDBUnavailable(err)
	}
	return userID, nil
}

func (r *RefreshTokenRepo) Revoke(ctx context.Context, token string) error {
	const q = `
UPDATE refresh_tokens
SET is_revoked = TRUE
WHERE token = $1;
`
	if _, err := r.db.ExecContext(ctx, q, token); err != nil {
		return domain.ErrDBUnavailable(err)
	}
	return nil
}

func (r *RefreshTokenRepo) RevokeAllForUser(ctx context.Context, userID int64) error {
	const q = `
UPDATE refresh_tokens
SET is_revoked = TRUE
WHERE user_id = $1
  AND NOT is_revoked;
`
	if _, err := r.db.ExecContext(ctx, q, userID); err != nil {
		return domain.ErrDBUnavailable(err)
	}
	return nil
}

// PurgeExpired removes rows whose expiry is strictly past; used by the
// startup sweep.
func (r *RefreshTokenRepo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= $1;`, now)
	if err != nil {
		return 0, domain.ErrDBUnavailable(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, domain.ErrDBUnavailable(err)
	}
	return n, nil
}
