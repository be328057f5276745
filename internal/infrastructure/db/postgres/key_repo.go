package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
)

type KeyRepo struct {
	db *sql.DB
}

func NewKeyRepo(db *sql.DB) *KeyRepo {
	return &KeyRepo{db: db}
}

const keyColumns = `id, key_code, locker_id, status, secret_pin, expiry_date, last_used, created_at, updated_at`

func scanKey(row rowScanner) (domain.Key, error) {
	var k domain.Key
	var status string
	err := row.Scan(
		&k.ID, &k.KeyCode, &k.LockerID, &status, &k.SecretPIN,
		&k.ExpiryDate, &k.LastUsed, &k.CreatedAt, &k.UpdatedAt,
	)
	k.Status = domain.KeyStatus(status)
	return k, err
}

func (r *KeyRepo) Create(ctx context.Context, k domain.Key) (domain.Key, error) {
	const q = `
INSERT INTO keys (key_code, locker_id, status, secret_pin, expiry_date)
VALUES ($1,$2,$3,$4,$5)
RETURNING ` + keyColumns + `;
`
	out, err := scanKey(r.db.QueryRowContext(ctx, q,
		k.KeyCode, k.LockerID, string(k.Status), k.SecretPIN, k.ExpiryDate,
	))
	if err != nil {
		return domain.Key{}, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *KeyRepo) GetByCode(ctx context.Context, code string) (domain.Key, error) {
	const q = `
SELECT ` + keyColumns + `
FROM keys
WHERE key_code = $1
LIMIT 1;
`
	k, err := scanKey(r.db.QueryRowContext(ctx, q, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Key{}, domain.ErrKeyNotFound()
		}
		return domain.Key{}, domain.ErrDBUnavailable(err)
	}
	return k, nil
}

func (r *KeyRepo) GetActiveByLocker(ctx context.Context, lockerID int64) (domain.Key, error) {
	const q = `
SELECT ` + keyColumns + `
FROM keys
WHERE locker_id = $1
  AND status = 'active'
LIMIT 1;
`
	k, err := scanKey(r.db.QueryRowContext(ctx, q, lockerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Key{}, domain.ErrKeyNotFound()
		}
		return domain.Key{}, domain.ErrDBUnavailable(err)
	}
	return k, nil
}

func (r *KeyRepo) Update(ctx context.Context, k domain.Key) (domain.Key, error) {
	const q = `
UPDATE keys
SET status = $2, secret_pin = $3, expiry_date = $4, updated_at = now()
WHERE id = $1
RETURNING ` + keyColumns + `;
`
	out, err := scanKey(r.db.QueryRowContext(ctx, q, k.ID, string(k.Status), k.SecretPIN, k.ExpiryDate))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Key{}, domain.ErrKeyNotFound()
		}
		return domain.Key{}, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *KeyRepo) TouchLastUsed(ctx context.Context, keyID int64, at time.Time) error {
	const q = `
UPDATE keys
SET last_used = $2, updated_at = now()
WHERE id = $1;
`
	if _, err := r.db.ExecContext(ctx, q, keyID, at); err != nil {
		return domain.ErrDBUnavailable(err)
	}
	return nil
}
