package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// ---------- helpers ----------

// Emails are unique and matched exactly as stored; only surrounding
// whitespace is stripped.
func trimEmail(email string) string {
	return strings.TrimSpace(email)
}

const userColumns = `id, name, email, password_hash, provider, google_id, role, avatar,
is_active, email_verified, verification_code, verification_expires, assigned_terminal_id, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUserRow(row rowScanner) (userRow, error) {
	var ur userRow
	err := row.Scan(
		&ur.ID,
		&ur.Name,
		&ur.Email,
		&ur.PasswordHash,
		&ur.Provider,
		&ur.GoogleID,
		&ur.Role,
		&ur.Avatar,
		&ur.IsActive,
		&ur.EmailVerified,
		&ur.VerificationCode,
		&ur.VerificationExpires,
		&ur.AssignedTerminalID,
		&ur.CreatedAt,
	)
	return ur, err
}

func isDuplicate(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "duplicate")
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// ---------- auth.UserRepo ----------

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	email = trimEmail(email)
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}

	const q = `
SELECT ` + userColumns + `
FROM users
WHERE email = $1
LIMIT 1;
`
	ur, err := scanUserRow(r.db.QueryRowContext(ctx, q, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	const q = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1
LIMIT 1;
`
	ur, err := scanUserRow(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	u.Email = trimEmail(u.Email)
	if u.Email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if u.Provider == domain.ProviderLocal && u.PasswordHash == "" {
		return domain.User{}, domain.ErrMissingField("password_hash")
	}
	if u.Role == "" {
		u.Role = string(domain.RoleUser)
	}

	const q = `
INSERT INTO users (name, email, password_hash, provider, google_id, role, avatar, is_active, email_verified)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
RETURNING ` + userColumns + `;
`
	ur, err := scanUserRow(r.db.QueryRowContext(ctx, q,
		u.Name, u.Email, nullStr(u.PasswordHash), string(u.Provider), nullStr(u.GoogleID),
		u.Role, nullStr(u.Avatar), u.IsActive, u.EmailVerified,
	))
	if err != nil {
		if isDuplicate(err) {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) LinkGoogle(ctx context.Context, userID int64, googleID, avatar string) error {
	const q = `
UPDATE users
SET google_id = $2, provider = 'google', avatar = $3, email_verified = TRUE
WHERE id = $1;
`
	res, err := r.db.ExecContext(ctx, q, userID, googleID, nullStr(avatar))
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

func (r *UserRepo) SetVerificationCode(ctx context.Context, userID int64, code string, expires time.Time) error {
	const q = `
UPDATE users
SET verification_code = $2, verification_expires = $3
WHERE id = $1;
`
	res, err := r.db.ExecContext(ctx, q, userID, code, expires)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

// ConsumeVerificationCode is a single conditional UPDATE, so two callers
// racing on the same code see exactly one success.
func (r *UserRepo) ConsumeVerificationCode(ctx context.Context, userID int64, code string, now time.Time) (bool, error) {
	const q = `
UPDATE users
SET email_verified = TRUE, verification_code = NULL, verification_expires = NULL
WHERE id = $1
  AND verification_code = $2
  AND verification_expires >= $3
  AND NOT email_verified;
`
	res, err := r.db.ExecContext(ctx, q, userID, code, now)
	if err != nil {
		return false, domain.ErrDBUnavailable(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, domain.ErrDBUnavailable(err)
	}
	return n == 1, nil
}

// ---------- terminal.UserDirectory ----------

func (r *UserRepo) SetRoleAndTerminal(ctx context.Context, userID int64, role string, terminalID *int64) error {
	if !domain.IsValidRole(role) {
		return domain.ErrInvalidField("role", "unknown role")
	}

	const q = `
UPDATE users
SET role = $2, assigned_terminal_id = $3
WHERE id = $1;
`
	res, err := r.db.ExecContext(ctx, q, userID, role, terminalID)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

// ---------- user.Repo ----------

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	const q = `
SELECT ` + userColumns + `
FROM users
ORDER BY id;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		ur, err := scanUserRow(rows)
		if err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, toDomainUser(ur))
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1;`, id)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}
