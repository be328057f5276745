package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
)

type LockerRepo struct {
	db *sql.DB
}

func NewLockerRepo(db *sql.DB) *LockerRepo {
	return &LockerRepo{db: db}
}

const lockerColumns = `id, locker_number, terminal_id, location, status, size, notes,
purchased_by, purchased_at, created_at, updated_at`

func scanLocker(row rowScanner) (domain.Locker, error) {
	var l domain.Locker
	var status string
	var location, size, notes sql.NullString
	err := row.Scan(
		&l.ID, &l.LockerNumber, &l.TerminalID, &location, &status, &size, &notes,
		&l.PurchasedBy, &l.PurchasedAt, &l.CreatedAt, &l.UpdatedAt,
	)
	l.Status = domain.LockerStatus(status)
	l.Location = location.String
	l.Size = size.String
	l.Notes = notes.String
	return l, err
}

func (r *LockerRepo) Create(ctx context.Context, l domain.Locker) (domain.Locker, error) {
	const q = `
INSERT INTO lockers (locker_number, terminal_id, location, status, size, notes)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING ` + lockerColumns + `;
`
	out, err := scanLocker(r.db.QueryRowContext(ctx, q,
		l.LockerNumber, l.TerminalID, nullStr(l.Location), string(l.Status), nullStr(l.Size), nullStr(l.Notes),
	))
	if err != nil {
		if isDuplicate(err) {
			return domain.Locker{}, domain.ErrLockerNumberTaken()
		}
		return domain.Locker{}, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

// CreateBatch inserts all lockers in one transaction; a duplicate number
// anywhere in the batch rolls the whole batch back.
func (r *LockerRepo) CreateBatch(ctx context.Context, ls []domain.Locker) ([]domain.Locker, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer tx.Rollback()

	const q = `
INSERT INTO lockers (locker_number, terminal_id, location, status, size, notes)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING ` + lockerColumns + `;
`
	out := make([]domain.Locker, 0, len(ls))
	for _, l := range ls {
		created, err := scanLocker(tx.QueryRowContext(ctx, q,
			l.LockerNumber, l.TerminalID, nullStr(l.Location), string(l.Status), nullStr(l.Size), nullStr(l.Notes),
		))
		if err != nil {
			if isDuplicate(err) {
				return nil, domain.ErrLockerNumberTaken()
			}
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, created)
	}

	if err := tx.Commit(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *LockerRepo) GetByID(ctx context.Context, id int64) (domain.Locker, error) {
	const q = `
SELECT ` + lockerColumns + `
FROM lockers
WHERE id = $1
LIMIT 1;
`
	l, err := scanLocker(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Locker{}, domain.ErrLockerNotFound()
		}
		return domain.Locker{}, domain.ErrDBUnavailable(err)
	}
	return l, nil
}

func (r *LockerRepo) GetByNumber(ctx context.Context, terminalID int64, number string) (domain.Locker, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return domain.Locker{}, domain.ErrMissingField("locker_number")
	}

	const q = `
SELECT ` + lockerColumns + `
FROM lockers
WHERE terminal_id = $1 AND locker_number = $2
LIMIT 1;
`
	l, err := scanLocker(r.db.QueryRowContext(ctx, q, terminalID, number))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Locker{}, domain.ErrLockerNotFound()
		}
		return domain.Locker{}, domain.ErrDBUnavailable(err)
	}
	return l, nil
}

func (r *LockerRepo) list(ctx context.Context, where string, args ...any) ([]domain.Locker, error) {
	q := `
SELECT ` + lockerColumns + `
FROM lockers
WHERE ` + where + `
ORDER BY id;
`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	var out []domain.Locker
	for rows.Next() {
		l, err := scanLocker(rows)
		if err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *LockerRepo) ListByTerminal(ctx context.Context, terminalID int64) ([]domain.Locker, error) {
	return r.list(ctx, "terminal_id = $1", terminalID)
}

func (r *LockerRepo) ListAvailable(ctx context.Context, terminalID int64) ([]domain.Locker, error) {
	return r.list(ctx, "terminal_id = $1 AND status = 'active'", terminalID)
}

func (r *LockerRepo) ListPurchasedBy(ctx context.Context, userID int64) ([]domain.Locker, error) {
	return r.list(ctx, "purchased_by = $1", userID)
}

func (r *LockerRepo) Update(ctx context.Context, l domain.Locker) (domain.Locker, error) {
	const q = `
UPDATE lockers
SET location = $2, status = $3, size = $4, notes = $5,
    purchased_by = $6, purchased_at = $7, updated_at = now()
WHERE id = $1
RETURNING ` + lockerColumns + `;
`
	out, err := scanLocker(r.db.QueryRowContext(ctx, q,
		l.ID, nullStr(l.Location), string(l.Status), nullStr(l.Size), nullStr(l.Notes),
		l.PurchasedBy, l.PurchasedAt,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Locker{}, domain.ErrLockerNotFound()
		}
		return domain.Locker{}, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *LockerRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM lockers WHERE id = $1;`, id)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrLockerNotFound()
	}
	return nil
}

// MarkPurchased flips an active locker to occupied in one conditional
// write; concurrent buyers of the same locker get exactly one success.
func (r *LockerRepo) MarkPurchased(ctx context.Context, lockerID, userID int64, at time.Time) (bool, error) {
	const q = `
UPDATE lockers
SET status = 'occupied', purchased_by = $2, purchased_at = $3, updated_at = now()
WHERE id = $1
  AND status = 'active';
`
	res, err := r.db.ExecContext(ctx, q, lockerID, userID, at)
	if err != nil {
		return false, domain.ErrDBUnavailable(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, domain.ErrDBUnavailable(err)
	}
	return n == 1, nil
}
