package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
)

type TerminalRepo struct {
	db *sql.DB
}

func NewTerminalRepo(db *sql.DB) *TerminalRepo {
	return &TerminalRepo{db: db}
}

const terminalColumns = `id, terminal_number, status, assigned_user_id, created_at, updated_at`

func scanTerminal(row rowScanner) (domain.Terminal, error) {
	var t domain.Terminal
	var status string
	err := row.Scan(&t.ID, &t.TerminalNumber, &status, &t.AssignedUserID, &t.CreatedAt, &t.UpdatedAt)
	t.Status = domain.TerminalStatus(status)
	return t, err
}

func (r *TerminalRepo) Create(ctx context.Context, t domain.Terminal) (domain.Terminal, error) {
	const q = `
INSERT INTO terminals (terminal_number, status)
VALUES ($1,$2)
RETURNING ` + terminalColumns + `;
`
	out, err := scanTerminal(r.db.QueryRowContext(ctx, q, t.TerminalNumber, string(t.Status)))
	if err != nil {
		if isDuplicate(err) {
			return domain.Terminal{}, domain.ErrTerminalNumberTaken()
		}
		return domain.Terminal{}, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *TerminalRepo) GetByID(ctx context.Context, id int64) (domain.Terminal, error) {
	const q = `
SELECT ` + terminalColumns + `
FROM terminals
WHERE id = $1
LIMIT 1;
`
	t, err := scanTerminal(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Terminal{}, domain.ErrTerminalNotFound()
		}
		return domain.Terminal{}, domain.ErrDBUnavailable(err)
	}
	return t, nil
}

func (r *TerminalRepo) GetByNumber(ctx context.Context, number string) (domain.Terminal, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return domain.Terminal{}, domain.ErrMissingField("terminal_number")
	}

	const q = `
SELECT ` + terminalColumns + `
FROM terminals
WHERE terminal_number = $1
LIMIT 1;
`
	t, err := scanTerminal(r.db.QueryRowContext(ctx, q, number))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Terminal{}, domain.ErrTerminalNotFound()
		}
		return domain.Terminal{}, domain.ErrDBUnavailable(err)
	}
	return t, nil
}

func (r *TerminalRepo) List(ctx context.Context) ([]domain.Terminal, error) {
	const q = `
SELECT ` + terminalColumns + `
FROM terminals
ORDER BY id;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	var out []domain.Terminal
	for rows.Next() {
		t, err := scanTerminal(rows)
		if err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *TerminalRepo) Update(ctx context.Context, t domain.Terminal) (domain.Terminal, error) {
	const q = `
UPDATE terminals
SET terminal_number = $2, status = $3, updated_at = now()
WHERE id = $1
RETURNING ` + terminalColumns + `;
`
	out, err := scanTerminal(r.db.QueryRowContext(ctx, q, t.ID, t.TerminalNumber, string(t.Status)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Terminal{}, domain.ErrTerminalNotFound()
		}
		if isDuplicate(err) {
			return domain.Terminal{}, domain.ErrTerminalNumberTaken()
		}
		return domain.Terminal{}, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *TerminalRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM terminals WHERE id = $1;`, id)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrTerminalNotFound()
	}
	return nil
}

func (r *TerminalRepo) SetAssignedUser(ctx context.Context, terminalID int64, userID *int64) error {
	const q = `
UPDATE terminals
SET assigned_user_id = $2, updated_at = now()
WHERE id = $1;
`
	res, err := r.db.ExecContext(ctx, q, terminalID, userID)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrTerminalNotFound()
	}
	return nil
}
