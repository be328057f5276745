package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
)

type AssignmentRepo struct {
	db *sql.DB
}

func NewAssignmentRepo(db *sql.DB) *AssignmentRepo {
	return &AssignmentRepo{db: db}
}

const assignmentColumns = `id, terminal_id, user_id, shop_name, street_address, postal_code,
state_region, email, phone_number, gps_coordinates, mac_address, is_active, created_at, updated_at`

func scanAssignment(row rowScanner) (domain.TerminalAssignment, error) {
	var a domain.TerminalAssignment
	err := row.Scan(
		&a.ID, &a.TerminalID, &a.UserID, &a.ShopName, &a.StreetAddress, &a.PostalCode,
		&a.StateRegion, &a.Email, &a.PhoneNumber, &a.GPSCoordinates, &a.MACAddress,
		&a.IsActive, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

func (r *AssignmentRepo) Create(ctx context.Context, a domain.TerminalAssignment) (domain.TerminalAssignment, error) {
	const q = `
INSERT INTO terminal_assignments
  (terminal_id, user_id, shop_name, street_address, postal_code, state_region,
   email, phone_number, gps_coordinates, mac_address, is_active)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
RETURNING ` + assignmentColumns + `;
`
	out, err := scanAssignment(r.db.QueryRowContext(ctx, q,
		a.TerminalID, a.UserID, a.ShopName, a.StreetAddress, a.PostalCode, a.StateRegion,
		a.Email, a.PhoneNumber, a.GPSCoordinates, a.MACAddress, a.IsActive,
	))
	if err != nil {
		if isDuplicate(err) {
			return domain.TerminalAssignment{}, domain.ErrMACAddressInUse()
		}
		return domain.TerminalAssignment{}, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *AssignmentRepo) getActive(ctx context.Context, where string, arg any) (domain.TerminalAssignment, error) {
	q := `
SELECT ` + assignmentColumns + `
FROM terminal_assignments
WHERE ` + where + ` AND is_active
LIMIT 1;
`
	a, err := scanAssignment(r.db.QueryRowContext(ctx, q, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.TerminalAssignment{}, domain.ErrAssignmentNotFound()
		}
		return domain.TerminalAssignment{}, domain.ErrDBUnavailable(err)
	}
	return a, nil
}

func (r *AssignmentRepo) GetActiveByTerminal(ctx context.Context, terminalID int64) (domain.TerminalAssignment, error) {
	return r.getActive(ctx, "terminal_id = $1", terminalID)
}

func (r *AssignmentRepo) GetActiveByUser(ctx context.Context, userID int64) (domain.TerminalAssignment, error) {
	return r.getActive(ctx, "user_id = $1", userID)
}

func (r *AssignmentRepo) GetActiveByMAC(ctx context.Context, mac string) (domain.TerminalAssignment, error) {
	return r.getActive(ctx, "mac_address = $1", mac)
}

func (r *AssignmentRepo) ListActive(ctx context.Context) ([]domain.TerminalAssignment, error) {
	const q = `
SELECT ` + assignmentColumns + `
FROM terminal_assignments
WHERE is_active
ORDER BY id;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	var out []domain.TerminalAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *AssignmentRepo) Deactivate(ctx context.Context, terminalID int64) error {
	const q = `
UPDATE terminal_assignments
SET is_active = FALSE, updated_at = now()
WHERE terminal_id = $1
  AND is_active;
`
	res, err := r.db.ExecContext(ctx, q, terminalID)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrAssignmentNotFound()
	}
	return nil
}
