package terminal

import (
	"context"
	"strconv"
	"strings"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
)

// AssignParams carries the business details recorded when a terminal is
// handed over to a shop owner.
type AssignParams struct {
	TerminalID     int64
	UserID         int64
	ShopName       string
	StreetAddress  string
	PostalCode     string
	StateRegion    string
	Email          string
	PhoneNumber    string
	GPSCoordinates string
	MACAddress     string
}

// Assign links a terminal to a user. The user becomes a pup_admin and the
// terminal is recorded on their account; one active assignment per
// terminal, per user, and per MAC address.
func (s *Service) Assign(ctx context.Context, p AssignParams) (domain.TerminalAssignment, error) {
	p.ShopName = strings.TrimSpace(p.ShopName)
	p.MACAddress = strings.ToUpper(strings.TrimSpace(p.MACAddress))
	if p.ShopName == "" {
		return domain.TerminalAssignment{}, domain.ErrMissingField("shop_name")
	}
	if p.MACAddress == "" {
		return domain.TerminalAssignment{}, domain.ErrMissingField("mac_address")
	}

	t, err := s.terminals.GetByID(ctx, p.TerminalID)
	if err != nil {
		return domain.TerminalAssignment{}, err
	}
	if t.AssignedUserID != nil {
		return domain.TerminalAssignment{}, domain.ErrTerminalAlreadyAssigned()
	}

	u, err := s.users.GetByID(ctx, p.UserID)
	if err != nil {
		return domain.TerminalAssignment{}, err
	}
	if u.AssignedTerminalID != nil {
		return domain.TerminalAssignment{}, domain.ErrUserAlreadyAssigned()
	}

	if _, err := s.assignments.GetActiveByMAC(ctx, p.MACAddress); err == nil {
		return domain.TerminalAssignment{}, domain.ErrMACAddressInUse()
	} else if !domain.Is(err, "assignment_not_found") {
		return domain.TerminalAssignment{}, err
	}

	a, err := s.assignments.Create(ctx, domain.TerminalAssignment{
		TerminalID:     t.ID,
		UserID:         u.ID,
		ShopName:       p.ShopName,
		StreetAddress:  p.StreetAddress,
		PostalCode:     p.PostalCode,
		StateRegion:    p.StateRegion,
		Email:          p.Email,
		PhoneNumber:    p.PhoneNumber,
		GPSCoordinates: p.GPSCoordinates,
		MACAddress:     p.MACAddress,
		IsActive:       true,
	})
	if err != nil {
		return domain.TerminalAssignment{}, err
	}

	if err := s.terminals.SetAssignedUser(ctx, t.ID, &u.ID); err != nil {
		return domain.TerminalAssignment{}, err
	}
	// Admins keep their role; everyone else is promoted to shop owner.
	role := u.Role
	if role != string(domain.RoleAdmin) {
		role = string(domain.RolePupAdmin)
	}
	if err := s.users.SetRoleAndTerminal(ctx, u.ID, role, &t.ID); err != nil {
		return domain.TerminalAssignment{}, err
	}

	s.audit("terminal_assigned", map[string]string{
		"terminal_id": strconv.FormatInt(t.ID, 10),
		"user_id":     strconv.FormatInt(u.ID, 10),
	})
	return a, nil
}

// Unassign deactivates the active assignment of a terminal and reverts the
// owner's role to plain user.
func (s *Service) Unassign(ctx context.Context, terminalID int64) error {
	t, err := s.terminals.GetByID(ctx, terminalID)
	if err != nil {
		return err
	}
	if t.AssignedUserID == nil {
		return domain.ErrTerminalNotAssigned()
	}
	ownerID := *t.AssignedUserID

	if err := s.assignments.Deactivate(ctx, terminalID); err != nil {
		return err
	}
	if err := s.terminals.SetAssignedUser(ctx, terminalID, nil); err != nil {
		return err
	}

	u, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return err
	}
	role := u.Role
	if role == string(domain.RolePupAdmin) {
		role = string(domain.RoleUser)
	}
	if err := s.users.SetRoleAndTerminal(ctx, ownerID, role, nil); err != nil {
		return err
	}

	s.audit("terminal_unassigned", map[string]string{
		"terminal_id": strconv.FormatInt(terminalID, 10),
		"user_id":     strconv.FormatInt(ownerID, 10),
	})
	return nil
}

func (s *Service) AssignmentByTerminal(ctx context.Context, terminalID int64) (domain.TerminalAssignment, error) {
	return s.assignments.GetActiveByTerminal(ctx, terminalID)
}

func (s *Service) AssignmentByUser(ctx context.Context, userID int64) (domain.TerminalAssignment, error) {
	return s.assignments.GetActiveByUser(ctx, userID)
}

func (s *Service) ListAssignments(ctx context.Context) ([]domain.TerminalAssignment, error) {
	return s.assignments.ListActive(ctx)
}
