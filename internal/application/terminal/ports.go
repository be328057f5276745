package terminal

import (
	"context"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
)

/*
TerminalRepo
------------
Persistence port for kiosk terminals.
*/
type TerminalRepo interface {
	Create(ctx context.Context, t domain.Terminal) (domain.Terminal, error)
	GetByID(ctx context.Context, id int64) (domain.Terminal, error)
	GetByNumber(ctx context.Context, number string) (domain.Terminal, error)
	List(ctx context.Context) ([]domain.Terminal, error)
	Update(ctx context.Context, t domain.Terminal) (domain.Terminal, error)
	Delete(ctx context.Context, id int64) error

	// SetAssignedUser writes the denormalized owner pointer; nil clears it.
	SetAssignedUser(ctx context.Context, terminalID int64, userID *int64) error
}

/*
AssignmentRepo
--------------
Persistence port for terminal-to-shop-owner assignments. Uniqueness of the
MAC address and of the (terminal, active) pair is enforced here.
*/
type AssignmentRepo interface {
	Create(ctx context.Context, a domain.TerminalAssignment) (domain.TerminalAssignment, error)
	GetActiveByTerminal(ctx context.Context, terminalID int64) (domain.TerminalAssignment, error)
	GetActiveByUser(ctx context.Context, userID int64) (domain.TerminalAssignment, error)
	GetActiveByMAC(ctx context.Context, mac string) (domain.TerminalAssignment, error)
	ListActive(ctx context.Context) ([]domain.TerminalAssignment, error)

	// Deactivate flips the active assignment for a terminal to inactive.
	Deactivate(ctx context.Context, terminalID int64) error
}

/*
UserDirectory
-------------
The slice of the user store the terminal workflow needs: loading candidates
and writing the role / assigned-terminal transition that an assignment
implies. Role changes flow only through here.
*/
type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (domain.User, error)

	// SetRoleAndTerminal updates role and assigned_terminal_id together.
	// terminalID nil clears the link (unassignment).
	SetRoleAndTerminal(ctx context.Context, userID int64, role string, terminalID *int64) error
}
