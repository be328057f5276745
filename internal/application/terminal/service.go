package terminal

import (
	"context"
	"strings"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
)

type Service struct {
	terminals   TerminalRepo
	assignments AssignmentRepo
	users       UserDirectory

	audit func(action string, fields map[string]string)
}

func NewService(terminals TerminalRepo, assignments AssignmentRepo, users UserDirectory) *Service {
	return &Service{
		terminals:   terminals,
		assignments: assignments,
		users:       users,
		audit:       func(string, map[string]string) {},
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

func (s *Service) Create(ctx context.Context, terminalNumber string, status string) (domain.Terminal, error) {
	terminalNumber = strings.TrimSpace(terminalNumber)
	if terminalNumber == "" {
		return domain.Terminal{}, domain.ErrMissingField("terminal_number")
	}
	if status == "" {
		status = string(domain.TerminalActive)
	}
	if !domain.IsValidTerminalStatus(status) {
		return domain.Terminal{}, domain.ErrInvalidField("status", "unknown terminal status")
	}

	if _, err := s.terminals.GetByNumber(ctx, terminalNumber); err == nil {
		return domain.Terminal{}, domain.ErrTerminalNumberTaken()
	} else if !domain.Is(err, "terminal_not_found") {
		return domain.Terminal{}, err
	}

	t, err := s.terminals.Create(ctx, domain.Terminal{
		TerminalNumber: terminalNumber,
		Status:         domain.TerminalStatus(status),
	})
	if err != nil {
		return domain.Terminal{}, err
	}

	s.audit("terminal_created", map[string]string{"terminal_number": t.TerminalNumber})
	return t, nil
}

func (s *Service) Get(ctx context.Context, id int64) (domain.Terminal, error) {
	return s.terminals.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]domain.Terminal, error) {
	return s.terminals.List(ctx)
}

type UpdateParams struct {
	TerminalNumber *string
	Status         *string
}

func (s *Service) Update(ctx context.Context, id int64, p UpdateParams) (domain.Terminal, error) {
	t, err := s.terminals.GetByID(ctx, id)
	if err != nil {
		return domain.Terminal{}, err
	}

	if p.TerminalNumber != nil {
		number := strings.TrimSpace(*p.TerminalNumber)
		if number == "" {
			return domain.Terminal{}, domain.ErrInvalidField("terminal_number", "must not be empty")
		}
		if number != t.TerminalNumber {
			if _, err := s.terminals.GetByNumber(ctx, number); err == nil {
				return domain.Terminal{}, domain.ErrTerminalNumberTaken()
			} else if !domain.Is(err, "terminal_not_found") {
				return domain.Terminal{}, err
			}
			t.TerminalNumber = number
		}
	}
	if p.Status != nil {
		if !domain.IsValidTerminalStatus(*p.Status) {
			return domain.Terminal{}, domain.ErrInvalidField("status", "unknown terminal status")
		}
		t.Status = domain.TerminalStatus(*p.Status)
	}

	return s.terminals.Update(ctx, t)
}

// Delete removes a terminal. An actively assigned terminal must be
// unassigned first.
func (s *Service) Delete(ctx context.Context, id int64) error {
	t, err := s.terminals.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if t.AssignedUserID != nil {
		return domain.ErrTerminalAlreadyAssigned()
	}

	if err := s.terminals.Delete(ctx, id); err != nil {
		return err
	}

	s.audit("terminal_deleted", map[string]string{"terminal_number": t.TerminalNumber})
	return nil
}
