package locker

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
)

type Service struct {
	lockers   LockerRepo
	keys      KeyRepo
	terminals TerminalChecker

	audit func(action string, fields map[string]string)
}

func NewService(lockers LockerRepo, keys KeyRepo, terminals TerminalChecker) *Service {
	return &Service{
		lockers:   lockers,
		keys:      keys,
		terminals: terminals,
		audit:     func(string, map[string]string) {},
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

type CreateParams struct {
	TerminalID   int64
	LockerNumber string
	Location     string
	Status       string
	Size         string
	Notes        string
}

func (s *Service) Create(ctx context.Context, p CreateParams) (domain.Locker, error) {
	p.LockerNumber = strings.TrimSpace(p.LockerNumber)
	if p.LockerNumber == "" {
		return domain.Locker{}, domain.ErrMissingField("locker_number")
	}
	if p.Status == "" {
		p.Status = string(domain.LockerActive)
	}
	if !domain.IsValidLockerStatus(p.Status) {
		return domain.Locker{}, domain.ErrInvalidField("status", "unknown locker status")
	}

	if _, err := s.terminals.GetByID(ctx, p.TerminalID); err != nil {
		return domain.Locker{}, err
	}
	if _, err := s.lockers.GetByNumber(ctx, p.TerminalID, p.LockerNumber); err == nil {
		return domain.Locker{}, domain.ErrLockerNumberTaken()
	} else if !domain.Is(err, "locker_not_found") {
		return domain.Locker{}, err
	}

	l, err := s.lockers.Create(ctx, domain.Locker{
		LockerNumber: p.LockerNumber,
		TerminalID:   p.TerminalID,
		Location:     p.Location,
		Status:       domain.LockerStatus(p.Status),
		Size:         p.Size,
		Notes:        p.Notes,
	})
	if err != nil {
		return domain.Locker{}, err
	}

	s.audit("locker_created", map[string]string{
		"locker_number": l.LockerNumber,
		"terminal_id":   strconv.FormatInt(l.TerminalID, 10),
	})
	return l, nil
}

// CreateBatch provisions count lockers under a terminal, numbering them
// prefix-1 through prefix-count.
func (s *Service) CreateBatch(ctx context.Context, terminalID int64, prefix string, count int, size string) ([]domain.Locker, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, domain.ErrMissingField("prefix")
	}
	if count < 1 || count > 500 {
		return nil, domain.ErrInvalidField("count", "must be between 1 and 500")
	}
	if _, err := s.terminals.GetByID(ctx, terminalID); err != nil {
		return nil, err
	}

	batch := make([]domain.Locker, 0, count)
	for i := 1; i <= count; i++ {
		batch = append(batch, domain.Locker{
			LockerNumber: fmt.Sprintf("%s-%d", prefix, i),
			TerminalID:   terminalID,
			Status:       domain.LockerActive,
			Size:         size,
		})
	}

	created, err := s.lockers.CreateBatch(ctx, batch)
	if err != nil {
		return nil, err
	}

	s.audit("lockers_batch_created", map[string]string{
		"terminal_id": strconv.FormatInt(terminalID, 10),
		"count":       strconv.Itoa(len(created)),
	})
	return created, nil
}

func (s *Service) Get(ctx context.Context, id int64) (domain.Locker, error) {
	return s.lockers.GetByID(ctx, id)
}

func (s *Service) ListByTerminal(ctx context.Context, terminalID int64) ([]domain.Locker, error) {
	return s.lockers.ListByTerminal(ctx, terminalID)
}

func (s *Service) ListAvailable(ctx context.Context, terminalID int64) ([]domain.Locker, error) {
	return s.lockers.ListAvailable(ctx, terminalID)
}

func (s *Service) ListPurchasedBy(ctx context.Context, userID int64) ([]domain.Locker, error) {
	return s.lockers.ListPurchasedBy(ctx, userID)
}

type UpdateParams struct {
	Location *string
	Status   *string
	Size     *string
	Notes    *string
}

func (s *Service) Update(ctx context.Context, id int64, p UpdateParams) (domain.Locker, error) {
	l, err := s.lockers.GetByID(ctx, id)
	if err != nil {
		return domain.Locker{}, err
	}

	if p.Status != nil {
		if !domain.IsValidLockerStatus(*p.Status) {
			return domain.Locker{}, domain.ErrInvalidField("status", "unknown locker status")
		}
		l.Status = domain.LockerStatus(*p.Status)
	}
	if p.Location != nil {
		l.Location = *p.Location
	}
	if p.Size != nil {
		l.Size = *p.Size
	}
	if p.Notes != nil {
		l.Notes = *p.Notes
	}

	return s.lockers.Update(ctx, l)
}

// Delete removes a locker. A locker with an active key must have the key
// deactivated first.
func (s *Service) Delete(ctx context.Context, id int64) error {
	l, err := s.lockers.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.keys.GetActiveByLocker(ctx, id); err == nil {
		return domain.ErrLockerHasKey()
	} else if !domain.Is(err, "key_not_found") {
		return err
	}

	if err := s.lockers.Delete(ctx, id); err != nil {
		return err
	}

	s.audit("locker_deleted", map[string]string{"locker_number": l.LockerNumber})
	return nil
}

// newKeyCode builds a human-readable key code from the first 8 hex chars
// of a uuid, uppercased: KEY-3F2A910C.
func newKeyCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "KEY-" + strings.ToUpper(raw[:8])
}
