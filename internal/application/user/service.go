// Package user exposes the read/admin surface over accounts that the auth
// workflow does not own: listing, lookup and removal.
package user

import (
	"context"
	"strconv"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
)

type Repo interface {
	GetByID(ctx context.Context, id int64) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	users Repo
	audit func(action string, fields map[string]string)
}

func NewService(users Repo) *Service {
	return &Service{
		users: users,
		audit: func(string, map[string]string) {},
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

func (s *Service) Get(ctx context.Context, id int64) (domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// Delete removes an account. A user holding an active terminal assignment
// must be unassigned first.
func (s *Service) Delete(ctx context.Context, id int64) error {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u.AssignedTerminalID != nil {
		return domain.ErrUserAlreadyAssigned()
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.audit("user_deleted", map[string]string{"user_id": strconv.FormatInt(id, 10)})
	return nil
}
