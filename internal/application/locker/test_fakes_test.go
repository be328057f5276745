package locker

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
)

type fakeLockerRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]domain.Locker

	createErr error
	batchErr  error
}

func newFakeLockerRepo() *fakeLockerRepo {
	return &fakeLockerRepo{byID: map[int64]domain.Locker{}}
}

func (r *fakeLockerRepo) put(l domain.Locker) domain.Locker {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l.ID == 0 {
		r.nextID++
		l.ID = r.nextID
	} else if l.ID > r.nextID {
		r.nextID = l.ID
	}
	r.byID[l.ID] = l
	return l
}

func (r *fakeLockerRepo) get(id int64) domain.Locker {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id]
}

func (r *fakeLockerRepo) Create(ctx context.Context, l domain.Locker) (domain.Locker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return domain.Locker{}, r.createErr
	}
	for _, prev := range r.byID {
		if prev.TerminalID == l.TerminalID && prev.LockerNumber == l.LockerNumber {
			return domain.Locker{}, domain.ErrLockerNumberTaken()
		}
	}
	r.nextID++
	l.ID = r.nextID
	l.CreatedAt = time.Now()
	r.byID[l.ID] = l
	return l, nil
}

func (r *fakeLockerRepo) CreateBatch(ctx context.Context, ls []domain.Locker) ([]domain.Locker, error) {
	if r.batchErr != nil {
		return nil, r.batchErr
	}
	out := make([]domain.Locker, 0, len(ls))
	for _, l := range ls {
		created, err := r.Create(ctx, l)
		if err != nil {
			return nil, err
		}
		out = append(out, created)
	}
	return out, nil
}

func (r *fakeLockerRepo) GetByID(ctx context.Context, id int64) (domain.Locker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.byID[id]
	if !ok {
		return domain.Locker{}, domain.ErrLockerNotFound()
	}
	return l, nil
}

func (r *fakeLockerRepo) GetByNumber(ctx context.Context, terminalID int64, number string) (domain.Locker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.byID {
		if l.TerminalID == terminalID && l.LockerNumber == number {
			return l, nil
		}
	}
	return domain.Locker{}, domain.ErrLockerNotFound()
}

func (r *fakeLockerRepo) list(match func(domain.Locker) bool) []domain.Locker {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Locker
	for _, l := range r.byID {
		if match(l) {
			out = append(out, l)
		}
	}
	return out
}

func (r *fakeLockerRepo) ListByTerminal(ctx context.Context, terminalID int64) ([]domain.Locker, error) {
	return r.list(func(l domain.Locker) bool { return l.TerminalID == terminalID }), nil
}

func (r *fakeLockerRepo) ListAvailable(ctx context.Context, terminalID int64) ([]domain.Locker, error) {
	return r.list(func(l domain.Locker) bool {
		return l.TerminalID == terminalID && l.Status == domain.LockerActive
	}), nil
}

func (r *fakeLockerRepo) ListPurchasedBy(ctx context.Context, userID int64) ([]domain.Locker, error) {
	return r.list(func(l domain.Locker) bool {
		return l.PurchasedBy != nil && *l.PurchasedBy == userID
	}), nil
}

func (r *fakeLockerRepo) Update(ctx context.Context, l domain.Locker) (domain.Locker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[l.ID]; !ok {
		return domain.Locker{}, domain.ErrLockerNotFound()
	}
	l.UpdatedAt = time.Now()
	r.byID[l.ID] = l
	return l, nil
}

func (r *fakeLockerRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrLockerNotFound()
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeLockerRepo) MarkPurchased(ctx context.Context, lockerID, userID int64, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.byID[lockerID]
	if !ok || l.Status != domain.LockerActive {
		return false, nil
	}
	l.Status = domain.LockerOccupied
	l.PurchasedBy = &userID
	l.PurchasedAt = &at
	r.byID[lockerID] = l
	return true, nil
}

type fakeKeyRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]domain.Key

	createErr error
}

func newFakeKeyRepo() *fakeKeyRepo {
	return &fakeKeyRepo{byID: map[int64]domain.Key{}}
}

func (r *fakeKeyRepo) get(id int64) domain.Key {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id]
}

func (r *fakeKeyRepo) Create(ctx context.Context, k domain.Key) (domain.Key, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return domain.Key{}, r.createErr
	}
	r.nextID++
	k.ID = r.nextID
	k.CreatedAt = time.Now()
	r.byID[k.ID] = k
	return k, nil
}

func (r *fakeKeyRepo) GetByCode(ctx context.Context, code string) (domain.Key, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range r.byID {
		if strings.EqualFold(k.KeyCode, code) {
			return k, nil
		}
	}
	return domain.Key{}, domain.ErrKeyNotFound()
}

func (r *fakeKeyRepo) GetActiveByLocker(ctx context.Context, lockerID int64) (domain.Key, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range r.byID {
		if k.LockerID == lockerID && k.Status == domain.KeyActive {
			return k, nil
		}
	}
	return domain.Key{}, domain.ErrKeyNotFound()
}

func (r *fakeKeyRepo) Update(ctx context.Context, k domain.Key) (domain.Key, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[k.ID]; !ok {
		return domain.Key{}, domain.ErrKeyNotFound()
	}
	k.UpdatedAt = time.Now()
	r.byID[k.ID] = k
	return k, nil
}

func (r *fakeKeyRepo) TouchLastUsed(ctx context.Context, keyID int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k, ok := r.byID[keyID]
	if !ok {
		return domain.ErrKeyNotFound()
	}
	k.LastUsed = &at
	r.byID[keyID] = k
	return nil
}

type fakeTerminalChecker struct {
	known map[int64]bool
}

func (c *fakeTerminalChecker) GetByID(ctx context.Context, id int64) (domain.Terminal, error) {
	if !c.known[id] {
		return domain.Terminal{}, domain.ErrTerminalNotFound()
	}
	return domain.Terminal{ID: id, TerminalNumber: "T-001", Status: domain.TerminalActive}, nil
}

func newSvcForTest(t *testing.T) (*Service, *fakeLockerRepo, *fakeKeyRepo, *fakeTerminalChecker) {
	t.Helper()
	lockers := newFakeLockerRepo()
	keys := newFakeKeyRepo()
	terminals := &fakeTerminalChecker{known: map[int64]bool{1: true}}
	svc := NewService(lockers, keys, terminals)
	return svc, lockers, keys, terminals
}

func requireErrCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error code=%q, got nil", code)
	}
	if !domain.Is(err, code) {
		t.Fatalf("expected code=%q, got err=%v", code, err)
	}
}

func requireNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
