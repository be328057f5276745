package locker

import (
	"context"
	"time"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
)

/*
LockerRepo
----------
Persistence port for lockers. Locker numbers are unique per terminal.
*/
type LockerRepo interface {
	Create(ctx context.Context, l domain.Locker) (domain.Locker, error)
	CreateBatch(ctx context.Context, ls []domain.Locker) ([]domain.Locker, error)
	GetByID(ctx context.Context, id int64) (domain.Locker, error)
	GetByNumber(ctx context.Context, terminalID int64, number string) (domain.Locker, error)
	ListByTerminal(ctx context.Context, terminalID int64) ([]domain.Locker, error)
	ListAvailable(ctx context.Context, terminalID int64) ([]domain.Locker, error)
	ListPurchasedBy(ctx context.Context, userID int64) ([]domain.Locker, error)
	Update(ctx context.Context, l domain.Locker) (domain.Locker, error)
	Delete(ctx context.Context, id int64) error

	// MarkPurchased stamps purchaser and time and flips the locker to
	// occupied, in one conditional write: it succeeds only while the
	// locker is still active. Returns false when a concurrent purchaser
	// won or the locker was not purchasable.
	MarkPurchased(ctx context.Context, lockerID, userID int64, at time.Time) (bool, error)
}

/*
KeyRepo
-------
Persistence port for locker access keys.
*/
type KeyRepo interface {
	Create(ctx context.Context, k domain.Key) (domain.Key, error)
	GetByCode(ctx context.Context, code string) (domain.Key, error)
	GetActiveByLocker(ctx context.Context, lockerID int64) (domain.Key, error)
	Update(ctx context.Context, k domain.Key) (domain.Key, error)
	TouchLastUsed(ctx context.Context, keyID int64, at time.Time) error
}

/*
TerminalChecker
---------------
Lets the locker workflow confirm its parent terminal exists without
depending on the whole terminal service.
*/
type TerminalChecker interface {
	GetByID(ctx context.Context, id int64) (domain.Terminal, error)
}
