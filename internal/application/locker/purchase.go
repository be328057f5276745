package locker

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
)

// PurchaseResult pairs the occupied locker with its freshly issued key.
type PurchaseResult struct {
	Locker domain.Locker
	Key    domain.Key
}

// Purchase marks an active locker as occupied by the buyer and issues an
// access key. The occupancy flip is a conditional write, so of two
// concurrent purchases for the same locker at most one succeeds.
func (s *Service) Purchase(ctx context.Context, lockerID, userID int64, secretPIN string, expiry *time.Time) (PurchaseResult, error) {
	secretPIN = strings.TrimSpace(secretPIN)
	if secretPIN == "" {
		return PurchaseResult{}, domain.ErrMissingField("secret_pin")
	}
	if len(secretPIN) < 4 || len(secretPIN) > 8 {
		return PurchaseResult{}, domain.ErrInvalidField("secret_pin", "must be 4 to 8 digits")
	}
	for _, r := range secretPIN {
		if r < '0' || r > '9' {
			return PurchaseResult{}, domain.ErrInvalidField("secret_pin", "must be 4 to 8 digits")
		}
	}

	l, err := s.lockers.GetByID(ctx, lockerID)
	if err != nil {
		return PurchaseResult{}, err
	}
	if l.Status != domain.LockerActive {
		return PurchaseResult{}, domain.ErrLockerOccupied()
	}

	now := time.Now()
	ok, err := s.lockers.MarkPurchased(ctx, lockerID, userID, now)
	if err != nil {
		return PurchaseResult{}, err
	}
	if !ok {
		return PurchaseResult{}, domain.ErrLockerOccupied()
	}

	k, err := s.keys.Create(ctx, domain.Key{
		KeyCode:    newKeyCode(),
		LockerID:   lockerID,
		Status:     domain.KeyActive,
		SecretPIN:  secretPIN,
		ExpiryDate: expiry,
	})
	if err != nil {
		// The occupancy flip already landed; free the locker again so it
		// is not stranded occupied with no key. l still holds the
		// pre-purchase row.
		if _, revErr := s.lockers.Update(ctx, l); revErr != nil {
			s.audit("locker_purchase_revert_failed", map[string]string{
				"locker_id": strconv.FormatInt(lockerID, 10),
				"error":     revErr.Error(),
			})
		}
		return PurchaseResult{}, err
	}

	l.Status = domain.LockerOccupied
	l.PurchasedBy = &userID
	l.PurchasedAt = &now

	s.audit("locker_purchased", map[string]string{
		"locker_id": strconv.FormatInt(lockerID, 10),
		"user_id":   strconv.FormatInt(userID, 10),
		"key_code":  k.KeyCode,
	})
	return PurchaseResult{Locker: l, Key: k}, nil
}

// KeyByCode looks a key up and stamps its last-used time.
func (s *Service) KeyByCode(ctx context.Context, code string) (domain.Key, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return domain.Key{}, domain.ErrMissingField("key_code")
	}

	k, err := s.keys.GetByCode(ctx, code)
	if err != nil {
		return domain.Key{}, err
	}
	now := time.Now()
	if err := s.keys.TouchLastUsed(ctx, k.ID, now); err != nil {
		return domain.Key{}, err
	}
	k.LastUsed = &now
	return k, nil
}

// DeactivateKey retires a key and frees its locker for resale.
func (s *Service) DeactivateKey(ctx context.Context, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	k, err := s.keys.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if k.Status != domain.KeyActive {
		return nil
	}

	k.Status = domain.KeyDeactivated
	if _, err := s.keys.Update(ctx, k); err != nil {
		return err
	}

	l, err := s.lockers.GetByID(ctx, k.LockerID)
	if err != nil {
		return err
	}
	l.Status = domain.LockerActive
	l.PurchasedBy = nil
	l.PurchasedAt = nil
	if _, err := s.lockers.Update(ctx, l); err != nil {
		return err
	}

	s.audit("key_deactivated", map[string]string{"key_code": k.KeyCode})
	return nil
}
