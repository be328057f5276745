package domain

import "time"

type LockerStatus string

const (
	LockerActive      LockerStatus = "active"
	LockerInactive    LockerStatus = "inactive"
	LockerMaintenance LockerStatus = "maintenance"
	LockerOccupied    LockerStatus = "occupied"
)

func IsValidLockerStatus(s string) bool {
	switch LockerStatus(s) {
	case LockerActive, LockerInactive, LockerMaintenance, LockerOccupied:
		return true
	default:
		return false
	}
}

type Locker struct {
	ID           int64
	LockerNumber string
	TerminalID   int64
	Location     string
	Status       LockerStatus
	Size         string
	Notes        string
	PurchasedBy  *int64
	PurchasedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type KeyStatus string

const (
	KeyActive      KeyStatus = "active"
	KeyDeactivated KeyStatus = "deactivated"
	KeyLost        KeyStatus = "lost"
)

func IsValidKeyStatus(s string) bool {
	switch KeyStatus(s) {
	case KeyActive, KeyDeactivated, KeyLost:
		return true
	default:
		return false
	}
}

// Key is the access credential issued when a locker is purchased.
type Key struct {
	ID         int64
	KeyCode    string
	LockerID   int64
	Status     KeyStatus
	SecretPIN  string
	ExpiryDate *time.Time
	LastUsed   *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
