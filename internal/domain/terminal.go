package domain

import "time"

type TerminalStatus string

const (
	TerminalActive      TerminalStatus = "active"
	TerminalInactive    TerminalStatus = "inactive"
	TerminalMaintenance TerminalStatus = "maintenance"
)

func IsValidTerminalStatus(s string) bool {
	switch TerminalStatus(s) {
	case TerminalActive, TerminalInactive, TerminalMaintenance:
		return true
	default:
		return false
	}
}

// Terminal is a physical kiosk that lockers attach to.
type Terminal struct {
	ID             int64
	TerminalNumber string
	Status         TerminalStatus
	AssignedUserID *int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TerminalAssignment records the business details of handing a terminal to a
// shop owner. One active assignment per terminal and per MAC address.
type TerminalAssignment struct {
	ID             int64
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
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
