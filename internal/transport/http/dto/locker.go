package dto

import (
	"strconv"
	"time"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/application/locker"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
)

type CreateLockerRequest struct {
	LockerNumber string `json:"locker_number" validate:"required,min=1,max=50"`
	Location     string `json:"location" validate:"omitempty,max=200"`
	Status       string `json:"status" validate:"omitempty,oneof=active inactive maintenance occupied"`
	Size         string `json:"size" validate:"omitempty,oneof=small medium large"`
	Notes        string `json:"notes" validate:"omitempty,max=500"`
}

func (r *CreateLockerRequest) Validate() error { return check(r) }

type CreateLockerBatchRequest struct {
	Prefix string `json:"prefix" validate:"required,min=1,max=20"`
	Count  int    `json:"count" validate:"required,gt=0,max=500"`
	Size   string `json:"size" validate:"omitempty,oneof=small medium large"`
}

func (r *CreateLockerBatchRequest) Validate() error { return check(r) }

type UpdateLockerRequest struct {
	Location *string `json:"location" validate:"omitempty,max=200"`
	Status   *string `json:"status" validate:"omitempty,oneof=active inactive maintenance occupied"`
	Size     *string `json:"size" validate:"omitempty,oneof=small medium large"`
	Notes    *string `json:"notes" validate:"omitempty,max=500"`
}

func (r *UpdateLockerRequest) Validate() error { return check(r) }

type PurchaseLockerRequest struct {
	SecretPIN  string     `json:"secret_pin" validate:"required,min=4,max=8,numeric"`
	ExpiryDate *time.Time `json:"expiry_date"`
}

func (r *PurchaseLockerRequest) Validate() error { return check(r) }

type LockerView struct {
	ID           string     `json:"id"`
	LockerNumber string     `json:"locker_number"`
	TerminalID   string     `json:"terminal_id"`
	Location     string     `json:"location,omitempty"`
	Status       string     `json:"status"`
	Size         string     `json:"size,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	PurchasedBy  *string    `json:"purchased_by,omitempty"`
	PurchasedAt  *time.Time `json:"purchased_at,omitempty"`
}

func ToLockerView(l domain.Locker) LockerView {
	v := LockerView{
		ID:           strconv.FormatInt(l.ID, 10),
		LockerNumber: l.LockerNumber,
		TerminalID:   strconv.FormatInt(l.TerminalID, 10),
		Location:     l.Location,
		Status:       string(l.Status),
		Size:         l.Size,
		Notes:        l.Notes,
		PurchasedAt:  l.PurchasedAt,
	}
	if l.PurchasedBy != nil {
		s := strconv.FormatInt(*l.PurchasedBy, 10)
		v.PurchasedBy = &s
	}
	return v
}

func ToLockerViews(ls []domain.Locker) []LockerView {
	out := make([]LockerView, 0, len(ls))
	for _, l := range ls {
		out = append(out, ToLockerView(l))
	}
	return out
}

// KeyView deliberately omits the secret PIN except in the purchase
// response, where the buyer needs it once.
type KeyView struct {
	ID         string     `json:"id"`
	KeyCode    string     `json:"key_code"`
	LockerID   string     `json:"locker_id"`
	Status     string     `json:"status"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
	LastUsed   *time.Time `json:"last_used,omitempty"`
}

func ToKeyView(k domain.Key) KeyView {
	return KeyView{
		ID:         strconv.FormatInt(k.ID, 10),
		KeyCode:    k.KeyCode,
		LockerID:   strconv.FormatInt(k.LockerID, 10),
		Status:     string(k.Status),
		ExpiryDate: k.ExpiryDate,
		LastUsed:   k.LastUsed,
	}
}

type PurchaseData struct {
	Locker LockerView `json:"locker"`
	Key    KeyView    `json:"key"`
}

func ToPurchaseData(res locker.PurchaseResult) PurchaseData {
	return PurchaseData{
		Locker: ToLockerView(res.Locker),
		Key:    ToKeyView(res.Key),
	}
}
