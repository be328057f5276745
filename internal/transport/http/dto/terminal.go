package dto

import (
	"strconv"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
)

type CreateTerminalRequest struct {
	TerminalNumber string `json:"terminal_number" validate:"required,min=1,max=50"`
	Status         string `json:"status" validate:"omitempty,oneof=active inactive maintenance"`
}

func (r *CreateTerminalRequest) Validate() error { return check(r) }

type UpdateTerminalRequest struct {
	TerminalNumber *string `json:"terminal_number" validate:"omitempty,min=1,max=50"`
	Status         *string `json:"status" validate:"omitempty,oneof=active inactive maintenance"`
}

func (r *UpdateTerminalRequest) Validate() error { return check(r) }

type AssignTerminalRequest struct {
	UserID         int64  `json:"user_id" validate:"required,gt=0"`
	ShopName       string `json:"shop_name" validate:"required,min=1,max=200"`
	StreetAddress  string `json:"street_address" validate:"omitempty,max=300"`
	PostalCode     string `json:"postal_code" validate:"omitempty,max=20"`
	StateRegion    string `json:"state_region" validate:"omitempty,max=100"`
	Email          string `json:"email" validate:"omitempty,email"`
	PhoneNumber    string `json:"phone_number" validate:"omitempty,max=30"`
	GPSCoordinates string `json:"gps_coordinates" validate:"omitempty,max=60"`
	MACAddress     string `json:"mac_address" validate:"required,mac"`
}

func (r *AssignTerminalRequest) Validate() error { return check(r) }

type TerminalView struct {
	ID             string  `json:"id"`
	TerminalNumber string  `json:"terminal_number"`
	Status         string  `json:"status"`
	AssignedUserID *string `json:"assigned_user_id,omitempty"`
}

func ToTerminalView(t domain.Terminal) TerminalView {
	v := TerminalView{
		ID:             strconv.FormatInt(t.ID, 10),
		TerminalNumber: t.TerminalNumber,
		Status:         string(t.Status),
	}
	if t.AssignedUserID != nil {
		s := strconv.FormatInt(*t.AssignedUserID, 10)
		v.AssignedUserID = &s
	}
	return v
}

func ToTerminalViews(ts []domain.Terminal) []TerminalView {
	out := make([]TerminalView, 0, len(ts))
	for _, t := range ts {
		out = append(out, ToTerminalView(t))
	}
	return out
}

type AssignmentView struct {
	ID             string `json:"id"`
	TerminalID     string `json:"terminal_id"`
	UserID         string `json:"user_id"`
	ShopName       string `json:"shop_name"`
	StreetAddress  string `json:"street_address,omitempty"`
	PostalCode     string `json:"postal_code,omitempty"`
	StateRegion    string `json:"state_region,omitempty"`
	Email          string `json:"email,omitempty"`
	PhoneNumber    string `json:"phone_number,omitempty"`
	GPSCoordinates string `json:"gps_coordinates,omitempty"`
	MACAddress     string `json:"mac_address"`
	IsActive       bool   `json:"is_active"`
}

func ToAssignmentView(a domain.TerminalAssignment) AssignmentView {
	return AssignmentView{
		ID:             strconv.FormatInt(a.ID, 10),
		TerminalID:     strconv.FormatInt(a.TerminalID, 10),
		UserID:         strconv.FormatInt(a.UserID, 10),
		ShopName:       a.ShopName,
		StreetAddress:  a.StreetAddress,
		PostalCode:     a.PostalCode,
		StateRegion:    a.StateRegion,
		Email:          a.Email,
		PhoneNumber:    a.PhoneNumber,
		GPSCoordinates: a.GPSCoordinates,
		MACAddress:     a.MACAddress,
		IsActive:       a.IsActive,
	}
}

func ToAssignmentViews(as []domain.TerminalAssignment) []AssignmentView {
	out := make([]AssignmentView, 0, len(as))
	for _, a := range as {
		out = append(out, ToAssignmentView(a))
	}
	return out
}
