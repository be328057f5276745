package postgres

import (
	"database/sql"
	"time"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
)

type userRow struct {
	ID                  int64
	Name                string
	Email               string
	PasswordHash        sql.NullString
	Provider            string
	GoogleID            sql.NullString
	Role                string
	Avatar              sql.NullString
	IsActive            bool
	EmailVerified       bool
	VerificationCode    sql.NullString
	VerificationExpires *time.Time
	AssignedTerminalID  *int64
	CreatedAt           time.Time
}

func toDomainUser(ur userRow) domain.User {
	return domain.User{
		ID:                  ur.ID,
		Name:                ur.Name,
		Email:               ur.Email,
		PasswordHash:        ur.PasswordHash.String,
		Provider:            domain.AuthProvider(ur.Provider),
		GoogleID:            ur.GoogleID.String,
		Role:                ur.Role,
		Avatar:              ur.Avatar.String,
		IsActive:            ur.IsActive,
		EmailVerified:       ur.EmailVerified,
		VerificationCode:    ur.VerificationCode.String,
		VerificationExpires: ur.VerificationExpires,
		AssignedTerminalID:  ur.AssignedTerminalID,
		CreatedAt:           ur.CreatedAt,
	}
}
