package domain

import "time"

// AuthProvider identifies which authentication method owns an account.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "local"
	ProviderGoogle AuthProvider = "google"
)

type User struct {
	ID            int64
	Name          string
	Email         string
	PasswordHash  string // empty for externally-provisioned accounts
	Provider      AuthProvider
	GoogleID      string
	Role          string
	Avatar        string
	IsActive      bool
	EmailVerified bool

	// Live verification code, if any. Single-use; cleared on success.
	VerificationCode    string
	VerificationExpires *time.Time

	// Reserved for the password reset flow.
	PasswordResetToken   string
	PasswordResetExpires *time.Time

	AssignedTerminalID *int64
	CreatedAt          time.Time
}

// HasLiveVerificationCode reports whether an unconsumed code exists,
// regardless of expiry.
func (u User) HasLiveVerificationCode() bool {
	return u.VerificationCode != "" && u.VerificationExpires != nil
}
