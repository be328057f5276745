package domain

import (
	"errors"
	"fmt"
)

// ErrKind is used to map domain errors to HTTP status codes consistently.
type ErrKind string

const (
	KindValidation     ErrKind = "validation"     // 400
	KindAuth           ErrKind = "auth"           // 401
	KindForbidden      ErrKind = "forbidden"      // 403
	KindNotFound       ErrKind = "not_found"      // 404
	KindConflict       ErrKind = "conflict"       // 409
	KindRateLimited    ErrKind = "rate_limited"   // 429
	KindInfrastructure ErrKind = "infrastructure" // 503
	KindInternal       ErrKind = "internal"       // 500
)

// Error is a structured domain error.
// - Kind: high-level category for HTTP mapping
// - Code: stable machine code (do not change casually)
// - Message: safe summary for clients (avoid leaking sensitive details)
// - Meta: optional details (field, reason, etc.)
// - Cause: wrapped internal error for logging/diagnostics
type Error struct {
	Kind    ErrKind
	Code    string
	Message string
	Meta    map[string]string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Kind, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind ErrKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func Wrap(kind ErrKind, code, msg string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Cause: cause}
}

func WithMeta(err *Error, meta map[string]string) *Error {
	err.Meta = meta
	return err
}

func Is(err error, code string) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// ----------------------
// Validation errors (400)
// ----------------------

func ErrInvalidJSON(cause error) *Error {
	return Wrap(KindValidation, "invalid_json", "invalid JSON body", cause)
}

func ErrMissingField(field string) *Error {
	return WithMeta(New(KindValidation, "missing_field", "missing required field"), map[string]string{
		"field": field,
	})
}

func ErrInvalidField(field, reason string) *Error {
	return WithMeta(New(KindValidation, "invalid_field", "invalid field"), map[string]string{
		"field":  field,
		"reason": reason,
	})
}

// Verification-code operations report whether the account exists;
// sign-in does not. The kiosk client relies on this for its resend screen.
func ErrVerificationUserUnknown() *Error {
	return New(KindValidation, "verification_user_unknown", "no account found for this email")
}

func ErrAlreadyVerified() *Error {
	return New(KindValidation, "already_verified", "email is already verified")
}

func ErrVerificationCodeInvalid() *Error {
	return New(KindValidation, "verification_code_invalid", "invalid or expired verification code")
}

// ----------------------
// Auth errors (401)
// ----------------------

// IMPORTANT: use this for sign-in failures to avoid user enumeration.
func ErrInvalidCredentials() *Error {
	return New(KindAuth, "invalid_credentials", "invalid email or password")
}

func ErrEmailNotVerified() *Error {
	return New(KindAuth, "email_not_verified", "please verify your email before signing in")
}

func ErrAccountDeactivated() *Error {
	return New(KindAuth, "account_deactivated", "account is deactivated")
}

func ErrWrongSignInMethod() *Error {
	return New(KindAuth, "wrong_signin_method", "please use the correct sign-in method")
}

func ErrTokenMissing() *Error {
	return New(KindAuth, "token_missing", "no token provided")
}

func ErrTokenInvalid() *Error {
	return New(KindAuth, "token_invalid", "invalid token")
}

func ErrTokenExpired() *Error {
	return New(KindAuth, "token_expired", "token is expired")
}

func ErrRefreshTokenInvalid() *Error {
	return New(KindAuth, "refresh_token_invalid", "invalid or expired refresh token")
}

func ErrExternalTokenInvalid() *Error {
	return New(KindAuth, "external_token_invalid", "invalid token")
}

// ----------------------
// Forbidden (403)
// ----------------------

func ErrForbidden() *Error {
	return New(KindForbidden, "forbidden", "forbidden")
}

func ErrInsufficientRole(required string) *Error {
	return WithMeta(New(KindForbidden, "insufficient_role", "insufficient role"), map[string]string{
		"required": required,
	})
}

// ----------------------
// Not Found (404)
// ----------------------

func ErrUserNotFound() *Error {
	return New(KindNotFound, "user_not_found", "user not found")
}

func ErrTerminalNotFound() *Error {
	return New(KindNotFound, "terminal_not_found", "terminal not found")
}

func ErrLockerNotFound() *Error {
	return New(KindNotFound, "locker_not_found", "locker not found")
}

func ErrKeyNotFound() *Error {
	return New(KindNotFound, "key_not_found", "key not found")
}

func ErrAssignmentNotFound() *Error {
	return New(KindNotFound, "assignment_not_found", "no active assignment found")
}

// ----------------------
// Conflict (409)
// ----------------------

func ErrEmailAlreadyExists() *Error {
	return New(KindConflict, "email_already_exists", "user with this email already exists")
}

func ErrTerminalNumberTaken() *Error {
	return New(KindConflict, "terminal_number_taken", "terminal with this number already exists")
}

func ErrTerminalAlreadyAssigned() *Error {
	return New(KindConflict, "terminal_already_assigned", "terminal is already assigned to another user")
}

func ErrUserAlreadyAssigned() *Error {
	return New(KindConflict, "user_already_assigned", "user already has a terminal assigned")
}

func ErrMACAddressInUse() *Error {
	return New(KindConflict, "mac_address_in_use", "MAC address is already in use by another terminal assignment")
}

func ErrLockerNumberTaken() *Error {
	return New(KindConflict, "locker_number_taken", "locker with this number already exists")
}

func ErrLockerOccupied() *Error {
	return New(KindConflict, "locker_occupied", "locker is already occupied")
}

func ErrLockerHasKey() *Error {
	return New(KindConflict, "locker_has_key", "locker already has a key")
}

func ErrTerminalNotAssigned() *Error {
	return New(KindConflict, "terminal_not_assigned", "terminal is not assigned to any user")
}

// ----------------------
// Rate limit (429)
// ----------------------

func ErrRateLimited(scope string) *Error {
	return WithMeta(New(KindRateLimited, "rate_limited", "too many requests"), map[string]string{
		"scope": scope,
	})
}

// ----------------------
// Infrastructure / internal (5xx)
// ----------------------

func ErrDBUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, "db_unavailable", "database unavailable", cause)
}

func ErrDispatchFailed(cause error) *Error {
	return Wrap(KindInfrastructure, "email_dispatch_failed", "could not dispatch email", cause)
}

func ErrHashFailed(cause error) *Error {
	return Wrap(KindInternal, "hash_failed", "password hashing failed", cause)
}

func ErrTokenSignFailed(cause error) *Error {
	return Wrap(KindInternal, "token_sign_failed", "token signing failed", cause)
}

func ErrRandomFailed(cause error) *Error {
	return Wrap(KindInternal, "random_failed", "random generation failed", cause)
}

func ErrInternal(cause error) *Error {
	return Wrap(KindInternal, "internal_error", "internal error", cause)
}
