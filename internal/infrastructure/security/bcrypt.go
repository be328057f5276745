package security

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
)

// BcryptHasher hashes local-account passwords. Google-linked accounts
// carry no password hash and never go through it.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher treats a non-positive cost as "use the library
// default", so an unset BCRYPT_COST stays safe.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", domain.ErrHashFailed(err)
	}
	return string(b), nil
}

// Compare returns the raw bcrypt error; the sign-in use case folds any
// mismatch into the uniform invalid-credentials message.
func (h *BcryptHasher) Compare(hash string, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
