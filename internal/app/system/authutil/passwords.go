// internal/app/system/authutil/passwords.go
package authutil

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted for a user.
const MinPasswordLength = 8

var (
	ErrPasswordEmpty    = errors.New("password is required")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordCommon   = errors.New("password is too common")
)

var commonPasswords = map[string]struct{}{
	"password":   {},
	"password1":  {},
	"12345678":   {},
	"123456789":  {},
	"qwertyuiop": {},
	"iloveyou":   {},
	"solidarity": {},
	"letmein1":   {},
}

// ValidatePassword checks a new password before it is hashed.
func ValidatePassword(pw string) error {
	if pw == "" {
		return ErrPasswordEmpty
	}
	if utf8.RuneCountInString(pw) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if _, common := commonPasswords[strings.ToLower(pw)]; common {
		return ErrPasswordCommon
	}
	return nil
}

// Hasher produces keyed password digests: bcrypt over HMAC-SHA256(pepper, pw).
// The HMAC keeps the bcrypt input under its 72-byte limit and ties stored
// hashes to the server's pepper.
type Hasher struct {
	pepper []byte
	cost   int
}

// NewHasher returns a Hasher using the given pepper and bcrypt.DefaultCost.
func NewHasher(pepper string) *Hasher {
	return &Hasher{pepper: []byte(pepper), cost: bcrypt.DefaultCost}
}

// WithCost returns a copy using a different bcrypt cost. Tests use bcrypt.MinCost.
func (h *Hasher) WithCost(cost int) *Hasher {
	return &Hasher{pepper: h.pepper, cost: cost}
}

func (h *Hasher) keyed(pw string) []byte {
	mac := hmac.New(sha256.New, h.pepper)
	mac.Write([]byte(pw))
	return []byte(hex.EncodeToString(mac.Sum(nil)))
}

// HashPassword returns the stored digest for pw.
func (h *Hasher) HashPassword(pw string) (string, error) {
	out, err := bcrypt.GenerateFromPassword(h.keyed(pw), h.cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// CheckPassword reports whether pw matches the stored digest.
func (h *Hasher) CheckPassword(hash, pw string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), h.keyed(pw)) == nil
}
