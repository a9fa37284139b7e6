package auth

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/ledgerly/ledgerly/internal/finerr"
)

const minPasswordLength = 8

// ValidatePassword enforces the password policy: at least 8 characters with
// an upper-case letter, a lower-case letter and a digit.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return finerr.BadRequestf("password must be at least %d characters", minPasswordLength)
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return finerr.BadRequestf("password must contain upper-case, lower-case and digit characters")
	}
	return nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a candidate password against a stored hash,
// returning ErrUnauthorized on mismatch.
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return finerr.ErrUnauthorized
	}
	return nil
}
