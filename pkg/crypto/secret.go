package crypto

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// bcryptPrefix is the tag every bcrypt hash starts with ($2a$, $2b$, $2y$)
const bcryptPrefix = "$2"

// HashSecret hashes a card secret (CVV, ATM PIN) for the legacy
// verify-only storage path. Values stored this way can never be
// revealed again, only compared.
func HashSecret(value string) (string, error) {
	if value == "" {
		return "", fmt.Errorf("cannot hash empty secret")
	}
	bytes, err := bcryptGenerateFromPassword([]byte(value), SecretCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash secret: %w", err)
	}
	return string(bytes), nil
}

// CompareSecret compares a candidate value with a hashed secret
func CompareSecret(candidate, hash string) bool {
	if candidate == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) == nil
}

// NeedsHashing reports whether a stored field value still needs to be
// hashed. Prevents double-hashing when a profile is re-saved.
func NeedsHashing(value string) bool {
	if value == "" {
		return false
	}
	return !strings.HasPrefix(value, bcryptPrefix)
}

// IsLegacyHash reports whether a stored field value is a bcrypt hash
func IsLegacyHash(value string) bool {
	return strings.HasPrefix(value, bcryptPrefix)
}
