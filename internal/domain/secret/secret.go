// Package secret generates and persists installer credentials with
// owner-only access.
package secret

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

// Well-known credential purposes.
const (
	PurposeAdminPassword  = "admin-password"
	PurposeDBRootPassword = "mariadb-root-password"
)

// Character classes for generated values.
const (
	CharsetAlnum = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	CharsetHex   = "0123456789abcdef"
)

// DefaultLength is the generated credential length.
const DefaultLength = 24

// ErrNotFound indicates no persisted value exists for a purpose.
var ErrNotFound = errors.New("secret not found")

// Secret is a credential tied to a named purpose. Values are never
// logged.
type Secret struct {
	Purpose   string
	Value     string
	Generated bool
}

// Generate produces a random value of the given length over charset.
// It fails only if the system random source is unavailable.
func Generate(purpose string, length int, charset string) (Secret, error) {
	if length <= 0 {
		length = DefaultLength
	}
	if charset == "" {
		charset = CharsetAlnum
	}

	max := big.NewInt(int64(len(charset)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return Secret{}, fmt.Errorf("random source unavailable: %w", err)
		}
		buf[i] = charset[n.Int64()]
	}

	return Secret{Purpose: purpose, Value: string(buf), Generated: true}, nil
}
