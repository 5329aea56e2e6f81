// Package secret generates database credentials.
//
// Passwords are drawn from alphanumerics plus a bounded punctuation set that
// excludes every character RDS rejects in a master password ('/', '@', '"',
// single quote, and space). Generation uses crypto/rand exclusively.
package secret

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits  = "0123456789"
	// punctuation deliberately omits / @ " ' and space, which the
	// database engine rejects in master passwords.
	punctuation = "!#$%&()*+,-.:;<=>?[]^_{|}~"

	charset = letters + digits + punctuation

	// MinLength is the shortest password GeneratePassword will produce.
	// RDS requires at least 8 characters for PostgreSQL.
	MinLength = 8

	// DefaultLength matches the length the provisioning script generated.
	DefaultLength = 20
)

// GeneratePassword returns a random password of the given length. It fails
// rather than silently truncating or padding.
func GeneratePassword(length int) (string, error) {
	if length < MinLength {
		return "", fmt.Errorf("password length %d below minimum %d", length, MinLength)
	}

	max := big.NewInt(int64(len(charset)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		buf[i] = charset[n.Int64()]
	}
	return string(buf), nil
}

// Valid reports whether a pre-supplied password satisfies the same
// constraints a generated one would: minimum length and no characters the
// database engine rejects.
func Valid(password string) error {
	if len(password) < MinLength {
		return fmt.Errorf("password length %d below minimum %d", len(password), MinLength)
	}
	for _, r := range password {
		switch {
		case r == '/' || r == '@' || r == '"' || r == '\'' || r == ' ':
			return fmt.Errorf("password contains character %q which the database engine rejects", r)
		case r < '!' || r > '~':
			return fmt.Errorf("password contains non-printable or non-ASCII character %q", r)
		}
	}
	return nil
}
