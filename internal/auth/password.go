/**
 * @description
 * Password hashing helpers. Credentials are stored as bcrypt hashes. Rows
 * predating the hashing rollout hold plaintext; VerifyPassword recognizes those
 * and reports that the row should be upgraded, which the login flow does in
 * place on the first successful match. This is a one-time migration rule, not
 * an ongoing dual format.
 *
 * @dependencies
 * - golang.org/x/crypto/bcrypt: Password hashing.
 */

package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword produces a bcrypt hash of the password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// isBcryptHash reports whether the stored credential is already hashed.
func isBcryptHash(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$")
}

// VerifyPassword checks a presented password against the stored credential.
// needsUpgrade is true when the match succeeded against a legacy plaintext row
// that should be rewritten as a hash.
func VerifyPassword(stored, presented string) (ok bool, needsUpgrade bool) {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(presented)) == nil, false
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1 {
		return true, true
	}
	return false, false
}
