// Package credential derives and verifies salted password credentials.
//
// A credential pair is a 16-byte random salt plus a PBKDF2-HMAC-SHA256 digest
// of the password (600,000 iterations, 32-byte key), both hex-encoded for
// storage. The iteration count and salt length are fixed: changing either
// breaks verification of previously stored pairs.
package credential

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 16
	keySize    = 32
	iterations = 600_000
)

// Derive produces a fresh credential pair for password. Each call draws a new
// salt, so deriving the same password twice yields different pairs. The empty
// password is a legal input.
func Derive(password string) (saltHex, hashHex string, err error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", "", err
	}
	digest := pbkdf2.Key([]byte(password), salt, iterations, keySize, sha256.New)
	return hex.EncodeToString(salt), hex.EncodeToString(digest), nil
}

// Verify reports whether candidate re-derives to hashHex under saltHex. A
// malformed salt or hash (bad hex, wrong length) is a verification failure,
// not an error. The digest comparison is constant-time.
func Verify(saltHex, hashHex, candidate string) bool {
	salt, err := hex.DecodeString(saltHex)
	if err != nil || len(salt) != saltSize {
		return false
	}
	expected, err := hex.DecodeString(hashHex)
	if err != nil || len(expected) != keySize {
		return false
	}
	digest := pbkdf2.Key([]byte(candidate), salt, iterations, keySize, sha256.New)
	return subtle.ConstantTimeCompare(digest, expected) == 1
}
