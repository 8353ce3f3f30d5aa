// Package cryptox implements password hashing for stored accounts using
// Argon2id with a per-account salt.
package cryptox

import (
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters. Changing them invalidates previously stored hashes.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// HashPassword derives a fixed-size hash from the password and the account's
// salt. The caller should wipe the password buffer when done.
func HashPassword(password []byte, salt string) []byte {
	return argon2.IDKey(password, []byte(salt), argonTime, argonMemory, argonThreads, argonKeyLen)
}

// VerifyPassword reports whether candidate hashes to the stored value under
// the same salt. The comparison is constant-time.
func VerifyPassword(hash []byte, candidate []byte, salt string) bool {
	derived := HashPassword(candidate, salt)
	return subtle.ConstantTimeCompare(hash, derived) == 1
}

// Wipe overwrites the contents of b with zeros. Useful for removing
// sensitive data such as passwords from memory after use.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
