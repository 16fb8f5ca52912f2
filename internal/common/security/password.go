package security

import (
	"crypto/subtle"
	"encoding/hex"

	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"
)

// argon2id parameters. Fixed so that stored digests stay verifiable across
// releases.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// NewSalt returns a fresh random salt. Every user gets their own, so two
// users sharing a password never share a digest.
func NewSalt() string {
	return uuid.NewString()
}

// HashPassword derives the stored digest for a password and per-user salt.
// Same inputs always produce the same digest.
func HashPassword(password, salt string) string {
	key := argon2.IDKey([]byte(password), []byte(salt), argonTime, argonMemory, argonThreads, argonKeyLen)
	return hex.EncodeToString(key)
}

// VerifyPassword recomputes the digest and compares it in constant time.
func VerifyPassword(password, salt, digest string) bool {
	computed := HashPassword(password, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1
}
