package vaultcrypto

import (
	"crypto/sha1" //nolint:gosec // required for wire-format compatibility with the PBKDF2 parameters fixed by the container format.

	"golang.org/x/crypto/pbkdf2"
)

const (
	// authSalt is the fixed salt used for the authentication-check
	// derivation. Every vault produces identical check bytes for the same
	// password; the value is never used as key material so this is
	// acceptable.
	authSalt = "briefcase"

	authIterations = 5000
	authKeyLen     = 16

	encIterations = 1000
	encKeyLen     = 32

	// EncSaltSize is the length, in bytes, of the random salt generated at
	// vault creation and used to derive the encryption key.
	EncSaltSize = 32
)

// DeriveAuthCheck derives the fixed-salt authentication check bytes for
// password. The same password always yields the same bytes, by design.
func DeriveAuthCheck(password []byte) []byte {
	return pbkdf2.Key(password, []byte(authSalt), authIterations, authKeyLen, sha1.New)
}

// DeriveEncryptionKey derives the symmetric encryption key for password
// using encSalt, the vault's random, per-container salt.
func DeriveEncryptionKey(password, encSalt []byte) []byte {
	return pbkdf2.Key(password, encSalt, encIterations, encKeyLen, sha1.New)
}
