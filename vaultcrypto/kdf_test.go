package vaultcrypto_test

import (
	"bytes"
	"testing"

	"github.com/croqaz/private-briefcase/vaultcrypto"
)

func TestDeriveAuthCheck_IsDeterministic(t *testing.T) {
	a := vaultcrypto.DeriveAuthCheck([]byte("correct horse"))
	b := vaultcrypto.DeriveAuthCheck([]byte("correct horse"))

	if !bytes.Equal(a, b) {
		t.Fatal("DeriveAuthCheck is not deterministic for the same password")
	}

	c := vaultcrypto.DeriveAuthCheck([]byte("battery staple"))
	if bytes.Equal(a, c) {
		t.Fatal("different passwords produced the same auth check")
	}
}

func TestDeriveEncryptionKey_DependsOnSalt(t *testing.T) {
	pw := []byte("s3cret")

	salt1 := bytes.Repeat([]byte{1}, vaultcrypto.EncSaltSize)
	salt2 := bytes.Repeat([]byte{2}, vaultcrypto.EncSaltSize)

	k1 := vaultcrypto.DeriveEncryptionKey(pw, salt1)
	k2 := vaultcrypto.DeriveEncryptionKey(pw, salt2)

	if len(k1) != 32 {
		t.Fatalf("expected 32-byte key, got %d", len(k1))
	}

	if bytes.Equal(k1, k2) {
		t.Fatal("different salts produced the same key")
	}
}
