package vaultcrypto_test

import (
	"bytes"
	"testing"

	"github.com/croqaz/private-briefcase/vaultcrypto"
)

func TestECB_RoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x2a}, 32)

	ecb, err := vaultcrypto.NewECB(key)
	if err != nil {
		t.Fatalf("NewECB: %v", err)
	}

	plain := bytes.Repeat([]byte{0}, 64)

	cipherText, err := ecb.Encrypt(plain)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	if bytes.Equal(cipherText, plain) {
		t.Fatal("ciphertext equals plaintext")
	}

	got, err := ecb.Decrypt(cipherText)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}

	if !bytes.Equal(got, plain) {
		t.Fatalf("round trip mismatch: got %x, want %x", got, plain)
	}
}

func TestECB_RejectsUnalignedInput(t *testing.T) {
	ecb, err := vaultcrypto.NewECB(bytes.Repeat([]byte{1}, 16))
	if err != nil {
		t.Fatalf("NewECB: %v", err)
	}

	if _, err := ecb.Encrypt(make([]byte, 15)); err == nil {
		t.Fatal("expected error for unaligned input")
	}
}

func TestECB_IdenticalBlocksEncryptIdentically(t *testing.T) {
	ecb, err := vaultcrypto.NewECB(bytes.Repeat([]byte{7}, 16))
	if err != nil {
		t.Fatalf("NewECB: %v", err)
	}

	block := bytes.Repeat([]byte{9}, 16)
	plain := append(append([]byte{}, block...), block...)

	out, err := ecb.Encrypt(plain)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	if !bytes.Equal(out[:16], out[16:]) {
		t.Fatal("ECB should encrypt identical plaintext blocks identically")
	}
}
