package vaultcrypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// ECB wraps a block cipher operating in electronic codebook mode: each
// block is encrypted independently of the others.
//
// ECB leaks block-level repetition and carries no integrity guarantee; it
// exists here only because the container format's v1 payload layout is
// defined in terms of it. New deployments wanting authenticated encryption
// should define a v2 payload layout instead of extending this type.
type ECB struct {
	block cipher.Block
}

// NewECB builds an ECB cipher from a 16, 24 or 32-byte key, selecting
// AES-128/192/256 accordingly.
func NewECB(key []byte) (*ECB, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new aes cipher: %w", err)
	}

	return &ECB{block: block}, nil
}

// BlockSize returns the underlying cipher's block size.
func (e *ECB) BlockSize() int {
	return e.block.BlockSize()
}

// Encrypt encrypts data block by block into a new slice. len(data) must be
// a multiple of the block size.
func (e *ECB) Encrypt(data []byte) ([]byte, error) {
	bs := e.block.BlockSize()
	if len(data)%bs != 0 {
		return nil, fmt.Errorf("ecb encrypt: input length %d is not a multiple of the block size %d", len(data), bs)
	}

	out := make([]byte, len(data))
	for i := 0; i < len(data); i += bs {
		e.block.Encrypt(out[i:i+bs], data[i:i+bs])
	}

	return out, nil
}

// Decrypt decrypts data block by block. len(data) must be a multiple of
// the block size.
func (e *ECB) Decrypt(data []byte) ([]byte, error) {
	bs := e.block.BlockSize()
	if len(data)%bs != 0 {
		return nil, fmt.Errorf("ecb decrypt: input length %d is not a multiple of the block size %d", len(data), bs)
	}

	out := make([]byte, len(data))
	for i := 0; i < len(data); i += bs {
		e.block.Decrypt(out[i:i+bs], data[i:i+bs])
	}

	return out, nil
}
