// Package codec implements the compress/encrypt and decrypt/decompress
// pipelines applied to every stored payload.
//
// Stored byte layout: encrypt(compress(plain) || pad). Decompression
// naturally stops at the deflate/bzip2 end-of-stream marker, so the
// trailing 'X' pad bytes introduced before encryption are simply never
// read back and require no explicit stripping.
package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/zlib"

	"github.com/croqaz/private-briefcase/vaultcrypto"
)

// Algorithm selects a compression codec.
type Algorithm int

const (
	// Zlib is algorithm A: zlib-compatible deflate at the highest setting.
	Zlib Algorithm = iota
	// Bzip2 is algorithm B: bzip2 at a medium setting.
	Bzip2
)

func (a Algorithm) String() string {
	if a == Bzip2 {
		return "bz2"
	}

	return "zlib"
}

// ParseAlgorithm maps a CLI/config token to an Algorithm, defaulting to
// Zlib for anything unrecognized.
func ParseAlgorithm(s string) Algorithm {
	if s == "bz2" || s == "bzip2" {
		return Bzip2
	}

	return Zlib
}

const blockSize = 16
const padByte = 'X'

// Compress compresses plain using the chosen algorithm.
func Compress(algo Algorithm, plain []byte) ([]byte, error) {
	switch algo {
	case Bzip2:
		return compressBzip2(plain)
	default:
		return compressZlib(plain)
	}
}

func compressZlib(plain []byte) ([]byte, error) {
	var buf bytes.Buffer

	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("zlib writer: %w", err)
	}

	if _, err := w.Write(plain); err != nil {
		return nil, fmt.Errorf("zlib compress: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("zlib close: %w", err)
	}

	return buf.Bytes(), nil
}

func compressBzip2(plain []byte) ([]byte, error) {
	var buf bytes.Buffer

	w, err := bzip2.NewWriter(&buf, &bzip2.WriterConfig{Level: 6})
	if err != nil {
		return nil, fmt.Errorf("bzip2 writer: %w", err)
	}

	if _, err := w.Write(plain); err != nil {
		return nil, fmt.Errorf("bzip2 compress: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("bzip2 close: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress auto-detects the compression algorithm by trying zlib, then
// bzip2.
func Decompress(data []byte) ([]byte, error) {
	if plain, err := decompressZlib(data); err == nil {
		return plain, nil
	}

	return decompressBzip2(data)
}

func decompressZlib(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zlib reader: %w", err)
	}
	defer r.Close()

	return io.ReadAll(r)
}

func decompressBzip2(data []byte) ([]byte, error) {
	r, err := bzip2.NewReader(bytes.NewReader(data), nil)
	if err != nil {
		return nil, fmt.Errorf("bzip2 reader: %w", err)
	}
	defer r.Close()

	return io.ReadAll(r)
}

// PadX right-pads data with the ASCII byte 'X' to the next 16-byte
// multiple. A full block of padding is appended when data is already
// aligned, so the padded length is always strictly greater than len(data).
func PadX(data []byte) []byte {
	pad := blockSize - len(data)%blockSize
	if pad == 0 {
		pad = blockSize
	}

	out := make([]byte, len(data)+pad)
	copy(out, data)

	for i := len(data); i < len(out); i++ {
		out[i] = padByte
	}

	return out
}

// Encrypt encrypts compressed with key using AES-ECB over the X-padded
// payload. A nil or empty key means "no effective password": the
// compressed bytes are returned verbatim.
func Encrypt(key, compressed []byte) ([]byte, error) {
	if len(key) == 0 {
		return compressed, nil
	}

	ecb, err := vaultcrypto.NewECB(key)
	if err != nil {
		return nil, err
	}

	return ecb.Encrypt(PadX(compressed))
}

// Decrypt is the inverse of Encrypt. A nil or empty key returns stored
// verbatim.
func Decrypt(key, stored []byte) ([]byte, error) {
	if len(key) == 0 {
		return stored, nil
	}

	ecb, err := vaultcrypto.NewECB(key)
	if err != nil {
		return nil, err
	}

	return ecb.Decrypt(stored)
}

// EncodePayload runs the full compress-then-encrypt pipeline.
func EncodePayload(algo Algorithm, key, plain []byte) ([]byte, error) {
	compressed, err := Compress(algo, plain)
	if err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}

	stored, err := Encrypt(key, compressed)
	if err != nil {
		return nil, fmt.Errorf("encrypt: %w", err)
	}

	return stored, nil
}

// DecodePayload runs the full decrypt-then-decompress pipeline.
func DecodePayload(key, stored []byte) ([]byte, error) {
	compressed, err := Decrypt(key, stored)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}

	plain, err := Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}

	return plain, nil
}
