// Package namemap maps external file names to stable internal storage
// identifiers and enforces the name-legality rule shared by every
// operation that accepts a name.
package namemap

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/md4" //nolint:staticcheck // MD4 is the container format's fixed identifier digest, not a security boundary.

	"github.com/croqaz/private-briefcase/vaulterrors"
)

// illegalChars are forbidden anywhere in an entry name.
const illegalChars = `\/:*?"<>|`

// ValidateName rejects empty names and names containing any of
// \ / : * ? " < > |.
func ValidateName(name string) error {
	if len(name) == 0 {
		return vaulterrors.ErrInvalidName
	}

	if strings.ContainsAny(name, illegalChars) {
		return vaulterrors.ErrInvalidName
	}

	return nil
}

// StorageID returns the internal, namespace-hiding identifier for name:
// "t" followed by the lowercase hex MD4 digest of name. The mapping is
// deterministic and stable over an entry's life.
func StorageID(name string) string {
	return "t" + md4Hex([]byte(name))
}

// PlainHash returns the MD4 hex digest of plain, used for both dedup
// comparisons and the stored per-version hash.
func PlainHash(plain []byte) string {
	return md4Hex(plain)
}

func md4Hex(b []byte) string {
	h := md4.New()
	_, _ = h.Write(b)

	return hex.EncodeToString(h.Sum(nil))
}
