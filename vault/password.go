package vault

// PasswordMode is the three-variant replacement for the source's
// overloaded password argument, where an empty value meant "none" and the
// sentinel integer 1 meant "use the vault's default password".
type PasswordMode int

const (
	// PasswordNone disables encryption for the entry entirely.
	PasswordNone PasswordMode = iota
	// PasswordDefault encrypts with the vault-wide password.
	PasswordDefault
	// PasswordLiteral encrypts with an explicit, entry-specific password.
	PasswordLiteral
)

// Password is the resolved form of an AddFile/ExportFile password
// argument.
type Password struct {
	mode    PasswordMode
	literal []byte
}

// NoPassword disables encryption for the operation.
func NoPassword() Password { return Password{mode: PasswordNone} }

// DefaultPassword selects the vault's own password.
func DefaultPassword() Password { return Password{mode: PasswordDefault} }

// LiteralPassword selects an explicit per-file password. An empty slice is
// equivalent to NoPassword.
func LiteralPassword(p []byte) Password {
	if len(p) == 0 {
		return NoPassword()
	}

	return Password{mode: PasswordLiteral, literal: p}
}
