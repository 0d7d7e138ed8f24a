// Package vaulterrors defines the sentinel error values returned by the
// engine and understood by the CLI's error dispatcher.
package vaulterrors

import "errors"

var (
	// ErrWrongPassword is returned by Open when the supplied password does
	// not reproduce the vault's stored authentication check.
	ErrWrongPassword = errors.New("incorrect vault password")

	// ErrWrongPerFilePassword is returned when an entry's per-file
	// authentication check disagrees with the supplied password.
	ErrWrongPerFilePassword = errors.New("incorrect per-file password")

	// ErrNotFound is returned for a missing source file or an unknown entry.
	ErrNotFound = errors.New("not found")

	// ErrExists is returned when a rename or copy target name is already taken.
	ErrExists = errors.New("already exists")

	// ErrInvalidName is returned when a name contains a disallowed character
	// or is empty.
	ErrInvalidName = errors.New("invalid name")

	// ErrInvalidQuery is returned when a sort key or filter expression is
	// not in the permitted whitelist.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrIdentical is returned when AddFile's plaintext hash equals the
	// latest version's hash; the add is suppressed.
	ErrIdentical = errors.New("identical to latest version")

	// ErrNotVersionable is returned when versionable=false and the entry
	// already exists.
	ErrNotVersionable = errors.New("entry is not versionable")

	// ErrBadArgument flags malformed caller input, e.g. a missing
	// destination path while execute is disabled.
	ErrBadArgument = errors.New("bad argument")

	// ErrIO wraps backing-store or temp filesystem failures.
	ErrIO = errors.New("i/o failure")

	// ErrVaultFileExists is a CLI-layer guard used by the create command.
	ErrVaultFileExists = errors.New("vault file already exists")

	// ErrVaultFileNotFound is a CLI-layer guard for commands requiring an
	// existing vault.
	ErrVaultFileNotFound = errors.New("vault file does not exist")

	// ErrNonInteractiveUnsupported is returned when a command that requires
	// a prompt is invoked with non-interactive input.
	ErrNonInteractiveUnsupported = errors.New("non-interactive input not supported")
)
