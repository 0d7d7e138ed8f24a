// Package vault is the public engine: open/create, add, copy, rename,
// delete, export, label, list, info and cleanup operations over a single
// encrypted, versioned document container.
package vault

import (
	"bytes"
	"context"
	"crypto/subtle"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/croqaz/private-briefcase/codec"
	"github.com/croqaz/private-briefcase/namemap"
	"github.com/croqaz/private-briefcase/store"
	"github.com/croqaz/private-briefcase/util"
	"github.com/croqaz/private-briefcase/vaultcrypto"
	"github.com/croqaz/private-briefcase/vaulterrors"
)

// EngineVersion is recorded in _info_.version at vault creation.
const EngineVersion = "2.0"

// versionDateLayout is the format used for per-version timestamps,
// retained as-is for binary compatibility with the container's original
// layout.
const versionDateLayout = "2006-Jan-02 15:04:05"

// Vault is a handle to one open container. It is not safe to share across
// goroutines; open a separate handle per concurrent user of a vault file.
type Vault struct {
	path string
	s    *store.Store

	authCheck     []byte
	encSalt       []byte
	encKey        []byte
	createdAt     string
	createdBy     string
	engineVersion string

	defaultAlgorithm codec.Algorithm
	logger           *Logger

	closeOnce sync.Once
}

// Option configures a Vault at Open time.
type Option func(*Vault)

// WithDefaultAlgorithm records a default compression algorithm on the
// Vault. AddFile and AddManyFiles do not consult it: they always compress
// with AddFileOptions.Algorithm, whose zero value is codec.Zlib.
func WithDefaultAlgorithm(a codec.Algorithm) Option {
	return func(v *Vault) { v.defaultAlgorithm = a }
}

// WithDiagnostics mirrors the on-disk log to sink at the given verbosity.
func WithDiagnostics(sink DiagnosticSink, verbosity Verbosity) Option {
	return func(v *Vault) { v.logger = newLogger(sink, verbosity) }
}

func ioErr(err error) error {
	return fmt.Errorf("%w: %v", vaulterrors.ErrIO, err)
}

func currentUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}

	if u := os.Getenv("USERNAME"); u != "" {
		return u
	}

	return "unknown"
}

// Open opens the container at path, creating it on first use. A nil or
// empty password means "no vault-wide password". On an existing
// container, password is checked against the stored authentication check
// and ErrWrongPassword is returned on mismatch.
func Open(ctx context.Context, path string, password []byte, opts ...Option) (*Vault, error) {
	s, err := store.New(path)
	if err != nil {
		return nil, ioErr(err)
	}

	v := &Vault{
		path:             path,
		s:                s,
		engineVersion:    EngineVersion,
		defaultAlgorithm: codec.Zlib,
		logger:           newLogger(nil, VerbositySilent),
	}

	for _, opt := range opts {
		opt(v)
	}

	info, err := s.GetInfo(ctx)
	if err != nil {
		_ = s.Close()
		return nil, ioErr(err)
	}

	if info == nil {
		if err := v.create(ctx, password); err != nil {
			_ = s.Close()
			return nil, err
		}

		return v, nil
	}

	if err := v.reopen(ctx, password, *info); err != nil {
		_ = s.Close()
		return nil, err
	}

	return v, nil
}

func (v *Vault) create(ctx context.Context, password []byte) error {
	var authCheck, encSalt []byte

	if len(password) > 0 {
		var err error

		encSalt, err = vaultcrypto.RandBytes(vaultcrypto.EncSaltSize)
		if err != nil {
			return ioErr(err)
		}

		authCheck = vaultcrypto.DeriveAuthCheck(password)
	}

	now := time.Now().Format(logDateLayout)
	user := currentUser()

	if err := v.s.PutInfo(ctx, store.InfoRow{
		AuthCheck: authCheck, EncSalt: encSalt,
		CreatedAt: now, CreatedBy: user, EngineVersion: EngineVersion,
	}); err != nil {
		return ioErr(err)
	}

	v.authCheck, v.encSalt = authCheck, encSalt
	v.createdAt, v.createdBy = now, user

	if len(encSalt) > 0 {
		v.encKey = vaultcrypto.DeriveEncryptionKey(password, encSalt)
	}

	return v.logger.Info(ctx, v.s, "Created vault at %q by %q", v.path, user)
}

func (v *Vault) reopen(ctx context.Context, password []byte, info store.InfoRow) error {
	if len(info.AuthCheck) > 0 {
		check := vaultcrypto.DeriveAuthCheck(password)
		if subtle.ConstantTimeCompare(check, info.AuthCheck) != 1 {
			return vaulterrors.ErrWrongPassword
		}
	}

	v.authCheck = info.AuthCheck
	v.encSalt = info.EncSalt
	v.createdAt = info.CreatedAt
	v.createdBy = info.CreatedBy
	v.engineVersion = info.EngineVersion

	if len(info.EncSalt) > 0 {
		v.encKey = vaultcrypto.DeriveEncryptionKey(password, info.EncSalt)
	}

	return v.logger.Info(ctx, v.s, "Opened vault at %q by %q", v.path, currentUser())
}

// Close releases the underlying container handle. Safe to call more than
// once.
func (v *Vault) Close(_ context.Context) error {
	var err error

	v.closeOnce.Do(func() {
		err = v.s.Close()
	})

	return err
}

func (v *Vault) logError(ctx context.Context, format string, args ...any) {
	_ = v.logger.Error(ctx, v.s, format, args...)
}

// resolvePassword turns an AddFile-style Password into the
// _files_.pwd blob to persist and the encryption key to use, lazily
// establishing the vault's encSalt if a literal per-file password is used
// on a vault that has none yet.
func (v *Vault) resolvePassword(p Password) (pwdBlob, encKey []byte, err error) {
	switch p.mode {
	case PasswordDefault:
		return encodePwd(PasswordDefault, nil), v.encKey, nil
	case PasswordLiteral:
		if len(v.encSalt) == 0 {
			v.encSalt, err = vaultcrypto.RandBytes(vaultcrypto.EncSaltSize)
			if err != nil {
				return nil, nil, ioErr(err)
			}
		}

		auth := vaultcrypto.DeriveAuthCheck(p.literal)
		key := vaultcrypto.DeriveEncryptionKey(p.literal, v.encSalt)

		return encodePwd(PasswordLiteral, auth), key, nil
	default:
		return encodePwd(PasswordNone, nil), nil, nil
	}
}

// resolveDecryptKey derives the key to decrypt an entry whose stored
// password mode is fileMode/fileAuth, given the password supplied to
// ExportFile.
func (v *Vault) resolveDecryptKey(fileMode PasswordMode, fileAuth []byte, supplied Password) ([]byte, error) {
	switch fileMode {
	case PasswordDefault:
		return v.encKey, nil
	case PasswordLiteral:
		if supplied.mode != PasswordLiteral {
			return nil, vaulterrors.ErrWrongPerFilePassword
		}

		check := vaultcrypto.DeriveAuthCheck(supplied.literal)
		if subtle.ConstantTimeCompare(check, fileAuth) != 1 {
			return nil, vaulterrors.ErrWrongPerFilePassword
		}

		return vaultcrypto.DeriveEncryptionKey(supplied.literal, v.encSalt), nil
	default:
		return nil, nil
	}
}

// persistEncSaltIfChanged writes a full info row when resolvePassword
// lazily minted a new encSalt, keeping the change inside txs's
// transaction.
func (v *Vault) persistEncSaltIfChanged(ctx context.Context, txs *store.Store, before []byte) error {
	if bytes.Equal(before, v.encSalt) {
		return nil
	}

	return txs.PutInfo(ctx, store.InfoRow{
		AuthCheck: v.authCheck, EncSalt: v.encSalt,
		CreatedAt: v.createdAt, CreatedBy: v.createdBy, EngineVersion: v.engineVersion,
	})
}

// AddFileOptions configures one AddFile/AddManyFiles call.
type AddFileOptions struct {
	Labels      []string
	Algorithm   codec.Algorithm
	Versionable bool
}

// AddFile reads srcPath and stores it under its base name.
func (v *Vault) AddFile(ctx context.Context, srcPath string, password Password, opts AddFileOptions) error {
	if _, err := os.Stat(srcPath); err != nil {
		v.logError(ctx, "add %q: source not found", srcPath)
		return vaulterrors.ErrNotFound
	}

	name := filepath.Base(srcPath)
	if err := namemap.ValidateName(name); err != nil {
		v.logError(ctx, "add %q: invalid name", srcPath)
		return err
	}

	plain, err := os.ReadFile(srcPath)
	if err != nil {
		v.logError(ctx, "add %q: read: %v", srcPath, err)
		return ioErr(err)
	}

	return v.addFileBytes(ctx, name, plain, password, opts)
}

func (v *Vault) addFileBytes(ctx context.Context, name string, plain []byte, password Password, opts AddFileOptions) (retErr error) {
	tx, err := v.s.Begin(ctx)
	if err != nil {
		return ioErr(err)
	}

	txs := v.s.WithTx(tx)

	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
			v.logError(ctx, "add %q: %v", name, retErr)
		}
	}()

	storageID := namemap.StorageID(name)

	existing, err := txs.GetFile(ctx, name)
	if err != nil {
		return ioErr(err)
	}

	if existing != nil {
		mode, auth := decodePwd(existing.Pwd)
		if mode == PasswordLiteral {
			if password.mode != PasswordLiteral {
				return vaulterrors.ErrWrongPerFilePassword
			}

			check := vaultcrypto.DeriveAuthCheck(password.literal)
			if subtle.ConstantTimeCompare(check, auth) != 1 {
				return vaulterrors.ErrWrongPerFilePassword
			}
		}

		if !opts.Versionable {
			return vaulterrors.ErrNotVersionable
		}
	}

	plainHash := namemap.PlainHash(plain)

	latest, err := txs.LatestVersion(ctx, storageID)
	if err != nil {
		return ioErr(err)
	}

	if latest != nil && latest.Hash == plainHash {
		return vaulterrors.ErrIdentical
	}

	beforeSalt := v.encSalt

	pwdBlob, encKey, err := v.resolvePassword(password)
	if err != nil {
		return err
	}

	algo := opts.Algorithm

	stored, err := codec.EncodePayload(algo, encKey, plain)
	if err != nil {
		return ioErr(err)
	}

	if existing == nil {
		if err := txs.CreateVersionTable(ctx, storageID); err != nil {
			return ioErr(err)
		}
	}

	now := time.Now().Format(versionDateLayout)
	user := currentUser()

	versionNum, err := txs.InsertVersion(ctx, storageID, store.VersionRow{
		Raw: stored, Hash: plainHash, Size: int64(len(plain)), Date: now, User: user,
	})
	if err != nil {
		return ioErr(err)
	}

	labels := util.CanonicalizeLabels(opts.Labels)
	if len(opts.Labels) == 0 && existing != nil {
		labels = existing.Labels
	}

	if err := txs.UpsertFile(ctx, store.FileRow{Name: name, Pwd: pwdBlob, Labels: labels}); err != nil {
		return ioErr(err)
	}

	if err := v.persistEncSaltIfChanged(ctx, txs, beforeSalt); err != nil {
		return err
	}

	if _, err := recomputeStatistics(ctx, txs, name); err != nil {
		return ioErr(err)
	}

	if err := v.logger.Info(ctx, txs, "Added %q version %d", name, versionNum); err != nil {
		return ioErr(err)
	}

	if err := tx.Commit(); err != nil {
		return ioErr(err)
	}

	return nil
}

// AddManyFiles expands glob against the host file system and calls
// AddFile for every match. Per-file failures are logged but do not abort
// the batch; it returns the number of files successfully added.
func (v *Vault) AddManyFiles(ctx context.Context, glob string, password Password, opts AddFileOptions) (int, error) {
	matches, err := filepath.Glob(glob)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", vaulterrors.ErrBadArgument, err)
	}

	count := 0

	for _, m := range matches {
		if err := v.AddFile(ctx, m, password, opts); err != nil {
			continue
		}

		count++
	}

	return count, nil
}

// CopyIntoNew copies either the nominated version (if version>0) or the
// latest version of name into a brand new entry newName, starting at
// version 1. Payload bytes are copied as stored, with no re-encryption.
func (v *Vault) CopyIntoNew(ctx context.Context, name string, version int, newName string) (retErr error) {
	if err := namemap.ValidateName(newName); err != nil {
		return err
	}

	tx, err := v.s.Begin(ctx)
	if err != nil {
		return ioErr(err)
	}

	txs := v.s.WithTx(tx)

	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
			v.logError(ctx, "copy %q -> %q: %v", name, newName, retErr)
		}
	}()

	if dst, err := txs.GetFile(ctx, newName); err != nil {
		return ioErr(err)
	} else if dst != nil {
		return vaulterrors.ErrExists
	}

	src, err := txs.GetFile(ctx, name)
	if err != nil {
		return ioErr(err)
	}

	if src == nil {
		return vaulterrors.ErrNotFound
	}

	srcID, dstID := namemap.StorageID(name), namemap.StorageID(newName)

	var srcVersion *store.VersionRow
	if version > 0 {
		srcVersion, err = txs.VersionByNumber(ctx, srcID, version)
	} else {
		srcVersion, err = txs.LatestVersion(ctx, srcID)
	}

	if err != nil {
		return ioErr(err)
	}

	if srcVersion == nil {
		return vaulterrors.ErrNotFound
	}

	if err := txs.CreateVersionTable(ctx, dstID); err != nil {
		return ioErr(err)
	}

	if err := txs.InsertVersionAt(ctx, dstID, 1, *srcVersion); err != nil {
		return ioErr(err)
	}

	if err := txs.UpsertFile(ctx, store.FileRow{Name: newName, Pwd: src.Pwd, Labels: src.Labels}); err != nil {
		return ioErr(err)
	}

	if _, err := recomputeStatistics(ctx, txs, newName); err != nil {
		return ioErr(err)
	}

	if err := v.logger.Info(ctx, txs, "Copied %q version %d into %q", name, srcVersion.Version, newName); err != nil {
		return ioErr(err)
	}

	return ioErr2(tx.Commit())
}

// ioErr2 is ioErr for a nil-tolerant error, used where the call-site would
// otherwise need to branch just to avoid wrapping nil.
func ioErr2(err error) error {
	if err == nil {
		return nil
	}

	return ioErr(err)
}

// RenFile atomically rewrites an entry's storage identifier and updates
// its entry/statistics rows under one transaction.
func (v *Vault) RenFile(ctx context.Context, name, newName string) (retErr error) {
	if err := namemap.ValidateName(newName); err != nil {
		return err
	}

	tx, err := v.s.Begin(ctx)
	if err != nil {
		return ioErr(err)
	}

	txs := v.s.WithTx(tx)

	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
			v.logError(ctx, "rename %q -> %q: %v", name, newName, retErr)
		}
	}()

	existing, err := txs.GetFile(ctx, name)
	if err != nil {
		return ioErr(err)
	}

	if existing == nil {
		return vaulterrors.ErrNotFound
	}

	if dst, err := txs.GetFile(ctx, newName); err != nil {
		return ioErr(err)
	} else if dst != nil {
		return vaulterrors.ErrExists
	}

	oldID, newID := namemap.StorageID(name), namemap.StorageID(newName)

	if err := txs.RenameVersionTable(ctx, oldID, newID); err != nil {
		return ioErr(err)
	}

	if err := txs.RenameFile(ctx, name, newName); err != nil {
		return ioErr(err)
	}

	if err := txs.RenameStatistics(ctx, name, newName); err != nil {
		return ioErr(err)
	}

	if err := v.logger.Info(ctx, txs, "Renamed %q to %q", name, newName); err != nil {
		return ioErr(err)
	}

	return ioErr2(tx.Commit())
}

// DelFile removes version (or the entire entry when version==0),
// reindexing the remainder to stay contiguous.
func (v *Vault) DelFile(ctx context.Context, name string, version int) (retErr error) {
	tx, err := v.s.Begin(ctx)
	if err != nil {
		return ioErr(err)
	}

	txs := v.s.WithTx(tx)

	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
			v.logError(ctx, "delete %q: %v", name, retErr)
		}
	}()

	existing, err := txs.GetFile(ctx, name)
	if err != nil {
		return ioErr(err)
	}

	if existing == nil {
		return vaulterrors.ErrNotFound
	}

	id := namemap.StorageID(name)

	if version <= 0 {
		if err := txs.DropVersionTable(ctx, id); err != nil {
			return ioErr(err)
		}

		if err := txs.DeleteFile(ctx, name); err != nil {
			return ioErr(err)
		}

		if err := txs.DeleteStatistics(ctx, name); err != nil {
			return ioErr(err)
		}

		if err := v.logger.Info(ctx, txs, "Deleted %q", name); err != nil {
			return ioErr(err)
		}
	} else {
		if err := txs.DeleteVersion(ctx, id, version); err != nil {
			return ioErr(err)
		}

		if _, err := recomputeStatistics(ctx, txs, name); err != nil {
			return ioErr(err)
		}

		if err := v.logger.Info(ctx, txs, "Deleted %q version %d", name, version); err != nil {
			return ioErr(err)
		}
	}

	return ioErr2(tx.Commit())
}

// ExportFile resolves plaintext through the decrypt/decompress pipeline
// and either writes it to destPath/name or hands it to a TempExecutor. It
// returns the plaintext's MD4 hash on success.
func (v *Vault) ExportFile(ctx context.Context, name string, password Password, version int, destPath string, execute bool) (string, error) {
	file, err := v.s.GetFile(ctx, name)
	if err != nil {
		return "", ioErr(err)
	}

	if file == nil {
		v.logError(ctx, "export %q: not found", name)
		return "", vaulterrors.ErrNotFound
	}

	id := namemap.StorageID(name)

	var vrow *store.VersionRow
	if version > 0 {
		vrow, err = v.s.VersionByNumber(ctx, id, version)
	} else {
		vrow, err = v.s.LatestVersion(ctx, id)
	}

	if err != nil {
		return "", ioErr(err)
	}

	if vrow == nil {
		v.logError(ctx, "export %q: no such version", name)
		return "", vaulterrors.ErrNotFound
	}

	mode, auth := decodePwd(file.Pwd)

	key, err := v.resolveDecryptKey(mode, auth, password)
	if err != nil {
		v.logError(ctx, "export %q: %v", name, err)
		return "", err
	}

	plain, err := codec.DecodePayload(key, vrow.Raw)
	if err != nil {
		return "", ioErr(err)
	}

	if !execute {
		if len(destPath) == 0 {
			return "", vaulterrors.ErrBadArgument
		}

		if _, err := os.Stat(destPath); err != nil {
			return "", fmt.Errorf("%w: destination path does not exist", vaulterrors.ErrBadArgument)
		}

		if err := os.WriteFile(filepath.Join(destPath, name), plain, 0o600); err != nil {
			return "", ioErr(err)
		}
	} else {
		exec, err := materialize(name, plain)
		if err != nil {
			return "", ioErr(err)
		}

		if _, err := exec.run(ctx, v.logger, v.s); err != nil {
			v.logError(ctx, "export %q: executor: %v", name, err)
		}
	}

	_ = v.logger.Info(ctx, v.s, "Exported %q version %d", name, vrow.Version)

	return vrow.Hash, nil
}

// ExportAll exports the latest version of every entry whose password
// matches the supplied one, skipping (and logging) any that don't.
func (v *Vault) ExportAll(ctx context.Context, destDir string, password Password) (int, error) {
	rows, err := v.s.ListFiles(ctx)
	if err != nil {
		return 0, ioErr(err)
	}

	count := 0

	for _, r := range rows {
		if _, err := v.ExportFile(ctx, r.File, password, 0, destDir, false); err != nil {
			continue
		}

		count++
	}

	return count, nil
}

// SetLabels canonicalizes labels (trim, sort, de-duplicate, join with
// ';') and stores them for name.
func (v *Vault) SetLabels(ctx context.Context, name string, labels []string) (retErr error) {
	tx, err := v.s.Begin(ctx)
	if err != nil {
		return ioErr(err)
	}

	txs := v.s.WithTx(tx)

	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
			v.logError(ctx, "set labels %q: %v", name, retErr)
		}
	}()

	existing, err := txs.GetFile(ctx, name)
	if err != nil {
		return ioErr(err)
	}

	if existing == nil {
		return vaulterrors.ErrNotFound
	}

	canon := util.CanonicalizeLabels(labels)

	if err := txs.SetLabels(ctx, name, canon); err != nil {
		return ioErr(err)
	}

	if _, err := recomputeStatistics(ctx, txs, name); err != nil {
		return ioErr(err)
	}

	if err := v.logger.Info(ctx, txs, "Labels set for %q", name); err != nil {
		return ioErr(err)
	}

	return ioErr2(tx.Commit())
}

// GetFileList returns entry names ordered by key/order and restricted to
// an optional whitelist filter.
func (v *Vault) GetFileList(ctx context.Context, key SortKey, order SortOrder, filter *Filter) ([]string, error) {
	if !validSortKey(key) {
		return nil, vaulterrors.ErrInvalidQuery
	}

	rows, err := v.s.ListFiles(ctx)
	if err != nil {
		return nil, ioErr(err)
	}

	if filter != nil {
		rows, err = filterFileRows(rows, *filter)
		if err != nil {
			return nil, err
		}
	}

	sortFileRows(rows, key, order)

	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.File
	}

	return names, nil
}

// FileStatistics recomputes and returns the statistics row for name.
func (v *Vault) FileStatistics(ctx context.Context, name string) (*store.StatisticsRow, error) {
	existing, err := v.s.GetFile(ctx, name)
	if err != nil {
		return nil, ioErr(err)
	}

	if existing == nil {
		return nil, vaulterrors.ErrNotFound
	}

	row, err := recomputeStatistics(ctx, v.s, name)
	if err != nil {
		return nil, ioErr(err)
	}

	return row, nil
}

// InfoSummary is the result of Info().
type InfoSummary struct {
	NumberOfFiles int
	DateCreated   string
	UserCreated   string
	AllLabels     []string
	EngineVersion string
}

// Info summarizes the vault as a whole.
func (v *Vault) Info(ctx context.Context) (*InfoSummary, error) {
	rows, err := v.s.ListFiles(ctx)
	if err != nil {
		return nil, ioErr(err)
	}

	labelSet := make(map[string]struct{})

	for _, r := range rows {
		for _, l := range util.ParseSemicolonSeparated(r.Labels) {
			labelSet[l] = struct{}{}
		}
	}

	all := make([]string, 0, len(labelSet))
	for l := range labelSet {
		all = append(all, l)
	}

	sort.Strings(all)

	return &InfoSummary{
		NumberOfFiles: len(rows),
		DateCreated:   v.createdAt,
		UserCreated:   v.createdBy,
		AllLabels:     all,
		EngineVersion: v.engineVersion,
	}, nil
}

// Cleanup truncates statistics and logs, rebuilds statistics from the
// current entries, writes a single cleanup log record, and issues a
// container-level compaction.
func (v *Vault) Cleanup(ctx context.Context) (retErr error) {
	rows, err := v.s.ListFiles(ctx)
	if err != nil {
		return ioErr(err)
	}

	tx, err := v.s.Begin(ctx)
	if err != nil {
		return ioErr(err)
	}

	txs := v.s.WithTx(tx)

	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
			v.logError(ctx, "cleanup: %v", retErr)
		}
	}()

	if err := txs.TruncateLogs(ctx); err != nil {
		return ioErr(err)
	}

	if err := txs.TruncateStatistics(ctx); err != nil {
		return ioErr(err)
	}

	for _, r := range rows {
		if _, err := recomputeStatistics(ctx, txs, r.File); err != nil {
			return ioErr(err)
		}
	}

	if err := v.logger.Info(ctx, txs, "Cleanup"); err != nil {
		return ioErr(err)
	}

	if err := tx.Commit(); err != nil {
		return ioErr(err)
	}

	return v.s.Vacuum(ctx)
}
