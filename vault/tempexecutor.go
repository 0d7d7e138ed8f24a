package vault

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/browser"

	"github.com/croqaz/private-briefcase/store"
	"github.com/croqaz/private-briefcase/vaultcrypto"
)

// tempState is the TempExecutor's lifecycle: Materialized -> Executing ->
// Wiping -> Removed. The wipe is attempted on every path, including an
// executor that returns an error.
type tempState int

const (
	stateMaterialized tempState = iota
	stateExecuting
	stateWiping
	stateRemoved
)

// tempExecutor writes plaintext to a fresh unique temp directory, launches
// the host's default viewer, then securely wipes and removes it.
type tempExecutor struct {
	dir   string
	path  string
	size  int64
	state tempState
}

func materialize(name string, plain []byte) (*tempExecutor, error) {
	dir, err := os.MkdirTemp("", "briefcase-*")
	if err != nil {
		return nil, fmt.Errorf("materialize: mkdir temp: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, plain, 0o600); err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("materialize: write temp file: %w", err)
	}

	return &tempExecutor{dir: dir, path: path, size: int64(len(plain)), state: stateMaterialized}, nil
}

// run launches the viewer on a dedicated worker and waits for the launch
// call to return (or ctx to end) before wiping. Where the host's launcher
// returns as soon as the viewer is spawned, the wipe follows the spawn,
// not the viewer's exit.
func (t *tempExecutor) run(ctx context.Context, logger *Logger, s *store.Store) (plainSize int64, retErr error) {
	_ = logger.Info(ctx, s, "Materialized %q (%d bytes)", t.path, t.size)

	t.state = stateExecuting

	done := make(chan error, 1)

	go func() {
		done <- browser.OpenFile(t.path)
	}()

	select {
	case err := <-done:
		if err != nil {
			retErr = fmt.Errorf("launch viewer: %w", err)
		}
	case <-ctx.Done():
		retErr = ctx.Err()
	}

	if err := t.wipe(); err != nil && retErr == nil {
		retErr = err
	}

	_ = logger.Info(ctx, s, "Removed %q (%d bytes wiped)", t.path, t.size)

	return t.size, retErr
}

// wipe overwrites the plaintext file with random bytes of its original
// length, truncates it, removes it, and removes the owning temp
// directory. Remnants are tolerated only when the file system denies the
// unlink.
func (t *tempExecutor) wipe() error {
	t.state = stateWiping

	f, err := os.OpenFile(t.path, os.O_WRONLY, 0)
	if err == nil {
		if garbage, rerr := vaultcrypto.RandBytes(int(t.size)); rerr == nil {
			_, _ = f.WriteAt(garbage, 0)
			_ = f.Sync()
		}

		_ = f.Truncate(0)
		_ = f.Close()
	}

	var retErr error

	if err := os.Remove(t.path); err != nil && !os.IsNotExist(err) {
		retErr = fmt.Errorf("wipe: remove temp file: %w", err)
	}

	_ = os.Remove(t.dir)

	t.state = stateRemoved

	return retErr
}
