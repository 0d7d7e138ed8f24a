package vault_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/croqaz/private-briefcase/vault"
	"github.com/croqaz/private-briefcase/vaulterrors"
)

func openTemp(t *testing.T, password []byte) *vault.Vault {
	t.Helper()

	path := filepath.Join(t.TempDir(), "briefcase.db")

	v, err := vault.Open(t.Context(), path, password)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	t.Cleanup(func() { _ = v.Close(t.Context()) })

	return v
}

func writeSource(t *testing.T, name string, content []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write source: %v", err)
	}

	return path
}

func TestOpen_CreatesThenReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "briefcase.db")

	v, err := vault.Open(t.Context(), path, []byte("hunter2"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := v.Close(t.Context()); err != nil {
		t.Fatalf("close: %v", err)
	}

	v2, err := vault.Open(t.Context(), path, []byte("hunter2"))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}

	defer v2.Close(t.Context())

	if _, err := vault.Open(t.Context(), path, []byte("wrong")); !errors.Is(err, vaulterrors.ErrWrongPassword) {
		t.Fatalf("reopen with wrong password: got %v, want ErrWrongPassword", err)
	}
}

func TestOpen_NoPasswordNeverGates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "briefcase.db")

	v, err := vault.Open(t.Context(), path, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_ = v.Close(t.Context())

	if _, err := vault.Open(t.Context(), path, []byte("anything")); err != nil {
		t.Fatalf("reopen of password-less vault should ignore supplied password: %v", err)
	}
}

func TestAddFile_RoundTrip(t *testing.T) {
	v := openTemp(t, []byte("s3cret"))

	src := writeSource(t, "notes.txt", []byte("hello world"))

	if err := v.AddFile(t.Context(), src, vault.NoPassword(), vault.AddFileOptions{}); err != nil {
		t.Fatalf("AddFile: %v", err)
	}

	destDir := t.TempDir()

	hash, err := v.ExportFile(t.Context(), "notes.txt", vault.NoPassword(), 0, destDir, false)
	if err != nil {
		t.Fatalf("ExportFile: %v", err)
	}

	if hash == "" {
		t.Fatal("ExportFile: empty hash")
	}

	got, err := os.ReadFile(filepath.Join(destDir, "notes.txt"))
	if err != nil {
		t.Fatalf("read exported file: %v", err)
	}

	if string(got) != "hello world" {
		t.Fatalf("round trip mismatch: got %q", got)
	}
}

func TestAddFile_DedupRejectsIdenticalContent(t *testing.T) {
	v := openTemp(t, nil)

	src := writeSource(t, "dup.txt", []byte("same bytes"))

	if err := v.AddFile(t.Context(), src, vault.NoPassword(), vault.AddFileOptions{Versionable: true}); err != nil {
		t.Fatalf("first add: %v", err)
	}

	if err := v.AddFile(t.Context(), src, vault.NoPassword(), vault.AddFileOptions{Versionable: true}); !errors.Is(err, vaulterrors.ErrIdentical) {
		t.Fatalf("second add: got %v, want ErrIdentical", err)
	}
}

func TestAddFile_VersionMonotonicity(t *testing.T) {
	v := openTemp(t, nil)

	dir := t.TempDir()
	path := filepath.Join(dir, "growing.txt")

	for i, body := range []string{"v1", "v1v2", "v1v2v3"} {
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}

		opts := vault.AddFileOptions{Versionable: i > 0}
		if err := v.AddFile(t.Context(), path, vault.NoPassword(), opts); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}

	destDir := t.TempDir()

	if _, err := v.ExportFile(t.Context(), "growing.txt", vault.NoPassword(), 0, destDir, false); err != nil {
		t.Fatalf("export latest: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(destDir, "growing.txt"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if string(got) != "v1v2v3" {
		t.Fatalf("expected latest version content, got %q", got)
	}
}

func TestAddFile_NotVersionableRejectsOverwrite(t *testing.T) {
	v := openTemp(t, nil)

	dir := t.TempDir()
	path := filepath.Join(dir, "fixed.txt")

	os.WriteFile(path, []byte("first"), 0o600)

	if err := v.AddFile(t.Context(), path, vault.NoPassword(), vault.AddFileOptions{Versionable: false}); err != nil {
		t.Fatalf("first add: %v", err)
	}

	os.WriteFile(path, []byte("second"), 0o600)

	if err := v.AddFile(t.Context(), path, vault.NoPassword(), vault.AddFileOptions{Versionable: false}); !errors.Is(err, vaulterrors.ErrNotVersionable) {
		t.Fatalf("got %v, want ErrNotVersionable", err)
	}
}

func TestAddFile_RejectsIllegalName(t *testing.T) {
	v := openTemp(t, nil)

	src := writeSource(t, "bad:name.txt", []byte("x"))

	if err := v.AddFile(t.Context(), src, vault.NoPassword(), vault.AddFileOptions{}); !errors.Is(err, vaulterrors.ErrInvalidName) {
		t.Fatalf("got %v, want ErrInvalidName", err)
	}
}

func TestExportFile_PerFilePasswordGating(t *testing.T) {
	v := openTemp(t, nil)

	src := writeSource(t, "secret.txt", []byte("top secret"))

	if err := v.AddFile(t.Context(), src, vault.LiteralPassword([]byte("filepw")), vault.AddFileOptions{}); err != nil {
		t.Fatalf("AddFile: %v", err)
	}

	destDir := t.TempDir()

	if _, err := v.ExportFile(t.Context(), "secret.txt", vault.LiteralPassword([]byte("wrong")), 0, destDir, false); !errors.Is(err, vaulterrors.ErrWrongPerFilePassword) {
		t.Fatalf("wrong per-file password: got %v, want ErrWrongPerFilePassword", err)
	}

	if _, err := v.ExportFile(t.Context(), "secret.txt", vault.LiteralPassword([]byte("filepw")), 0, destDir, false); err != nil {
		t.Fatalf("correct per-file password: %v", err)
	}
}

func TestRenFile_MovesEntryAndStatistics(t *testing.T) {
	v := openTemp(t, nil)

	src := writeSource(t, "old.txt", []byte("payload"))

	if err := v.AddFile(t.Context(), src, vault.NoPassword(), vault.AddFileOptions{}); err != nil {
		t.Fatalf("AddFile: %v", err)
	}

	if err := v.RenFile(t.Context(), "old.txt", "new.txt"); err != nil {
		t.Fatalf("RenFile: %v", err)
	}

	if _, err := v.FileStatistics(t.Context(), "old.txt"); !errors.Is(err, vaulterrors.ErrNotFound) {
		t.Fatalf("old name should be gone: got %v", err)
	}

	if _, err := v.FileStatistics(t.Context(), "new.txt"); err != nil {
		t.Fatalf("new name should resolve: %v", err)
	}
}

func TestDelFile_WholeEntryAndSingleVersion(t *testing.T) {
	v := openTemp(t, nil)

	dir := t.TempDir()
	path := filepath.Join(dir, "multi.txt")

	os.WriteFile(path, []byte("v1"), 0o600)
	v.AddFile(t.Context(), path, vault.NoPassword(), vault.AddFileOptions{})

	os.WriteFile(path, []byte("v1v2"), 0o600)
	if err := v.AddFile(t.Context(), path, vault.NoPassword(), vault.AddFileOptions{Versionable: true}); err != nil {
		t.Fatalf("add v2: %v", err)
	}

	if err := v.DelFile(t.Context(), "multi.txt", 1); err != nil {
		t.Fatalf("delete version 1: %v", err)
	}

	if _, err := v.FileStatistics(t.Context(), "multi.txt"); err != nil {
		t.Fatalf("entry should still exist after partial delete: %v", err)
	}

	if err := v.DelFile(t.Context(), "multi.txt", 0); err != nil {
		t.Fatalf("delete whole entry: %v", err)
	}

	if _, err := v.FileStatistics(t.Context(), "multi.txt"); !errors.Is(err, vaulterrors.ErrNotFound) {
		t.Fatalf("entry should be gone: got %v", err)
	}
}

func TestCleanup_PreservesListableEntries(t *testing.T) {
	v := openTemp(t, nil)

	src := writeSource(t, "keep.txt", []byte("data"))

	if err := v.AddFile(t.Context(), src, vault.NoPassword(), vault.AddFileOptions{}); err != nil {
		t.Fatalf("AddFile: %v", err)
	}

	if err := v.Cleanup(t.Context()); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}

	names, err := v.GetFileList(t.Context(), vault.SortFile, vault.Ascending, nil)
	if err != nil {
		t.Fatalf("GetFileList: %v", err)
	}

	if len(names) != 1 || names[0] != "keep.txt" {
		t.Fatalf("expected [keep.txt] after cleanup, got %v", names)
	}
}

func TestGetFileList_RejectsUnknownSortKeyAndFilterField(t *testing.T) {
	v := openTemp(t, nil)

	if _, err := v.GetFileList(t.Context(), vault.SortKey("bogus"), vault.Ascending, nil); !errors.Is(err, vaulterrors.ErrInvalidQuery) {
		t.Fatalf("unknown sort key: got %v, want ErrInvalidQuery", err)
	}

	bad := vault.Filter{Field: "bogus", Value: "x"}
	if _, err := v.GetFileList(t.Context(), vault.SortFile, vault.Ascending, &bad); !errors.Is(err, vaulterrors.ErrInvalidQuery) {
		t.Fatalf("unknown filter field: got %v, want ErrInvalidQuery", err)
	}
}
