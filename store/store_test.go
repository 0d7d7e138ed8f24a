package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTemp(t *testing.T) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "vault.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestInfo_RoundTrip(t *testing.T) {
	s := openTemp(t)
	ctx := t.Context()

	if got, err := s.GetInfo(ctx); err != nil || got != nil {
		t.Fatalf("GetInfo on fresh store = %v, %v; want nil, nil", got, err)
	}

	want := InfoRow{
		AuthCheck:     []byte("check"),
		EncSalt:       []byte("salt"),
		CreatedAt:     "2026-01-02 15:04:05",
		CreatedBy:     "alice",
		EngineVersion: "2.0",
	}

	if err := s.PutInfo(ctx, want); err != nil {
		t.Fatalf("PutInfo: %v", err)
	}

	got, err := s.GetInfo(ctx)
	if err != nil {
		t.Fatalf("GetInfo: %v", err)
	}

	if got == nil || got.CreatedBy != want.CreatedBy || got.EngineVersion != want.EngineVersion {
		t.Fatalf("GetInfo = %+v, want %+v", got, want)
	}

	// PutInfo replaces the singleton row rather than appending.
	want.CreatedBy = "bob"
	if err := s.PutInfo(ctx, want); err != nil {
		t.Fatalf("PutInfo (replace): %v", err)
	}

	got, err = s.GetInfo(ctx)
	if err != nil {
		t.Fatalf("GetInfo: %v", err)
	}

	if got.CreatedBy != "bob" {
		t.Fatalf("GetInfo after replace = %+v, want CreatedBy=bob", got)
	}
}

func TestFiles_UpsertRenameDelete(t *testing.T) {
	s := openTemp(t)
	ctx := t.Context()

	if err := s.UpsertFile(ctx, FileRow{Name: "a.bin", Pwd: []byte{0}, Labels: "x;y"}); err != nil {
		t.Fatalf("UpsertFile: %v", err)
	}

	f, err := s.GetFile(ctx, "a.bin")
	if err != nil || f == nil {
		t.Fatalf("GetFile = %v, %v", f, err)
	}

	if f.Labels != "x;y" {
		t.Fatalf("Labels = %q, want x;y", f.Labels)
	}

	if err := s.SetLabels(ctx, "a.bin", "z"); err != nil {
		t.Fatalf("SetLabels: %v", err)
	}

	f, _ = s.GetFile(ctx, "a.bin")
	if f.Labels != "z" {
		t.Fatalf("Labels after SetLabels = %q, want z", f.Labels)
	}

	if err := s.RenameFile(ctx, "a.bin", "b.bin"); err != nil {
		t.Fatalf("RenameFile: %v", err)
	}

	if f, _ := s.GetFile(ctx, "a.bin"); f != nil {
		t.Fatalf("old name still present after rename")
	}

	if f, _ := s.GetFile(ctx, "b.bin"); f == nil {
		t.Fatalf("new name missing after rename")
	}

	if err := s.DeleteFile(ctx, "b.bin"); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}

	if f, _ := s.GetFile(ctx, "b.bin"); f != nil {
		t.Fatalf("entry still present after DeleteFile")
	}
}

func TestListFiles_JoinsStatistics(t *testing.T) {
	s := openTemp(t)
	ctx := t.Context()

	if err := s.UpsertFile(ctx, FileRow{Name: "a.bin"}); err != nil {
		t.Fatalf("UpsertFile: %v", err)
	}

	if err := s.UpsertFile(ctx, FileRow{Name: "b.bin"}); err != nil {
		t.Fatalf("UpsertFile: %v", err)
	}

	if err := s.UpsertStatistics(ctx, StatisticsRow{File: "a.bin", Size: 42, Date: "2026-01-01"}); err != nil {
		t.Fatalf("UpsertStatistics: %v", err)
	}

	rows, err := s.ListFiles(ctx)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}

	var gotA, gotB bool

	for _, r := range rows {
		switch r.File {
		case "a.bin":
			gotA = true

			if r.Size != 42 {
				t.Errorf("a.bin Size = %d, want 42", r.Size)
			}
		case "b.bin":
			gotB = true

			if r.Size != 0 {
				t.Errorf("b.bin (no statistics row) Size = %d, want 0", r.Size)
			}
		}
	}

	if !gotA || !gotB {
		t.Fatalf("ListFiles missing rows: a=%v b=%v", gotA, gotB)
	}
}

func TestStatistics_UpsertRenameDeleteTruncate(t *testing.T) {
	s := openTemp(t)
	ctx := t.Context()

	row := StatisticsRow{File: "a.bin", Size0: 1, Size: 2, SizeB: 2, Date0: "d0", Date: "d1", User0: "u0", User: "u1", Labels: "x"}

	if err := s.UpsertStatistics(ctx, row); err != nil {
		t.Fatalf("UpsertStatistics: %v", err)
	}

	if err := s.RenameStatistics(ctx, "a.bin", "b.bin"); err != nil {
		t.Fatalf("RenameStatistics: %v", err)
	}

	if got, _ := s.GetStatistics(ctx, "a.bin"); got != nil {
		t.Fatalf("old statistics row still present after rename")
	}

	if got, _ := s.GetStatistics(ctx, "b.bin"); got == nil {
		t.Fatalf("renamed statistics row missing")
	}

	if err := s.DeleteStatistics(ctx, "b.bin"); err != nil {
		t.Fatalf("DeleteStatistics: %v", err)
	}

	if got, _ := s.GetStatistics(ctx, "b.bin"); got != nil {
		t.Fatalf("statistics row still present after delete")
	}

	if err := s.UpsertStatistics(ctx, row); err != nil {
		t.Fatalf("UpsertStatistics: %v", err)
	}

	if err := s.TruncateStatistics(ctx); err != nil {
		t.Fatalf("TruncateStatistics: %v", err)
	}

	if got, _ := s.GetStatistics(ctx, "a.bin"); got != nil {
		t.Fatalf("statistics row survived TruncateStatistics")
	}
}

func TestLogs_AppendListTruncate(t *testing.T) {
	s := openTemp(t)
	ctx := t.Context()

	if err := s.AppendLog(ctx, "2026-01-01 00:00:00", "first"); err != nil {
		t.Fatalf("AppendLog: %v", err)
	}

	if err := s.AppendLog(ctx, "2026-01-01 00:00:01", "second"); err != nil {
		t.Fatalf("AppendLog: %v", err)
	}

	logs, err := s.ListLogs(ctx)
	if err != nil {
		t.Fatalf("ListLogs: %v", err)
	}

	if len(logs) != 2 || logs[0].Msg != "first" || logs[1].Msg != "second" {
		t.Fatalf("ListLogs = %+v, want [first second] in order", logs)
	}

	if err := s.TruncateLogs(ctx); err != nil {
		t.Fatalf("TruncateLogs: %v", err)
	}

	logs, _ = s.ListLogs(ctx)
	if len(logs) != 0 {
		t.Fatalf("logs survived TruncateLogs: %+v", logs)
	}
}

func TestVersions_LifecycleAndRenumbering(t *testing.T) {
	s := openTemp(t)
	ctx := t.Context()

	const id = "t0123456789abcdef0123456789abcdef"

	if err := s.CreateVersionTable(ctx, id); err != nil {
		t.Fatalf("CreateVersionTable: %v", err)
	}

	// Idempotent.
	if err := s.CreateVersionTable(ctx, id); err != nil {
		t.Fatalf("CreateVersionTable (second call): %v", err)
	}

	for i := 1; i <= 3; i++ {
		v, err := s.InsertVersion(ctx, id, VersionRow{Raw: []byte{byte(i)}, Hash: "h", Size: 1, Date: "d", User: "u"})
		if err != nil {
			t.Fatalf("InsertVersion #%d: %v", i, err)
		}

		if v != i {
			t.Fatalf("InsertVersion #%d returned version %d, want %d", i, v, i)
		}
	}

	latest, err := s.LatestVersion(ctx, id)
	if err != nil || latest == nil || latest.Version != 3 {
		t.Fatalf("LatestVersion = %+v, %v; want version 3", latest, err)
	}

	v2, err := s.VersionByNumber(ctx, id, 2)
	if err != nil || v2 == nil || v2.Raw[0] != 2 {
		t.Fatalf("VersionByNumber(2) = %+v, %v", v2, err)
	}

	if err := s.DeleteVersion(ctx, id, 2); err != nil {
		t.Fatalf("DeleteVersion: %v", err)
	}

	all, err := s.AllVersions(ctx, id)
	if err != nil {
		t.Fatalf("AllVersions: %v", err)
	}

	if len(all) != 2 || all[0].Version != 1 || all[1].Version != 2 {
		t.Fatalf("AllVersions after delete = %+v, want contiguous [1 2]", all)
	}

	if all[1].Raw[0] != 3 {
		t.Fatalf("surviving version 2 carries stale content %v, want original version-3 payload", all[1].Raw)
	}

	const newID = "tfedcba9876543210fedcba9876543210"

	if err := s.RenameVersionTable(ctx, id, newID); err != nil {
		t.Fatalf("RenameVersionTable: %v", err)
	}

	if _, err := s.AllVersions(ctx, id); err == nil {
		t.Fatalf("AllVersions on old identifier succeeded after rename")
	}

	if all, err := s.AllVersions(ctx, newID); err != nil || len(all) != 2 {
		t.Fatalf("AllVersions(newID) = %+v, %v; want 2 rows", all, err)
	}

	if err := s.DropVersionTable(ctx, newID); err != nil {
		t.Fatalf("DropVersionTable: %v", err)
	}

	if _, err := s.AllVersions(ctx, newID); err == nil {
		t.Fatalf("AllVersions succeeded after DropVersionTable")
	}
}

func TestVersions_RejectIllegalIdentifier(t *testing.T) {
	s := openTemp(t)
	ctx := t.Context()

	for _, bad := range []string{"", "t123", "DROP TABLE _files_;--", "tGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGG"} {
		if err := s.CreateVersionTable(ctx, bad); err == nil {
			t.Errorf("CreateVersionTable(%q) succeeded, want rejection", bad)
		}
	}
}

func TestWithTx_CommitsAtomically(t *testing.T) {
	s := openTemp(t)
	ctx := t.Context()

	tx, err := s.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	txStore := s.WithTx(tx)

	if err := txStore.UpsertFile(ctx, FileRow{Name: "a.bin"}); err != nil {
		t.Fatalf("UpsertFile within tx: %v", err)
	}

	if f, _ := s.GetFile(ctx, "a.bin"); f != nil {
		t.Fatalf("uncommitted row visible on base connection")
	}

	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if f, _ := s.GetFile(ctx, "a.bin"); f == nil {
		t.Fatalf("committed row missing from base connection")
	}
}

func TestWithTx_RollbackDiscardsChanges(t *testing.T) {
	s := openTemp(t)
	ctx := t.Context()

	tx, err := s.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	txStore := s.WithTx(tx)

	if err := txStore.UpsertFile(ctx, FileRow{Name: "a.bin"}); err != nil {
		t.Fatalf("UpsertFile within tx: %v", err)
	}

	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback: %v", err)
	}

	if f, _ := s.GetFile(ctx, "a.bin"); f != nil {
		t.Fatalf("row survived rollback")
	}
}

func TestVacuum(t *testing.T) {
	s := openTemp(t)

	if err := s.Vacuum(context.Background()); err != nil {
		t.Fatalf("Vacuum: %v", err)
	}
}
