package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"monday-export/internal/models"
)

// testStore creates a temporary store for testing.
func testStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSqliteDSN(t *testing.T) {
	if _, err := sqliteDSN(""); err == nil {
		t.Fatal("expected error for empty path")
	}
	dsn, err := sqliteDSN("/tmp/history.db")
	if err != nil {
		t.Fatalf("dsn: %v", err)
	}
	if !strings.HasPrefix(dsn, "file:") {
		t.Fatalf("expected file dsn, got %q", dsn)
	}
}

func TestRecordAndListExports(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	records := []*models.ExportRecord{
		{BoardID: "42", BoardName: "Roadmap", ItemCount: 3, Path: "/tmp/Roadmap.xlsx", ExportedAt: base},
		{BoardID: "7", BoardName: "Hiring", ItemCount: 10, SubitemCount: 4, Path: "/tmp/Hiring.xlsx", ExportedAt: base.Add(time.Minute)},
		{BoardID: "42", BoardName: "Roadmap", ItemCount: 5, Path: "/tmp/Roadmap.xlsx", ExportedAt: base.Add(500 * time.Millisecond)},
	}
	for _, record := range records {
		if err := st.RecordExport(ctx, record); err != nil {
			t.Fatalf("record: %v", err)
		}
		if record.ID == "" {
			t.Fatal("expected generated id")
		}
	}

	all, err := st.ListExports(ctx, ExportFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 exports, got %d", len(all))
	}
	if all[0].BoardName != "Hiring" || all[0].SubitemCount != 4 {
		t.Fatalf("expected newest export first, got %+v", all[0])
	}
	if all[1].ItemCount != 5 || all[2].ItemCount != 3 {
		t.Fatalf("unexpected ordering: %+v", all)
	}
	if !all[2].ExportedAt.Equal(base) {
		t.Fatalf("expected exported_at %v, got %v", base, all[2].ExportedAt)
	}

	roadmap, err := st.ListExports(ctx, ExportFilter{BoardID: "42", Limit: 1})
	if err != nil {
		t.Fatalf("list board: %v", err)
	}
	if len(roadmap) != 1 || roadmap[0].ItemCount != 5 {
		t.Fatalf("expected latest roadmap export, got %+v", roadmap)
	}
}

func TestRecordExportDefaults(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	record := &models.ExportRecord{BoardID: "42", Path: "/tmp/out.xlsx"}
	if err := st.RecordExport(ctx, record); err != nil {
		t.Fatalf("record: %v", err)
	}
	if record.ExportedAt.IsZero() {
		t.Fatal("expected exported_at to be set")
	}
	if record.ExportedAt.Location() != time.UTC {
		t.Fatalf("expected UTC timestamp, got %v", record.ExportedAt.Location())
	}
}

func TestRecordExportValidation(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	if err := st.RecordExport(ctx, nil); err == nil {
		t.Fatal("expected error for nil record")
	}
	if err := st.RecordExport(ctx, &models.ExportRecord{BoardID: " "}); err == nil {
		t.Fatal("expected error for missing board id")
	}
}

func TestListExportsEmpty(t *testing.T) {
	st := testStore(t)
	records, err := st.ListExports(context.Background(), ExportFilter{BoardID: "missing"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestCloseNilStore(t *testing.T) {
	var st *Store
	if err := st.Close(); err != nil {
		t.Fatalf("close nil: %v", err)
	}
}
