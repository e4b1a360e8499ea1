package storage

import (
	"path/filepath"
	"testing"

	"clublogos/internal"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "ledger.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRunLifecycle(t *testing.T) {
	db := openTestDB(t)

	if err := db.StartRun("trace-1", "materialize"); err != nil {
		t.Fatal(err)
	}
	if err := db.InsertDownload(internal.DownloadRow{TraceID: "trace-1", TeamID: "chelsea", Name: "Chelsea", League: "Premier League", ImageURL: "https://x/chelsea.png", LocalPath: "logos/chelsea.png", SHA256: "abc", Bytes: 3, Status: internal.DownloadOK}); err != nil {
		t.Fatal(err)
	}
	if err := db.InsertDownload(internal.DownloadRow{TraceID: "trace-1", TeamID: "porto", Name: "Porto", League: "Primeira Liga", ImageURL: "https://x/porto.png", Status: internal.DownloadFailed, Error: "status 404"}); err != nil {
		t.Fatal(err)
	}
	if err := db.FinishRun("trace-1", map[string]int{"ok": 1, "failed": 1}, map[string]float64{"totalMs": 12}); err != nil {
		t.Fatal(err)
	}

	downloads, err := db.ListDownloads("trace-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(downloads) != 2 {
		t.Fatalf("len=%d", len(downloads))
	}
	if downloads[0].TeamID != "chelsea" || downloads[0].Status != internal.DownloadOK {
		t.Fatalf("unexpected first row: %+v", downloads[0])
	}
	if downloads[1].LocalPath != "" || downloads[1].Error != "status 404" {
		t.Fatalf("unexpected second row: %+v", downloads[1])
	}

	runs, err := db.ListRuns(5)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs=%d", len(runs))
	}
	if runs[0].FinishedAt == "" || runs[0].Counts["ok"] != 1 || runs[0].Counts["failed"] != 1 {
		t.Fatalf("unexpected run: %+v", runs[0])
	}
}

func TestInsertExtractions(t *testing.T) {
	db := openTestDB(t)
	if err := db.StartRun("trace-x", "extract"); err != nil {
		t.Fatal(err)
	}
	entries := []internal.TeamEntry{
		{Team: "Chelsea", League: "Premier League", Confederation: "UEFA", ImageURL: "https://x/c.png"},
		{Team: "Al Ain", League: "UAE Pro League", Confederation: "AFC", ImageURL: "https://x/a.png"},
	}
	if err := db.InsertExtractions("trace-x", "stdin", entries); err != nil {
		t.Fatal(err)
	}
	n, err := db.CountExtractions("trace-x")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("n=%d", n)
	}
}

func TestMetadata(t *testing.T) {
	db := openTestDB(t)

	missing, err := db.GetMetadata("nope")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Fatalf("expected nil, got %q", *missing)
	}

	if err := db.SetMetadata("materialize.last_trace", "a"); err != nil {
		t.Fatal(err)
	}
	if err := db.SetMetadata("materialize.last_trace", "b"); err != nil {
		t.Fatal(err)
	}
	got, err := db.GetMetadata("materialize.last_trace")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || *got != "b" {
		t.Fatalf("got %v", got)
	}
}

func TestGetRun(t *testing.T) {
	db := openTestDB(t)

	missing, err := db.GetRun("nope")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Fatalf("expected nil, got %+v", missing)
	}

	if err := db.StartRun("trace-2", "extract"); err != nil {
		t.Fatal(err)
	}
	run, err := db.GetRun("trace-2")
	if err != nil {
		t.Fatal(err)
	}
	if run == nil || run.Pipeline != "extract" || run.FinishedAt != "" {
		t.Fatalf("unexpected run: %+v", run)
	}

	if err := db.FinishRun("trace-2", map[string]int{"teams": 3}, nil); err != nil {
		t.Fatal(err)
	}
	run, err = db.GetRun("trace-2")
	if err != nil {
		t.Fatal(err)
	}
	if run.FinishedAt == "" || run.Counts["teams"] != 3 {
		t.Fatalf("unexpected run: %+v", run)
	}
}
