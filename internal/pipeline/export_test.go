package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"clublogos/internal"
)

func readSheet(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatal(err)
	}
	return rows
}

func TestExportEntriesToXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "teams.xlsx")
	entries := []internal.TeamEntry{
		{Team: "Chelsea", League: "Premier League", Confederation: "UEFA", ImageURL: "https://x/c.png"},
	}
	if err := ExportEntriesToXLSX(entries, path); err != nil {
		t.Fatal(err)
	}
	rows := readSheet(t, path)
	if len(rows) != 2 {
		t.Fatalf("len=%d", len(rows))
	}
	if rows[0][0] != "confederation" || rows[1][1] != "Chelsea" || rows[1][3] != "https://x/c.png" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestExportRecordsToXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.xlsx")
	records := []internal.TeamRecord{
		{ID: "real-madrid", Name: "Real Madrid", League: "LaLiga", Logo: "/team-logos/real-madrid.png"},
		{ID: "porto", Name: "Porto", League: "Primeira Liga", Logo: "/team-logos/porto.png"},
	}
	if err := ExportRecordsToXLSX(records, path); err != nil {
		t.Fatal(err)
	}
	rows := readSheet(t, path)
	if len(rows) != 3 {
		t.Fatalf("len=%d", len(rows))
	}
	if rows[2][0] != "porto" || rows[1][3] != "/team-logos/real-madrid.png" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}
