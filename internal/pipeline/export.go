package pipeline

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"clublogos/internal"
)

func ExportEntriesToXLSX(entries []internal.TeamEntry, outputPath string) error {
	headers := []string{"confederation", "team", "league", "image_url"}
	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []any{e.Confederation, e.Team, e.League, e.ImageURL})
	}
	return writeXLSX(headers, rows, outputPath)
}

func ExportRecordsToXLSX(records []internal.TeamRecord, outputPath string) error {
	headers := []string{"id", "name", "league", "logo"}
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		rows = append(rows, []any{r.ID, r.Name, r.League, r.Logo})
	}
	return writeXLSX(headers, rows, outputPath)
}

func writeXLSX(headers []string, rows [][]any, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
