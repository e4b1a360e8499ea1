// Package seed loads the (image URL, team name, league) triples fed to the
// logo materializer. The list is trusted input: a malformed line stops the
// run before anything is fetched.
package seed

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"clublogos/internal"
)

//go:embed teams.csv
var defaultList string

var ErrMalformedSeed = errors.New("malformed seed line")

// Default returns the embedded FIFA Club World Cup 2025 list.
func Default() ([]internal.SeedTeam, error) {
	return Parse(strings.NewReader(defaultList))
}

// Parse reads a header line followed by "imageURL,name,league" lines. Only the
// first two commas separate fields, so a league may itself contain commas.
func Parse(r io.Reader) ([]internal.SeedTeam, error) {
	scanner := bufio.NewScanner(r)
	out := []internal.SeedTeam{}
	lineNo := 0
	headerSeen := false
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !headerSeen {
			headerSeen = true
			continue
		}
		team, err := parseFields(lineNo, strings.SplitN(line, ",", 3))
		if err != nil {
			return nil, err
		}
		out = append(out, team)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading seed list: %w", err)
	}
	return out, nil
}

// LoadFile reads a seed list from disk. Workbooks (.xlsx) are read from the
// first sheet with a header row and the triple in columns A to C.
func LoadFile(path string) ([]internal.SeedTeam, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return loadXLSX(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func loadXLSX(path string) ([]internal.SeedTeam, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}

	out := []internal.SeedTeam{}
	headerSeen := false
	for i, row := range rows {
		if isBlankRow(row) {
			continue
		}
		if !headerSeen {
			headerSeen = true
			continue
		}
		team, err := parseFields(i+1, row)
		if err != nil {
			return nil, err
		}
		out = append(out, team)
	}
	return out, nil
}

func parseFields(lineNo int, fields []string) (internal.SeedTeam, error) {
	if len(fields) < 3 {
		return internal.SeedTeam{}, fmt.Errorf("%w: line %d has %d fields, want 3", ErrMalformedSeed, lineNo, len(fields))
	}
	team := internal.SeedTeam{
		LineNo:   lineNo,
		ImageURL: strings.TrimSpace(fields[0]),
		Name:     strings.TrimSpace(fields[1]),
		League:   strings.TrimSpace(fields[2]),
	}
	if team.ImageURL == "" || team.Name == "" {
		return internal.SeedTeam{}, fmt.Errorf("%w: line %d has an empty image URL or team name", ErrMalformedSeed, lineNo)
	}
	return team, nil
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
