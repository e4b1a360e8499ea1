package pipeline

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"clublogos/internal"
	"clublogos/internal/storage"
)

const pipelineExtract = "extract"

type ExtractionService struct {
	db  *storage.DB
	out io.Writer
}

type ExtractResult struct {
	TraceID        string
	Entries        []internal.TeamEntry
	Confederations int
}

// NewExtractionService wires an optional ledger (db may be nil).
func NewExtractionService(db *storage.DB, out io.Writer) *ExtractionService {
	if out == nil {
		out = os.Stdout
	}
	return &ExtractionService{db: db, out: out}
}

// Run extracts the teams in markup and writes the text report to reportPath.
// source only labels the run in the ledger.
func (s *ExtractionService) Run(source, markup, reportPath, title string) (ExtractResult, error) {
	start := time.Now()
	entries, err := ExtractTeams(markup)
	if err != nil {
		return ExtractResult{}, err
	}
	if err := SaveReport(reportPath, title, entries); err != nil {
		return ExtractResult{}, err
	}
	fmt.Fprintf(s.out, "Data has been saved to %s\n", reportPath)

	teams, confederations := Summary(entries)
	res := ExtractResult{TraceID: uuid.NewString(), Entries: entries, Confederations: confederations}
	fmt.Fprintf(s.out, "\nExtracted %d teams from %d confederations.\n", teams, confederations)

	if s.db != nil {
		if err := s.record(res, source, start); err != nil {
			fmt.Fprintf(s.out, "ledger error: %v\n", err)
		}
	}
	return res, nil
}

func (s *ExtractionService) record(res ExtractResult, source string, start time.Time) error {
	if err := s.db.StartRun(res.TraceID, pipelineExtract); err != nil {
		return err
	}
	if err := s.db.InsertExtractions(res.TraceID, source, res.Entries); err != nil {
		return err
	}
	counts := map[string]int{"teams": len(res.Entries), "confederations": res.Confederations}
	if err := s.db.FinishRun(res.TraceID, counts, map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())}); err != nil {
		return err
	}
	return s.db.SetMetadata("extract.last_trace", res.TraceID)
}
