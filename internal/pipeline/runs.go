package pipeline

import (
	"fmt"
	"io"

	"clublogos/internal"
	"clublogos/internal/storage"
)

// LastTrace resolves the trace id of the latest finished run of a pipeline.
func LastTrace(db *storage.DB, pipeline string) (string, error) {
	switch pipeline {
	case pipelineExtract, pipelineMaterialize:
	default:
		return "", fmt.Errorf("unknown pipeline: %s", pipeline)
	}
	trace, err := db.GetMetadata(pipeline + ".last_trace")
	if err != nil {
		return "", err
	}
	if trace == nil {
		return "", fmt.Errorf("no %s run recorded", pipeline)
	}
	return *trace, nil
}

// DescribeRun writes one run with its per-team download rows, or the number
// of extracted rows for extract runs.
func DescribeRun(db *storage.DB, traceID string, w io.Writer) error {
	run, err := db.GetRun(traceID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run not found: %s", traceID)
	}
	WriteRunLine(w, *run)

	switch run.Pipeline {
	case pipelineExtract:
		n, err := db.CountExtractions(traceID)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  extractions=%d\n", n)
	case pipelineMaterialize:
		rows, err := db.ListDownloads(traceID)
		if err != nil {
			return err
		}
		for _, row := range rows {
			writeDownloadLine(w, row)
		}
	}
	return nil
}

func WriteRunLine(w io.Writer, run internal.RunRow) {
	finished := run.FinishedAt
	if finished == "" {
		finished = "unfinished"
	}
	fmt.Fprintf(w, "run id=%d trace=%s pipeline=%s started=%s finished=%s", run.ID, run.TraceID, run.Pipeline, run.StartedAt, finished)
	for _, key := range []string{"teams", "confederations", "attempted", "ok", "failed", "collisions"} {
		if v, ok := run.Counts[key]; ok {
			fmt.Fprintf(w, " %s=%d", key, v)
		}
	}
	fmt.Fprintln(w)
}

func writeDownloadLine(w io.Writer, row internal.DownloadRow) {
	fmt.Fprintf(w, "  %-8s id=%s bytes=%d", row.Status, row.TeamID, row.Bytes)
	if row.SHA256 != "" {
		fmt.Fprintf(w, " sha256=%s", row.SHA256)
	}
	if row.Error != "" {
		fmt.Fprintf(w, " error=%q", row.Error)
	}
	fmt.Fprintln(w)
}
