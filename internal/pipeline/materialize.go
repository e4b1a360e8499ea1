package pipeline

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"clublogos/internal"
	"clublogos/internal/config"
	"clublogos/internal/fetch"
	"clublogos/internal/storage"
	"clublogos/internal/util"
)

const pipelineMaterialize = "materialize"

type MaterializeOptions struct {
	LogosDir        string
	TeamsJSONPath   string
	LogoURLPrefix   string
	CollisionPolicy string
	Out             io.Writer
}

func OptionsFromConfig(cfg config.Config) MaterializeOptions {
	return MaterializeOptions{
		LogosDir:        cfg.LogosDir,
		TeamsJSONPath:   cfg.TeamsJSONPath,
		LogoURLPrefix:   cfg.LogoURLPrefix,
		CollisionPolicy: cfg.CollisionPolicy,
	}
}

type MaterializeResult struct {
	TraceID    string
	Records    []internal.TeamRecord
	Attempted  int
	Failed     int
	Collisions int
}

type Materializer struct {
	fetcher fetch.Fetcher
	db      *storage.DB
	opts    MaterializeOptions
	out     io.Writer
}

// NewMaterializer wires a fetcher and an optional ledger (db may be nil).
func NewMaterializer(fetcher fetch.Fetcher, db *storage.DB, opts MaterializeOptions) *Materializer {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	if opts.CollisionPolicy == "" {
		opts.CollisionPolicy = config.CollisionOverwrite
	}
	return &Materializer{fetcher: fetcher, db: db, opts: opts, out: out}
}

// PrepareDirs creates the output directories. It must run once before Run
// and is safe to call when they already exist.
func PrepareDirs(dirs ...string) error {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

// Run downloads every logo in order and writes the teams document once all
// of them were attempted. A failed download drops that team and nothing else.
func (m *Materializer) Run(ctx context.Context, teams []internal.SeedTeam) (MaterializeResult, error) {
	start := time.Now()
	result := MaterializeResult{TraceID: uuid.NewString(), Records: []internal.TeamRecord{}}
	m.ledger(func(db *storage.DB) error { return db.StartRun(result.TraceID, pipelineMaterialize) })

	seen := map[string]string{}
	for _, team := range teams {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Attempted++

		id := util.NormalizeID(team.Name)
		filename := util.LogoFilename(id, team.ImageURL)
		localPath := filepath.Join(m.opts.LogosDir, filename)
		row := internal.DownloadRow{TraceID: result.TraceID, TeamID: id, Name: team.Name, League: team.League, ImageURL: team.ImageURL}

		if prev, dup := seen[id]; dup && m.opts.CollisionPolicy == config.CollisionReject {
			fmt.Fprintf(m.out, "Skipping %s: id %q already used by %s\n", team.Name, id, prev)
			result.Collisions++
			row.Status = internal.DownloadRejected
			row.Error = fmt.Sprintf("id collision with %s", prev)
			m.ledger(func(db *storage.DB) error { return db.InsertDownload(row) })
			continue
		}

		fmt.Fprintf(m.out, "Downloading %s logo...\n", team.Name)
		blob, err := m.download(ctx, team.ImageURL, localPath)
		if err != nil {
			fmt.Fprintf(m.out, "  Error downloading %s logo: %v\n", team.Name, err)
			result.Failed++
			row.Status = internal.DownloadFailed
			row.Error = err.Error()
			m.ledger(func(db *storage.DB) error { return db.InsertDownload(row) })
			continue
		}

		if _, dup := seen[id]; !dup {
			seen[id] = team.Name
		}
		result.Records = append(result.Records, internal.TeamRecord{
			ID:     id,
			Name:   team.Name,
			League: team.League,
			Logo:   m.opts.LogoURLPrefix + filename,
		})
		fmt.Fprintf(m.out, "  Saved to %s\n", localPath)

		sum := sha256.Sum256(blob)
		row.Status = internal.DownloadOK
		row.LocalPath = localPath
		row.SHA256 = hex.EncodeToString(sum[:])
		row.Bytes = len(blob)
		m.ledger(func(db *storage.DB) error { return db.InsertDownload(row) })
	}

	if err := WriteTeamsJSON(m.opts.TeamsJSONPath, result.Records); err != nil {
		return result, err
	}

	fmt.Fprintf(m.out, "\nDownloaded %d team logos\n", len(result.Records))
	fmt.Fprintf(m.out, "Team mapping data saved to %s\n", m.opts.TeamsJSONPath)

	counts := map[string]int{
		"attempted":  result.Attempted,
		"ok":         len(result.Records),
		"failed":     result.Failed,
		"collisions": result.Collisions,
	}
	m.ledger(func(db *storage.DB) error {
		if err := db.FinishRun(result.TraceID, counts, map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())}); err != nil {
			return err
		}
		return db.SetMetadata("materialize.last_trace", result.TraceID)
	})

	return result, nil
}

// download buffers the whole body before touching disk, so a failed fetch
// never leaves a partial file behind.
func (m *Materializer) download(ctx context.Context, imageURL, localPath string) ([]byte, error) {
	blob, err := m.fetcher.Fetch(ctx, imageURL)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(localPath, blob, 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", localPath, err)
	}
	return blob, nil
}

func (m *Materializer) ledger(fn func(db *storage.DB) error) {
	if m.db == nil {
		return
	}
	if err := fn(m.db); err != nil {
		fmt.Fprintf(m.out, "ledger error: %v\n", err)
	}
}

// WriteTeamsJSON writes {"teams": [...]} with two-space indentation and
// without escaping non-ASCII or HTML characters. The document is encoded in
// full before the file is opened.
func WriteTeamsJSON(path string, records []internal.TeamRecord) error {
	if records == nil {
		records = []internal.TeamRecord{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(internal.TeamsDocument{Teams: records}); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// FindCollisions maps every id produced by more than one seed to the names
// that produced it.
func FindCollisions(teams []internal.SeedTeam) map[string][]string {
	byID := map[string][]string{}
	order := []string{}
	for _, team := range teams {
		id := util.NormalizeID(team.Name)
		if _, ok := byID[id]; !ok {
			order = append(order, id)
		}
		byID[id] = append(byID[id], team.Name)
	}
	out := map[string][]string{}
	for _, id := range order {
		if len(byID[id]) > 1 {
			out[id] = byID[id]
		}
	}
	return out
}
