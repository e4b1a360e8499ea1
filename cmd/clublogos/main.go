package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"clublogos/internal"
	"clublogos/internal/config"
	"clublogos/internal/fetch"
	"clublogos/internal/pipeline"
	"clublogos/internal/seed"
	"clublogos/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "extract":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "HTML/.eml/.mht file, or - for stdin (prompts when empty)")
		output := fs.String("output", "", "report path (default REPORT_PATH)")
		xlsx := fs.String("xlsx", "", "optional xlsx export path")
		_ = fs.Parse(os.Args[2:])

		stdin := bufio.NewReader(os.Stdin)
		source, markup := *input, ""
		if strings.TrimSpace(source) == "" {
			source, markup, err = promptMarkup(stdin)
		} else {
			markup, err = loadMarkup(source, stdin)
		}
		must(err)

		reportPath := *output
		if reportPath == "" && *input == "" {
			reportPath = prompt(stdin, fmt.Sprintf("Enter output filename (default: %s): ", cfg.ReportPath))
		}
		if reportPath == "" {
			reportPath = cfg.ReportPath
		}

		db := openLedger(cfg)
		if db != nil {
			defer db.Close()
		}
		res, err := pipeline.NewExtractionService(db, os.Stdout).Run(source, markup, reportPath, cfg.ReportTitle)
		must(err)
		if *xlsx != "" {
			must(pipeline.ExportEntriesToXLSX(res.Entries, *xlsx))
			fmt.Printf("exported %d rows to %s\n", len(res.Entries), *xlsx)
		}
	case "materialize":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		seedPath := fs.String("seed", cfg.SeedPath, "seed list (.csv or .xlsx); embedded list when empty")
		xlsx := fs.String("xlsx", "", "optional xlsx export path")
		collisions := fs.String("collisions", cfg.CollisionPolicy, "overwrite|reject")
		_ = fs.Parse(os.Args[2:])
		cfg.CollisionPolicy = strings.ToLower(strings.TrimSpace(*collisions))
		must(cfg.Validate())

		teams, err := loadSeed(*seedPath)
		must(err)
		for id, names := range pipeline.FindCollisions(teams) {
			fmt.Printf("warning: id collision id=%s names=%s policy=%s\n", id, strings.Join(names, "|"), cfg.CollisionPolicy)
		}

		must(pipeline.PrepareDirs(cfg.LogosDir, filepath.Dir(cfg.TeamsJSONPath)))

		db := openLedger(cfg)
		if db != nil {
			defer db.Close()
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		m := pipeline.NewMaterializer(fetch.NewClient(cfg), db, pipeline.OptionsFromConfig(cfg))
		res, err := m.Run(ctx, teams)
		must(err)
		if *xlsx != "" {
			must(pipeline.ExportRecordsToXLSX(res.Records, *xlsx))
			fmt.Printf("exported %d rows to %s\n", len(res.Records), *xlsx)
		}
	case "runs":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		limit := fs.Int("limit", 10, "number of runs to show")
		trace := fs.String("trace", "", "show one run with its per-team rows")
		last := fs.String("last", "", "show the latest run of a pipeline (extract|materialize)")
		_ = fs.Parse(os.Args[2:])

		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()

		traceID := strings.TrimSpace(*trace)
		if traceID == "" && *last != "" {
			traceID, err = pipeline.LastTrace(db, strings.ToLower(strings.TrimSpace(*last)))
			must(err)
		}
		if traceID != "" {
			must(pipeline.DescribeRun(db, traceID, os.Stdout))
			return
		}

		runs, err := db.ListRuns(*limit)
		must(err)
		for _, run := range runs {
			pipeline.WriteRunLine(os.Stdout, run)
		}
	case "lookup":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		name := fs.String("name", "", "team name, id or partial name")
		teamsPath := fs.String("teams", cfg.TeamsJSONPath, "teams.json to read")
		maxLength := fs.Int("max-length", 0, "truncate unknown names to this many characters")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*name) == "" {
			must(fmt.Errorf("--name is required"))
		}

		records, err := pipeline.ReadTeamsJSON(*teamsPath)
		must(err)
		res := pipeline.LookupTeam(records, *name, cfg.PlaceholderLogo, *maxLength)
		if res.Found {
			fmt.Printf("id=%s name=%s league=%s logo=%s\n", res.Record.ID, res.Record.Name, res.Record.League, res.Logo)
		} else {
			fmt.Printf("not found: name=%s logo=%s\n", res.DisplayName, res.Logo)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func promptMarkup(stdin *bufio.Reader) (string, string, error) {
	method := prompt(stdin, "Enter '1' to input HTML from a file or '2' to paste HTML: ")
	if method == "1" {
		path := prompt(stdin, "Enter the HTML file path: ")
		markup, err := pipeline.ReadMarkupFile(path)
		return path, markup, err
	}
	fmt.Println("Paste your HTML content here (press Ctrl+D on Unix/Linux or Ctrl+Z then Enter on Windows when done):")
	markup, err := pipeline.ReadMarkup(stdin)
	return "stdin", markup, err
}

func loadMarkup(source string, stdin io.Reader) (string, error) {
	if source == "-" {
		return pipeline.ReadMarkup(stdin)
	}
	return pipeline.ReadMarkupFile(source)
}

func loadSeed(path string) ([]internal.SeedTeam, error) {
	if strings.TrimSpace(path) == "" {
		return seed.Default()
	}
	return seed.LoadFile(path)
}

func prompt(r *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := r.ReadString('\n')
	return strings.TrimSpace(line)
}

// openLedger returns nil when the ledger is disabled or cannot be opened;
// neither pipeline depends on it.
func openLedger(cfg config.Config) *storage.DB {
	if !cfg.LedgerEnabled {
		return nil
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ledger disabled: %v\n", err)
		return nil
	}
	return db
}

func usage() {
	fmt.Println("usage: clublogos <command>")
	fmt.Println("commands:")
	fmt.Println("  extract [--input=page.html|page.eml|-] [--output=teams_data.txt] [--xlsx=teams.xlsx]")
	fmt.Println("  materialize [--seed=teams.csv|teams.xlsx] [--collisions=overwrite|reject] [--xlsx=teams.xlsx]")
	fmt.Println("  runs [--limit=10] [--trace=<id>|--last=extract|materialize]")
	fmt.Println("  lookup --name=<team> [--teams=data/teams.json] [--max-length=0]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
