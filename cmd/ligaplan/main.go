// Command ligaplan downloads the club's match schedules and ranking lists
// and writes them as CSV files (and optionally to SQLite).
//
// Usage:
//
//	ligaplan [flags]                 process all configured teams and rosters
//	ligaplan -extract plan.pdf       print the schedule of one local PDF
//
// Exit codes: 0 success, 1 at least one team or roster failed, 2 usage or
// configuration error.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/kiefholz/ligaplan"
	"github.com/kiefholz/ligaplan/config"
	"github.com/kiefholz/ligaplan/fetch"
	"github.com/kiefholz/ligaplan/halls"
	"github.com/kiefholz/ligaplan/internal/diag"
	"github.com/kiefholz/ligaplan/internal/pipeline"
	"github.com/kiefholz/ligaplan/sink"
	"github.com/kiefholz/ligaplan/store"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	configPath  string
	envFile     string
	outputDir   string
	database    string
	concurrency int
	logLevel    string
	hostMarker  string
	extract     string
	rows        bool
	noDB        bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("ligaplan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&o.envFile, "env", ".env", "dotenv file with LIGAPLAN_* variables (ignored if missing)")
	fs.StringVar(&o.outputDir, "out", "", "output directory (overrides config)")
	fs.StringVar(&o.database, "db", "", "SQLite database path (overrides config)")
	fs.IntVar(&o.concurrency, "concurrency", 0, "teams processed in parallel (overrides config)")
	fs.StringVar(&o.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")
	fs.StringVar(&o.hostMarker, "host", "", "text identifying the club's home matches (overrides config)")
	fs.StringVar(&o.extract, "extract", "", "extract one local schedule PDF to stdout and exit")
	fs.BoolVar(&o.rows, "rows", false, "with -extract, print the reconstructed rows instead of matches")
	fs.BoolVar(&o.noDB, "no-db", false, "do not write to SQLite")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return o, nil
}

func loadConfig(o options) (config.Config, error) {
	if err := config.LoadDotEnv(o.envFile); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Build(o.configPath, os.Environ())
	if err != nil {
		return config.Config{}, err
	}

	cfg = config.Merge(cfg, config.Config{
		OutputDir:   o.outputDir,
		Database:    o.database,
		Concurrency: o.concurrency,
		LogLevel:    o.logLevel,
		HostMarker:  o.hostMarker,
	})
	if o.noDB {
		cfg.Database = config.NoDatabase
	}
	return cfg, cfg.Validate()
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "ligaplan: %v\n", err)
		return exitUsage
	}

	cfg, err := loadConfig(o)
	if err != nil {
		fmt.Fprintf(stderr, "ligaplan: invalid configuration: %v\n", err)
		return exitUsage
	}

	if o.extract != "" {
		return extractFile(cfg, o, stdout, stderr)
	}

	logger := diag.New(stderr, cfg.LogLevel)
	log := logger.Comp("main")

	var opts []pipeline.Option
	opts = append(opts, pipeline.WithLogger(logger))
	if cfg.UseDatabase() {
		db, err := store.Open(cfg.Database)
		if err != nil {
			log.Error("database unavailable", "path", cfg.Database, "err", err)
			return exitFailed
		}
		defer db.Close()
		opts = append(opts, pipeline.WithStore(db))
	}

	client := fetch.New(
		fetch.WithBaseURL(cfg.BaseURL),
		fetch.WithTimeout(cfg.Timeout),
	)

	t := logger.Start("main", "run started", "teams", len(cfg.Teams), "rosters", len(cfg.Rosters))
	summary, err := pipeline.New(cfg, client, opts...).Run(ctx)
	if perr := summary.Print(stdout); perr != nil {
		log.Error("printing summary failed", "err", perr)
	}
	if err != nil {
		t.Fail("run interrupted", err)
		return exitFailed
	}
	if n := summary.Failed(); n > 0 {
		t.Fail("run finished with failures", summary.Err())
		return exitFailed
	}
	t.Finish("run finished", len(summary.Teams))
	return exitOK
}

// extractFile prints the schedule (or rows) of one PDF and its warnings.
func extractFile(cfg config.Config, o options, stdout, stderr io.Writer) int {
	ext := ligaplan.Open(o.extract).
		HostMarker(cfg.HostMarker).
		Seasons(cfg.Seasons...).
		StopScheduleAt(halls.Sentinel)
	defer ext.Close()

	var warnings []ligaplan.Warning
	if o.rows {
		rows, w, err := ext.Rows()
		if err != nil {
			fmt.Fprintf(stderr, "ligaplan: %v\n", err)
			return exitFailed
		}
		for _, r := range rows {
			fmt.Fprintf(stdout, "%d\t%d\t%s\n", r.Key.Page, r.Key.Y, r.Text)
		}
		warnings = w
	} else {
		records, w, err := ext.Schedule()
		if err != nil {
			fmt.Fprintf(stderr, "ligaplan: %v\n", err)
			return exitFailed
		}
		if err := sink.WriteMatches(stdout, records); err != nil {
			fmt.Fprintf(stderr, "ligaplan: %v\n", err)
			return exitFailed
		}
		warnings = w
	}

	if len(warnings) > 0 {
		fmt.Fprintln(stderr, ligaplan.FormatWarnings(warnings))
	}
	return exitOK
}
