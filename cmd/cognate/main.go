// Command cognate is a CLI over the concept-graph engine: it ingests
// analysis-producer documents and answers graph, trending and maintenance
// queries against the local store.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shearline/cognate/pkg/cognate"
	"github.com/shearline/cognate/pkg/metrics"
	"github.com/shearline/cognate/pkg/persist"
	"github.com/shearline/cognate/pkg/search"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: cognate [-config file] <command> [flags]

Commands:
  ingest    read an analyzed document (JSON) from a file or stdin
  graph     print the filtered concept graph
  trending  print trending concepts for a timeframe
  backup    write a store snapshot to a file or stdout
  restore   replace the store from a snapshot file
  maintain  run maintenance sweeps (orphan edges, frequency recount)
  stats     print per-table row counts
`)
	os.Exit(2)
}

func main() {
	configFlag := flag.String("config", "", "Path to YAML config file")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}

	cfg, err := loadConfig(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := newLogger(cfg.LogLevel)
	collector := metrics.NewNoopCollector()

	engineCfg := cognate.Config{
		Logger:  logger,
		Metrics: collector,
	}

	var prom *metrics.PromCollector
	if cfg.MetricsAddr != "" {
		prom = metrics.NewPromCollector()
		engineCfg.Metrics = prom
	}

	switch cfg.Store {
	case "sqlite":
		blob, err := persist.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to open sqlite store: %v", err)
		}
		engineCfg.Blob = blob
	case "memory":
		engineCfg.Blob = persist.NewMemStore()
	default:
		engineCfg.Path = cfg.DataDir
	}

	engine, err := cognate.New(engineCfg)
	if err != nil {
		log.Fatalf("Failed to initialize engine: %v", err)
	}
	defer engine.Close()

	if prom != nil {
		go serveMetrics(cfg.MetricsAddr, prom, logger)
	}

	cmd, args := flag.Arg(0), flag.Args()[1:]
	if err := run(ctx, engine, cmd, args); err != nil {
		log.Fatalf("%s failed: %v", cmd, err)
	}
}

func run(ctx context.Context, engine *cognate.Engine, cmd string, args []string) error {
	switch cmd {
	case "ingest":
		return runIngest(ctx, engine, args)
	case "graph":
		return runGraph(ctx, engine, args)
	case "trending":
		return runTrending(ctx, engine, args)
	case "backup":
		return runBackup(ctx, engine, args)
	case "restore":
		return runRestore(ctx, engine, args)
	case "maintain":
		return runMaintain(ctx, engine, args)
	case "stats":
		return printJSON(engine.Counts())
	default:
		usage()
		return nil
	}
}

func runIngest(ctx context.Context, engine *cognate.Engine, args []string) error {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	fileFlag := fs.String("file", "", "Document JSON file (default: stdin)")
	fs.Parse(args)

	var data []byte
	var err error
	if *fileFlag != "" {
		data, err = os.ReadFile(*fileFlag)
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	var doc cognate.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid document JSON: %w", err)
	}

	id, err := engine.Ingest(ctx, doc)
	if err != nil {
		return err
	}
	fmt.Printf("Ingested content %s\n", id)
	return nil
}

func runGraph(ctx context.Context, engine *cognate.Engine, args []string) error {
	fs := flag.NewFlagSet("graph", flag.ExitOnError)
	levelFlag := fs.Int("level", 0, "Abstraction level 0-100 (higher = fewer, dominant concepts)")
	queryFlag := fs.String("q", "", "Search query (substring or fuzzy)")
	fs.Parse(args)

	return printJSON(engine.ConceptGraph(ctx, *levelFlag, *queryFlag))
}

func runTrending(ctx context.Context, engine *cognate.Engine, args []string) error {
	fs := flag.NewFlagSet("trending", flag.ExitOnError)
	timeframeFlag := fs.String("timeframe", "weekly", "weekly, monthly or quarterly")
	topFlag := fs.Int("n", search.DefaultTrendingLimit, "Number of results")
	fs.Parse(args)

	return printJSON(engine.TrendingConcepts(ctx, search.Timeframe(*timeframeFlag), *topFlag))
}

func runBackup(ctx context.Context, engine *cognate.Engine, args []string) error {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)
	outFlag := fs.String("out", "", "Output file (default: stdout)")
	fs.Parse(args)

	data, err := engine.Backup(ctx)
	if err != nil {
		return err
	}
	if *outFlag == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(*outFlag, data, 0o644)
}

func runRestore(ctx context.Context, engine *cognate.Engine, args []string) error {
	fs := flag.NewFlagSet("restore", flag.ExitOnError)
	inFlag := fs.String("in", "", "Snapshot file to restore from")
	fs.Parse(args)

	if *inFlag == "" {
		return fmt.Errorf("restore requires -in")
	}
	data, err := os.ReadFile(*inFlag)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	if err := engine.Restore(ctx, data); err != nil {
		return err
	}
	fmt.Println("Store restored")
	return nil
}

func runMaintain(ctx context.Context, engine *cognate.Engine, args []string) error {
	fs := flag.NewFlagSet("maintain", flag.ExitOnError)
	pruneFlag := fs.Bool("prune-edges", true, "Prune relationships with missing endpoints")
	recountFlag := fs.Bool("recount", false, "Recount concept frequencies from surviving links")
	dryRunFlag := fs.Bool("dry-run", false, "Report without mutating")
	fs.Parse(args)

	result, err := engine.Maintain(ctx, cognate.MaintainOptions{
		PruneOrphanEdges:   *pruneFlag,
		RecountFrequencies: *recountFlag,
		DryRun:             *dryRunFlag,
	})
	if err != nil {
		return err
	}
	return printJSON(result)
}

func serveMetrics(addr string, prom *metrics.PromCollector, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(prom.Registry(), promhttp.HandlerOpts{}))
	logger.Info("serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics server stopped", "error", err)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
