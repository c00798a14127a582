package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/codewithboateng/scalint/internal/api"
	"github.com/codewithboateng/scalint/internal/astio"
	"github.com/codewithboateng/scalint/internal/engine"
	"github.com/codewithboateng/scalint/internal/ir"
	"github.com/codewithboateng/scalint/internal/reporting"
	"github.com/codewithboateng/scalint/internal/rules"
	"github.com/codewithboateng/scalint/internal/rulesdsl"
	"github.com/codewithboateng/scalint/internal/security"
	"github.com/codewithboateng/scalint/internal/shared"
	"github.com/codewithboateng/scalint/internal/storage"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "analyze":
		analyzeCmd(os.Args[2:])
	case "report":
		reportCmd(os.Args[2:])
	case "diff":
		diffCmd(os.Args[2:])
	case "rules":
		rulesCmd(os.Args[2:])
	case "serve":
		serveCmd(os.Args[2:])
	case "user":
		userCmd(os.Args[2:])
	case "version":
		fmt.Println("scalint IR:", ir.Version)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `scalint - anti-pattern analyzer for parsed source trees

Usage:
  scalint analyze --path <ast-dir> --out <reports-dir> [--db ./scalint.db] [--fail-threshold error] [--config ./configs/scalint.yaml]
  scalint report  --run <run-id>   --out <reports-dir> [--db ./scalint.db] [--config ./configs/scalint.yaml]
  scalint diff    --base <run-id> --head <run-id> --out <reports-dir> [--db ./scalint.db]
  scalint rules
  scalint serve   [--addr :8471] [--db ./scalint.db]
  scalint user    --name <username> --password <pw> [--role admin] [--db ./scalint.db]
  scalint version

Exit codes for analyze: 0 passing, 1 failing, 130 cancelled, 2 usage.
`)
}

func analyzeCmd(args []string) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	inPath := fs.String("path", "", "Directory of *.ast.json documents")
	outDir := fs.String("out", "", "Output directory for reports")
	dbPath := fs.String("db", "", "SQLite database path")
	failThreshold := fs.String("fail-threshold", "", "Severity that fails the run (info|warning|error)")
	maxConc := fs.Int("max-concurrency", 0, "Parallel unit limit (default NumCPU)")
	timeout := fs.Duration("timeout", 0, "Per-unit traversal timeout")
	enabled := fs.String("rules", "", "Comma-separated rule ids to enable (default all)")
	_ = fs.Parse(args)

	cfg, err := shared.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "analyze:", err)
		os.Exit(2)
	}
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	// precedence: flags > env > config > defaults
	if *inPath == "" && len(cfg.Analysis.Inputs) > 0 {
		*inPath = cfg.Analysis.Inputs[0]
	}
	if *outDir == "" {
		*outDir = cfg.Reporting.OutDir
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}
	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "analyze: --path (or analysis.inputs in config) is required")
		os.Exit(2)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, "analyze: cannot create out dir:", err)
		os.Exit(1)
	}

	// Extra rule packs register before the snapshot is taken.
	for _, pack := range cfg.Analysis.RulePacks {
		n, err := rulesdsl.LoadAndRegister(pack)
		if err != nil {
			slog.Error("rule pack error", "pack", pack, "err", err)
			os.Exit(2)
		}
		slog.Info("rule pack loaded", "pack", pack, "rules", n)
	}

	ecfg, err := cfg.EngineConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "analyze:", err)
		os.Exit(2)
	}
	if *failThreshold != "" {
		sev, ok := ir.ParseSeverity(*failThreshold)
		if !ok {
			fmt.Fprintln(os.Stderr, "analyze: unknown --fail-threshold", *failThreshold)
			os.Exit(2)
		}
		ecfg.FailThreshold = sev
	}
	if *maxConc > 0 {
		ecfg.MaxConcurrency = *maxConc
	}
	if *timeout > 0 {
		ecfg.PerUnitTimeout = *timeout
	}
	if *enabled != "" {
		ecfg.EnabledRules = strings.Split(*enabled, ",")
	}

	units, err := astio.LoadDir(*inPath)
	if err != nil {
		slog.Error("load error", "err", err)
		os.Exit(1)
	}
	if len(units) == 0 {
		slog.Warn("no AST documents found", "path", *inPath)
	}

	// SIGINT cancels cooperatively: in-flight units finish, the rest drop.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := openStore(*dbPath)
	if err != nil {
		slog.Error("db open error", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rep, err := runAnalysis(ctx, units, ecfg, db)
	if err != nil {
		slog.Error("analyze error", "err", err)
		os.Exit(2)
	}
	rep.Source = *inPath

	if err := db.SaveReport(&rep); err != nil {
		slog.Error("db save error", "err", err)
		os.Exit(1)
	}

	jsonPath, _ := reporting.WriteJSON(rep.ID, *outDir, &rep)
	htmlPath, _ := reporting.WriteHTML(rep.ID, *outDir, &rep)
	sarifPath, _ := reporting.WriteSARIF(rep.ID, *outDir, &rep)
	slog.Info("analyze complete",
		"run", rep.ID,
		"status", rep.Status,
		"findings", len(rep.Findings),
		"json", jsonPath,
		"html", htmlPath,
		"sarif", sarifPath,
	)
	_ = reporting.WriteText(os.Stdout, &rep)
	os.Exit(rep.Status.ExitCode())
}

// runAnalysis runs the engine and applies active waivers from the archive.
func runAnalysis(ctx context.Context, units []ir.SourceUnit, ecfg engine.Config, db *storage.DB) (ir.Report, error) {
	rep, err := engine.Analyze(ctx, units, ecfg)
	if err != nil {
		return ir.Report{}, err
	}

	waivers, err := db.ListWaivers(true)
	if err != nil {
		return ir.Report{}, err
	}
	if len(waivers) > 0 {
		kept, waived := rules.ApplyWaivers(rep.Findings, waivers)
		if waived > 0 {
			slog.Info("waivers applied", "waived", waived)
			rep.Findings = kept
			rep.Summary = ir.Summarize(kept)
			rep.Status = ir.ComputeStatus(kept, rep.FailThreshold, rep.Status == ir.StatusCancelled)
		}
	}

	rep.ID = fmt.Sprintf("run-%d", time.Now().Unix())
	rep.StartedAt = time.Now().UTC()
	return rep, nil
}

func reportCmd(args []string) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	runID := fs.String("run", "", "Run ID")
	outDir := fs.String("out", "", "Output directory")
	dbPath := fs.String("db", "", "SQLite database path")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	if *outDir == "" {
		*outDir = cfg.Reporting.OutDir
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}
	if *runID == "" {
		fmt.Fprintln(os.Stderr, "report: --run is required")
		os.Exit(2)
	}

	db, err := openStore(*dbPath)
	if err != nil {
		slog.Error("db open error", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rep, err := db.LoadReport(*runID)
	if err != nil {
		slog.Error("load run error", "err", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		slog.Error("cannot create out dir", "err", err)
		os.Exit(1)
	}
	jsonPath, _ := reporting.WriteJSON(rep.ID, *outDir, &rep)
	htmlPath, _ := reporting.WriteHTML(rep.ID, *outDir, &rep)
	fmt.Printf("Report OK\n  Run: %s\n  JSON: %s\n  HTML: %s\n", rep.ID, jsonPath, htmlPath)
}

func diffCmd(args []string) {
	fs := flag.NewFlagSet("diff", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	base := fs.String("base", "", "Base run ID")
	head := fs.String("head", "", "Head run ID")
	outDir := fs.String("out", "", "Output directory")
	dbPath := fs.String("db", "", "SQLite database path")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	if *outDir == "" {
		*outDir = cfg.Reporting.OutDir
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}
	if *base == "" || *head == "" {
		fmt.Fprintln(os.Stderr, "diff: --base and --head are required")
		os.Exit(2)
	}
	db, err := openStore(*dbPath)
	if err != nil {
		slog.Error("db open error", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	br, err := db.LoadReport(*base)
	if err != nil {
		slog.Error("load base run error", "err", err)
		os.Exit(1)
	}
	hr, err := db.LoadReport(*head)
	if err != nil {
		slog.Error("load head run error", "err", err)
		os.Exit(1)
	}
	path, err := reporting.WriteDiffJSON(*base, *head, *outDir, &br, &hr)
	if err != nil {
		slog.Error("diff error", "err", err)
		os.Exit(1)
	}
	fmt.Printf("Diff OK\n  %s\n", path)
}

func rulesCmd(args []string) {
	for _, r := range rules.All() {
		fmt.Printf("%-30s %-8s %-12s %s\n", r.ID, r.Severity, r.Category, r.Summary)
	}
}

func serveCmd(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	addr := fs.String("addr", "", "Listen address")
	dbPath := fs.String("db", "", "SQLite database path")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	logger := shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	if *addr == "" {
		*addr = cfg.API.Addr
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}

	db, err := openStore(*dbPath)
	if err != nil {
		slog.Error("db open error", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	srv := &api.Server{
		DB:              db,
		UserStore:       db,
		Logger:          logger,
		AllowedOrigins:  cfg.API.AllowedOrigins,
		SessionDuration: time.Duration(cfg.API.SessionHours) * time.Hour,
	}
	slog.Info("serving", "addr", *addr)
	if err := http.ListenAndServe(*addr, srv.Routes()); err != nil {
		slog.Error("serve error", "err", err)
		os.Exit(1)
	}
}

func userCmd(args []string) {
	fs := flag.NewFlagSet("user", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	name := fs.String("name", "", "Username")
	password := fs.String("password", "", "Password")
	role := fs.String("role", "viewer", "Role (viewer|admin)")
	dbPath := fs.String("db", "", "SQLite database path")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}
	if *name == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "user: --name and --password are required")
		os.Exit(2)
	}
	db, err := openStore(*dbPath)
	if err != nil {
		slog.Error("db open error", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	hash, err := security.HashPassword(*password)
	if err != nil {
		slog.Error("hash error", "err", err)
		os.Exit(1)
	}
	id, err := db.CreateUser(*name, hash, *role)
	if err != nil {
		slog.Error("create user error", "err", err)
		os.Exit(1)
	}
	fmt.Printf("User OK\n  ID: %d\n  Name: %s\n  Role: %s\n", id, *name, *role)
}

func openStore(path string) (*storage.DB, error) {
	db, err := storage.OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	if err := db.CreateSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
