package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"

	"tmload/internal/core/version"
	"tmload/internal/modkit"
	"tmload/internal/modkit/module"
	"tmload/internal/platform/config"
	"tmload/internal/platform/logger"
	"tmload/internal/platform/store"

	analyzermod "tmload/internal/services/analyzer/module"
	importermod "tmload/internal/services/importer/module"
	lookupmod "tmload/internal/services/lookup/module"
	schemamod "tmload/internal/services/schema/module"
)

func mustSetEnv(key, val string) {
	if val != "" {
		_ = os.Setenv(key, val)
	}
}

func main() {
	var (
		fDir         = flag.String("dir", ".", "corpus directory, scanned recursively")
		fAnalyzeOnly = flag.Bool("analyze-only", false, "scan the corpus and report discovered values without touching the database")
		fSkipSchema  = flag.Bool("skip-schema", false, "skip schema creation/seeding (schema must exist from a prior run)")
		fSkipImport  = flag.Bool("skip-import", false, "stop after schema creation and lookup seeding")
		fVerify      = flag.Bool("verify", true, "run the post-import row count check")
		fWorkers     = flag.Int("workers", 0, "max concurrent files per batch (0 = 2x GOMAXPROCS)")
		fBatch       = flag.Int("batch", 0, "files per batch (0 = default 20)")
		fErrorsDir   = flag.String("errors-dir", "", "directory for per-failed-file diagnostics (default import_errors)")
	)
	flag.Parse()

	root := config.New()
	l := logger.Get()

	bi := version.Info()
	l.Info().
		Str("version", bi.Version).
		Str("commit", bi.Commit).
		Str("built", bi.Date).
		Msg("tmload starting")

	runID := uuid.NewString()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithRun(ctx, runID)

	// Surface flag overrides to modules that read FromConfig
	if *fWorkers > 0 {
		mustSetEnv("TM_ANALYZE_WORKERS", strconv.Itoa(*fWorkers))
		mustSetEnv("TM_IMPORT_WORKERS", strconv.Itoa(*fWorkers))
	}
	if *fBatch > 0 {
		mustSetEnv("TM_IMPORT_BATCH", strconv.Itoa(*fBatch))
	}
	mustSetEnv("TM_IMPORT_ERRORS_DIR", *fErrorsDir)

	// Stage 1: analyze. Read-only, so it runs before any DB connection
	am := analyzermod.New(modkit.Deps{Cfg: root, Log: *l})
	module.Register(am.Name(), am.Ports())

	dv, err := module.MustPortsOf[analyzermod.Ports](am).Scanner.Analyze(ctx, *fDir)
	if err != nil {
		l.Fatal().Err(err).Msg("corpus analysis failed")
	}
	if *fAnalyzeOnly {
		return
	}

	pgCfg := root.Prefix("TM_PGSQL_")
	st, err := store.Open(ctx, store.Config{
		AppName: "tmload",
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 8)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}
	if err := st.Guard(ctx); err != nil {
		l.Fatal().Err(err).Msg("database unreachable")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	deps := modkit.Deps{Cfg: root, Log: *l, PG: st.PG}

	// Stage 2: create and seed the schema from the discovered universe
	if !*fSkipSchema {
		sm := schemamod.New(deps)
		module.Register(sm.Name(), sm.Ports())
		if err := module.MustPortsOf[schemamod.Ports](sm).Creator.CreateSchema(ctx, dv); err != nil {
			l.Fatal().Err(err).Msg("schema creation failed")
		}
	}
	if *fSkipImport {
		return
	}

	// Stage 3: preload lookups, then import. The cache must be complete
	// before the first file task starts
	lm := lookupmod.New(deps)
	module.Register(lm.Name(), lm.Ports())
	cache, err := module.MustPortsOf[lookupmod.Ports](lm).Loader.Preload(ctx)
	if err != nil {
		l.Fatal().Err(err).Msg("lookup preload failed")
	}

	im := importermod.New(deps, cache)
	module.Register(im.Name(), im.Ports())
	runner := module.MustPortsOf[importermod.Ports](im).Runner

	res, err := runner.ImportDirectory(ctx, *fDir)
	if err != nil && res == nil {
		l.Fatal().Err(err).Msg("import failed")
	}

	fmt.Printf("\nImport run %s\n", runID)
	fmt.Printf("  imported: %d\n", res.Imported)
	fmt.Printf("  errored:  %d\n", res.Errored)
	fmt.Printf("  elapsed:  %s\n", res.Elapsed.Round(time.Millisecond))
	if n := len(res.Warnings); n > 0 {
		fmt.Printf("  warnings (%d):\n", n)
		for _, w := range res.Warnings {
			fmt.Printf("    - %s\n", w)
		}
	}
	if cache.Misses() > 0 {
		fmt.Printf("  lookup misses resolved to Unknown: %d\n", cache.Misses())
	}

	if *fVerify {
		counts, err := runner.VerifyCounts(ctx)
		if err != nil {
			l.Error().Err(err).Msg("verification query failed")
		} else {
			fmt.Printf("  movements: %d rows, participants: %d rows\n", counts.Movements, counts.Participants)
		}
	}

	if err != nil {
		// cancelled mid-run; partial counters above are still accurate
		l.Warn().Err(err).Msg("import run interrupted")
		os.Exit(1)
	}
}
