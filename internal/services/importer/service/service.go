// Package service implements the transactional per-file import pipeline
package service

import (
	"context"
	"runtime"
	"sync"
	"time"

	"tmload/internal/core/document"
	"tmload/internal/modkit/repokit"
	"tmload/internal/platform/logger"
	"tmload/internal/services/importer/domain"
	ldom "tmload/internal/services/lookup/domain"
)

// Config holds importer tuning
type Config struct {
	Workers   int    // concurrent files within a batch; <=0 -> 2x GOMAXPROCS
	Batch     int    // files per batch; <=0 -> 20
	ErrorsDir string // per-failed-file diagnostic artifacts
}

const defaultBatch = 20

// Svc drives the import run. One database transaction per file; batches
// are sequential, files within a batch run concurrently
type Svc struct {
	db      repokit.TxRunner
	binder  repokit.Binder[domain.StorageRepo]
	lookups *ldom.Cache
	cfg     Config
}

// Compile-time assertion
var _ domain.Runner = (*Svc)(nil)

// New constructs the importer. The lookup cache must already be fully
// preloaded; handing over a partially built cache silently routes real
// values to the Unknown sentinel
func New(db repokit.TxRunner, binder repokit.Binder[domain.StorageRepo], lookups *ldom.Cache, cfg Config) *Svc {
	if db == nil {
		panic("importer.Service requires a non-nil TxRunner")
	}
	if binder == nil {
		panic("importer.Service requires a non-nil StorageRepo binder")
	}
	if lookups == nil {
		panic("importer.Service requires a preloaded lookup cache")
	}
	return &Svc{db: db, binder: binder, lookups: lookups, cfg: cfg}
}

// ImportDirectory processes every matching file under dir. Cancellation is
// honored between batches; the batch in flight always drains
func (s *Svc) ImportDirectory(ctx context.Context, dir string) (*domain.RunResult, error) {
	start := time.Now()
	files, err := document.CorpusFiles(dir)
	if err != nil {
		return nil, err
	}

	runID, _ := logger.RunID(ctx)
	ictx := domain.NewImportContext(runID, s.cfg.ErrorsDir, s.lookups)

	workers := s.cfg.Workers
	if workers <= 0 {
		workers = 2 * runtime.GOMAXPROCS(0)
	}
	batch := s.cfg.Batch
	if batch <= 0 {
		batch = defaultBatch
	}

	log := logger.C(ctx)
	log.Info().
		Int("files", len(files)).
		Int("workers", workers).
		Int("batch", batch).
		Msg("import starting")

	for lo := 0; lo < len(files); lo += batch {
		if err := ctx.Err(); err != nil {
			log.Warn().
				Int64("imported", ictx.Imported()).
				Int64("errored", ictx.Errored()).
				Msg("import cancelled between batches")
			return ictx.Result(time.Since(start)), err
		}

		hi := lo + batch
		if hi > len(files) {
			hi = len(files)
		}
		s.runBatch(ctx, files[lo:hi], workers, ictx)

		log.Debug().
			Int("batch_end", hi).
			Int64("imported", ictx.Imported()).
			Int64("errored", ictx.Errored()).
			Msg("batch complete")
	}

	res := ictx.Result(time.Since(start))
	log.Info().
		Int64("imported", res.Imported).
		Int64("errored", res.Errored).
		Int("warnings", ictx.Warnings.Len()).
		Dur("elapsed", res.Elapsed).
		Msg("import complete")
	return res, nil
}

// runBatch imports one slice of files with bounded concurrency. Every task
// owns one transaction (and so one connection) for its whole file
func (s *Svc) runBatch(ctx context.Context, files []string, workers int, ictx *domain.ImportContext) {
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for _, path := range files {
		wg.Add(1)
		sem <- struct{}{}
		go func(p string) {
			defer wg.Done()
			defer func() { <-sem }()
			s.importFile(logger.WithFile(ctx, p), p, ictx)
		}(path)
	}
	wg.Wait()
}

// VerifyCounts is the post-run sanity check
func (s *Svc) VerifyCounts(ctx context.Context) (domain.Counts, error) {
	return s.binder.Bind(s.db).FactCounts(ctx)
}
