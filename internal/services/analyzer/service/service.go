// Package service implements the read-only corpus analysis phase
package service

import (
	"context"
	"os"
	"runtime"
	"sync"

	"tmload/internal/core/document"
	"tmload/internal/platform/logger"
	"tmload/internal/services/analyzer/domain"
)

// Config holds analyzer tuning
type Config struct {
	Workers int // parallel file scanners; <=0 -> 2x GOMAXPROCS
}

// Service walks the corpus and accumulates the lookup universe
type Service struct {
	Cfg Config
}

// New constructs the analyzer service
func New(cfg Config) *Service { return &Service{Cfg: cfg} }

// Analyze scans every matching file under corpusPath. Per-file parse
// failures are recorded and do not stop the scan
func (s *Service) Analyze(ctx context.Context, corpusPath string) (*domain.DiscoveredValues, error) {
	files, err := document.CorpusFiles(corpusPath)
	if err != nil {
		return nil, err
	}

	workers := s.Cfg.Workers
	if workers <= 0 {
		workers = 2 * runtime.GOMAXPROCS(0)
	}
	if workers > len(files) && len(files) > 0 {
		workers = len(files)
	}

	dv := domain.NewDiscoveredValues()
	paths := make(chan string)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range paths {
				s.scanFile(ctx, p, dv)
			}
		}()
	}

feed:
	for _, p := range files {
		select {
		case <-ctx.Done():
			break feed
		case paths <- p:
		}
	}
	close(paths)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scanned, failures := dv.Stats()
	evt := logger.C(ctx).Info().Int("files", scanned).Int("parse_failures", failures)
	for _, cat := range domain.Categories() {
		evt = evt.Int(string(cat), dv.Count(cat))
	}
	evt.Msg("corpus analysis complete")

	return dv, nil
}

// scanFile parses one document and feeds its categorical values into dv
func (s *Service) scanFile(ctx context.Context, path string, dv *domain.DiscoveredValues) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.C(ctx).Warn().Str("file", path).Err(err).Msg("analyzer: read failed")
		dv.RecordFile(true)
		return
	}
	doc, err := document.Decode(data)
	if err != nil {
		logger.C(ctx).Warn().Str("file", path).Err(err).Msg("analyzer: parse failed")
		dv.RecordFile(true)
		return
	}
	Collect(doc, dv)
	dv.RecordFile(false)
}
