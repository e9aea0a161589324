package service

import (
	"context"
	"os"

	"tmload/internal/core/document"
	"tmload/internal/modkit/repokit"
	perr "tmload/internal/platform/errors"
	"tmload/internal/platform/logger"
	andom "tmload/internal/services/analyzer/domain"
	"tmload/internal/services/importer/domain"
)

// importFile runs the whole pipeline for one file: parse, one transaction
// at read committed for steps 3-9, commit. Any failure rolls the file back,
// writes a diagnostic artifact, and lets the run continue
func (s *Svc) importFile(ctx context.Context, path string, ictx *domain.ImportContext) {
	log := logger.C(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		log.Error().Err(err).Msg("read failed")
		ictx.AddErrored()
		writeDiagnostic(ctx, ictx, path, perr.WrapIf(err, perr.ErrorCodeIO, "read file"))
		return
	}

	doc, err := document.Decode(data)
	if err != nil {
		log.Error().Err(err).Msg("parse failed")
		ictx.AddErrored()
		writeDiagnostic(ctx, ictx, path, err)
		return
	}

	err = s.db.Tx(ctx, func(q repokit.Queryer) error {
		return s.writeDocument(ctx, s.binder.Bind(q), doc, ictx)
	})
	if err != nil {
		log.Error().Err(err).Msg("import failed, rolled back")
		ictx.AddErrored()
		writeDiagnostic(ctx, ictx, path, err)
		return
	}

	// counted only after the commit went through
	ictx.AddImported()
	log.Debug().Str("movement", doc.MovementID).Msg("file imported")
}

// writeDocument is the fallible body of the file transaction. The first
// failure short-circuits to rollback; enrichment and contract sub-entities
// are tolerated scopes handled inside their own savepoints
func (s *Svc) writeDocument(ctx context.Context, repo domain.StorageRepo, doc *document.Document, ictx *domain.ImportContext) error {
	// enrichment first so later cost-centre references land on merged rows
	s.enrichCostCentres(ctx, repo, doc, ictx)

	movementFK, err := repo.UpsertMovement(ctx, buildMovement(doc, ictx))
	if err != nil {
		return err
	}

	if err := repo.ReplaceParticipants(ctx, movementFK, buildParticipants(doc, ictx)); err != nil {
		return err
	}

	if err := repo.ReplaceJobInfo(ctx, movementFK, true, buildJobInfo(doc.CurrentJobInfo, true, ictx)); err != nil {
		return err
	}
	if err := repo.ReplaceJobInfo(ctx, movementFK, false, buildJobInfo(doc.NewJobInfo, false, ictx)); err != nil {
		return err
	}

	if err := s.writeContract(ctx, repo, movementFK, true, doc.CurrentContract, ictx); err != nil {
		return err
	}
	if err := s.writeContract(ctx, repo, movementFK, false, doc.NewContract, ictx); err != nil {
		return err
	}

	if err := repo.ReplaceHistory(ctx, movementFK, buildHistory(doc, ictx)); err != nil {
		return err
	}

	return repo.ReplaceTags(ctx, movementFK, doc.Tags)
}

// writeContract replaces one contract slot. The contract row itself is a
// hard failure; mutual flags, weeks, and the days within a week are each
// tolerated scopes, so a broken shift costs a warning, not the file
func (s *Svc) writeContract(ctx context.Context, repo domain.StorageRepo, movementFK int64, isCurrent bool, c *document.Contract, ictx *domain.ImportContext) error {
	contractFK, err := repo.ReplaceContractSlot(ctx, movementFK, isCurrent, buildContract(c, isCurrent, ictx))
	if err != nil {
		return err
	}
	if c == nil {
		return nil
	}

	for _, flag := range c.MutualFlags {
		flagID := ictx.Lookups.Resolve(andom.CategoryMutualFlag, flag)
		tolerated(ctx, repo, "flag", ictx, func() error {
			return repo.AddMutualFlag(ctx, contractFK, flagID)
		})
	}

	for i := range c.Weeks {
		w := &c.Weeks[i]
		tolerated(ctx, repo, "wk", ictx, func() error {
			weekFK, err := repo.InsertWeek(ctx, contractFK, buildWeek(i, w, ictx))
			if err != nil {
				return err
			}
			for j := range w.Days {
				d := &w.Days[j]
				tolerated(ctx, repo, "day", ictx, func() error {
					return s.writeDay(ctx, repo, weekFK, d, ictx)
				})
			}
			return nil
		})
	}
	return nil
}

// writeDay inserts one weekday schedule plus its breaks
func (s *Svc) writeDay(ctx context.Context, repo domain.StorageRepo, weekFK int64, d *document.Day, ictx *domain.ImportContext) error {
	scheduleFK, err := repo.InsertSchedule(ctx, weekFK, buildSchedule(d, ictx))
	if err != nil {
		return err
	}
	if d.Shift == nil {
		return nil
	}
	for k := range d.Shift.Breaks {
		b := &d.Shift.Breaks[k]
		tolerated(ctx, repo, "brk", ictx, func() error {
			return repo.InsertBreak(ctx, scheduleFK, buildBreak(b, ictx))
		})
	}
	return nil
}

// tolerated runs fn inside a savepoint. On failure the savepoint is rolled
// back (clearing the aborted transaction state), a warning is recorded,
// and the caller carries on. A savepoint that cannot even be opened means
// the transaction itself is gone, which the next hard write will surface
func tolerated(ctx context.Context, repo domain.StorageRepo, name string, ictx *domain.ImportContext, fn func() error) {
	if err := repo.Savepoint(ctx, name); err != nil {
		logger.C(ctx).Warn().Err(err).Msg("savepoint open failed")
		return
	}
	if err := fn(); err != nil {
		logger.C(ctx).Warn().Err(err).Str("scope", name).Msg("tolerated failure")
		ictx.Warnings.Warnf("%s: %v", name, err)
		if rbErr := repo.RollbackTo(ctx, name); rbErr != nil {
			logger.C(ctx).Warn().Err(rbErr).Msg("savepoint rollback failed")
		}
		return
	}
	if err := repo.Release(ctx, name); err != nil {
		logger.C(ctx).Warn().Err(err).Msg("savepoint release failed")
	}
}
