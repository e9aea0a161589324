package domain

import (
	"context"

	andom "tmload/internal/services/analyzer/domain"
)

// Runner drives a full import over a corpus directory
type Runner interface {
	// ImportDirectory processes every matching file under dir in bounded
	// parallel batches. Per-file failures are counted and diagnosed, never
	// propagated; the returned error covers only run-level problems
	// (unreadable directory, cancelled context)
	ImportDirectory(ctx context.Context, dir string) (*RunResult, error)

	// VerifyCounts returns fact row counts for a post-run sanity check
	VerifyCounts(ctx context.Context) (Counts, error)
}

// StorageRepo is the per-transaction write surface of one file import.
// Every method runs on the file's transaction; savepoints carve out the
// tolerated sub-failure scopes (enrichment, contract weeks and days)
type StorageRepo interface {
	// EnrichCostCentre atomically merges geo fields into the cost-centre
	// row, preferring new non-null values and never clearing stored ones
	EnrichCostCentre(ctx context.Context, v andom.CompoundValue) error

	// UpsertMovement writes the movement by natural key and returns its
	// surrogate id
	UpsertMovement(ctx context.Context, row MovementRow) (int64, error)

	ReplaceParticipants(ctx context.Context, movementFK int64, rows []ParticipantRow) error

	// ReplaceJobInfo clears one slot and, when row is non-nil, refills it
	ReplaceJobInfo(ctx context.Context, movementFK int64, isCurrent bool, row *JobInfoRow) error

	// ReplaceContractSlot clears one slot (cascading to weeks and below)
	// and, when row is non-nil, inserts the fresh contract returning its id
	ReplaceContractSlot(ctx context.Context, movementFK int64, isCurrent bool, row *ContractRow) (int64, error)

	AddMutualFlag(ctx context.Context, contractFK, flagID int64) error
	InsertWeek(ctx context.Context, contractFK int64, row WeekRow) (int64, error)
	InsertSchedule(ctx context.Context, weekFK int64, row ScheduleRow) (int64, error)
	InsertBreak(ctx context.Context, scheduleFK int64, row BreakRow) error

	ReplaceHistory(ctx context.Context, movementFK int64, rows []HistoryRow) error
	ReplaceTags(ctx context.Context, movementFK int64, tags []string) error

	// FactCounts returns movement and participant totals for verification
	FactCounts(ctx context.Context) (Counts, error)

	// Savepoint / RollbackTo / Release bracket a tolerated scope inside
	// the file transaction
	Savepoint(ctx context.Context, name string) error
	RollbackTo(ctx context.Context, name string) error
	Release(ctx context.Context, name string) error
}
