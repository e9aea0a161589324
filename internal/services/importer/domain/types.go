// Package domain holds the importer's row model, the per-run context shared
// by all workers, and the run result surfaced to the caller
package domain

import (
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"tmload/internal/core/coerce"
	ldom "tmload/internal/services/lookup/domain"
)

// MovementRow is the upsert image of one movement fact
type MovementRow struct {
	MovementID       string
	EmployeeID       string
	MovementTypeID   int64
	StatusID         int64
	StartDate        *time.Time
	EndDate          *time.Time
	WorkflowStep     string
	CreatedBy        string
	CreatedDate      *time.Time
	LastModifiedDate *time.Time
	ApprovedBy       string
	ApprovedDate     *time.Time
}

// ParticipantRow is one workflow participant fact
type ParticipantRow struct {
	RoleID       int64
	Name         string
	EmployeeID   string
	Email        string
	BannerID     *int64
	DepartmentID *int64
	CostCentreID *int64
}

// JobInfoRow is one job snapshot slot (current or new)
type JobInfoRow struct {
	IsCurrent           bool
	EmployeeGroupID     *int64
	EmployeeSubGroupID  *int64
	BannerID            *int64
	BrandID             *int64
	BusinessGroupID     *int64
	DepartmentID        *int64
	CostCentreID        *int64
	PositionTitle       string
	PositionGrade       string
	ManagerName         string
	ManagerEmployeeID   string
	ManagerCostCentreID *int64
	WorkingDaysPerWeek  *decimal.Decimal
	HoursPerWeek        *decimal.Decimal
	BaseSalary          *decimal.Decimal
	HourlyRate          *decimal.Decimal
	EffectiveDate       *time.Time
}

// ContractRow is one contract snapshot slot (current or new)
type ContractRow struct {
	IsCurrent          bool
	WorkingDaysPerWeek *decimal.Decimal
	HoursPerWeek       *decimal.Decimal
}

// WeekRow is one rotation week under a contract
type WeekRow struct {
	WeekIndex  int
	WeekNumber *int64
}

// ScheduleRow is one weekday under a contract week; times are seconds
// since midnight
type ScheduleRow struct {
	DayCode      string
	StartSeconds *int
	EndSeconds   *int
}

// BreakRow is one scheduled break under a daily schedule
type BreakRow struct {
	BreakTypeID     int64
	DurationMinutes *decimal.Decimal
	StartSeconds    *int
}

// HistoryRow is one ordered history event, raw payload retained
type HistoryRow struct {
	EventIndex  int
	EventTypeID int64
	Actor       string
	EventTime   *time.Time
	Notes       string
	Payload     []byte
}

// Counts is the post-run verification snapshot
type Counts struct {
	Movements    int64
	Participants int64
}

// ImportContext is the shared state of one run: a read-only lookup cache
// snapshot plus thread-safe counters and a warnings sink. One context per
// run, never reused
type ImportContext struct {
	RunID     string
	ErrorsDir string
	Lookups   *ldom.Cache
	Warnings  *coerce.Warnings

	imported atomic.Int64
	errored  atomic.Int64
}

// NewImportContext builds the context for one run
func NewImportContext(runID, errorsDir string, lookups *ldom.Cache) *ImportContext {
	if runID == "" {
		runID = "local"
	}
	return &ImportContext{
		RunID:     runID,
		ErrorsDir: errorsDir,
		Lookups:   lookups,
		Warnings:  coerce.NewWarnings(),
	}
}

// AddImported bumps the imported counter
func (c *ImportContext) AddImported() { c.imported.Add(1) }

// AddErrored bumps the errored counter
func (c *ImportContext) AddErrored() { c.errored.Add(1) }

// Imported returns the files committed so far
func (c *ImportContext) Imported() int64 { return c.imported.Load() }

// Errored returns the files failed so far
func (c *ImportContext) Errored() int64 { return c.errored.Load() }

// maxReportedWarnings bounds the warning list surfaced in a RunResult
const maxReportedWarnings = 200

// Result snapshots the context into a RunResult
func (c *ImportContext) Result(elapsed time.Duration) *RunResult {
	return &RunResult{
		Imported: c.Imported(),
		Errored:  c.Errored(),
		Warnings: c.Warnings.Bounded(maxReportedWarnings),
		Elapsed:  elapsed,
	}
}

// RunResult is the user-visible outcome of one full import run
type RunResult struct {
	Imported int64
	Errored  int64
	Warnings []string
	Elapsed  time.Duration
}
