// Package repo provides Postgres bindings for the per-file import writes
package repo

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"tmload/internal/modkit/repokit"
	perr "tmload/internal/platform/errors"
	"tmload/internal/platform/store"
	pstrings "tmload/internal/platform/strings"
	andom "tmload/internal/services/analyzer/domain"
	"tmload/internal/services/importer/domain"
)

type (
	// PG is a Postgres binder for domain.StorageRepo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// Compile-time assertion: queries implements domain.StorageRepo
var _ domain.StorageRepo = (*queries)(nil)

// NewPG returns a Postgres binder for StorageRepo
func NewPG() repokit.Binder[domain.StorageRepo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) domain.StorageRepo { return &queries{q: q} }

// numArg renders a decimal for a NUMERIC parameter, nil for NULL
func numArg(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

// EnrichCostCentre merges geo fields monotonically: a new non-null wins,
// a null never clears. The single upsert keeps concurrent enrichments from
// different files convergent regardless of commit order
func (r *queries) EnrichCostCentre(ctx context.Context, v andom.CompoundValue) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO lookup.cost_centre AS t (code, name, formatted_address, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT ((lower(code))) DO UPDATE SET
			name              = CASE WHEN EXCLUDED.name <> '' THEN EXCLUDED.name ELSE t.name END,
			formatted_address = COALESCE(EXCLUDED.formatted_address, t.formatted_address),
			latitude          = COALESCE(EXCLUDED.latitude, t.latitude),
			longitude         = COALESCE(EXCLUDED.longitude, t.longitude)
	`, v.Code, v.Name, pstrings.SQLNull(v.FormattedAddress), v.Latitude, v.Longitude)
	return perr.FromPostgresf(err, "enrich cost centre %s", v.Code)
}

// UpsertMovement writes the movement by its natural key and returns the
// surrogate id either way
func (r *queries) UpsertMovement(ctx context.Context, m domain.MovementRow) (int64, error) {
	id, err := store.Scalar[int64](ctx, r.q, `
		INSERT INTO fact.movement (
			movement_id, employee_id, movement_type_id, status_id,
			start_date, end_date,
			workflow_step, created_by, created_date, last_modified_date,
			approved_by, approved_date, imported_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now())
		ON CONFLICT (movement_id) DO UPDATE SET
			employee_id        = EXCLUDED.employee_id,
			movement_type_id   = EXCLUDED.movement_type_id,
			status_id          = EXCLUDED.status_id,
			start_date         = EXCLUDED.start_date,
			end_date           = EXCLUDED.end_date,
			workflow_step      = EXCLUDED.workflow_step,
			created_by         = EXCLUDED.created_by,
			created_date       = EXCLUDED.created_date,
			last_modified_date = EXCLUDED.last_modified_date,
			approved_by        = EXCLUDED.approved_by,
			approved_date      = EXCLUDED.approved_date,
			imported_at        = now()
		RETURNING id
	`,
		m.MovementID, m.EmployeeID, m.MovementTypeID, m.StatusID,
		m.StartDate, m.EndDate,
		m.WorkflowStep, m.CreatedBy, m.CreatedDate, m.LastModifiedDate,
		m.ApprovedBy, m.ApprovedDate,
	)
	if err != nil {
		return 0, perr.FromPostgresf(err, "upsert movement %s", m.MovementID)
	}
	return id, nil
}

// ReplaceParticipants deletes every participant of the movement then
// re-inserts the document's current set
func (r *queries) ReplaceParticipants(ctx context.Context, movementFK int64, rows []domain.ParticipantRow) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM fact.participant WHERE movement_fk = $1`, movementFK); err != nil {
		return perr.FromPostgresf(err, "delete participants")
	}
	for _, p := range rows {
		_, err := r.q.Exec(ctx, `
			INSERT INTO fact.participant (
				movement_fk, role_id, name, employee_id, email,
				banner_id, department_id, cost_centre_id
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, movementFK, p.RoleID, p.Name, p.EmployeeID, p.Email,
			p.BannerID, p.DepartmentID, p.CostCentreID)
		if err != nil {
			return perr.FromPostgresf(err, "insert participant")
		}
	}
	return nil
}

// ReplaceJobInfo clears the slot and refills it when row is non-nil
func (r *queries) ReplaceJobInfo(ctx context.Context, movementFK int64, isCurrent bool, row *domain.JobInfoRow) error {
	if _, err := r.q.Exec(ctx,
		`DELETE FROM fact.job_info WHERE movement_fk = $1 AND is_current = $2`,
		movementFK, isCurrent); err != nil {
		return perr.FromPostgresf(err, "delete job_info slot")
	}
	if row == nil {
		return nil
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO fact.job_info (
			movement_fk, is_current,
			employee_group_id, employee_subgroup_id, banner_id, brand_id,
			business_group_id, department_id, cost_centre_id,
			position_title, position_grade,
			manager_name, manager_employee_id, manager_cost_centre_id,
			working_days_per_week, hours_per_week, base_salary, hourly_rate,
			effective_date
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`, movementFK, isCurrent,
		row.EmployeeGroupID, row.EmployeeSubGroupID, row.BannerID, row.BrandID,
		row.BusinessGroupID, row.DepartmentID, row.CostCentreID,
		row.PositionTitle, row.PositionGrade,
		row.ManagerName, row.ManagerEmployeeID, row.ManagerCostCentreID,
		numArg(row.WorkingDaysPerWeek), numArg(row.HoursPerWeek),
		numArg(row.BaseSalary), numArg(row.HourlyRate),
		row.EffectiveDate)
	return perr.FromPostgresf(err, "insert job_info slot")
}

// ReplaceContractSlot clears the slot (weeks and below go with it via
// cascade) and inserts the fresh contract when row is non-nil
func (r *queries) ReplaceContractSlot(ctx context.Context, movementFK int64, isCurrent bool, row *domain.ContractRow) (int64, error) {
	if _, err := r.q.Exec(ctx,
		`DELETE FROM fact.contract WHERE movement_fk = $1 AND is_current = $2`,
		movementFK, isCurrent); err != nil {
		return 0, perr.FromPostgresf(err, "delete contract slot")
	}
	if row == nil {
		return 0, nil
	}
	id, err := store.Scalar[int64](ctx, r.q, `
		INSERT INTO fact.contract (movement_fk, is_current, working_days_per_week, hours_per_week)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, movementFK, isCurrent, numArg(row.WorkingDaysPerWeek), numArg(row.HoursPerWeek))
	if err != nil {
		return 0, perr.FromPostgresf(err, "insert contract slot")
	}
	return id, nil
}

// AddMutualFlag links one mutual flag to a contract; duplicates (two
// unknown flags resolving to the same sentinel) are ignored
func (r *queries) AddMutualFlag(ctx context.Context, contractFK, flagID int64) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO fact.contract_mutual_flag (contract_fk, mutual_flag_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, contractFK, flagID)
	return perr.FromPostgresf(err, "insert mutual flag")
}

// InsertWeek adds one rotation week and returns its id
func (r *queries) InsertWeek(ctx context.Context, contractFK int64, row domain.WeekRow) (int64, error) {
	id, err := store.Scalar[int64](ctx, r.q, `
		INSERT INTO fact.contract_week (contract_fk, week_index, week_number)
		VALUES ($1, $2, $3)
		RETURNING id
	`, contractFK, row.WeekIndex, row.WeekNumber)
	if err != nil {
		return 0, perr.FromPostgresf(err, "insert contract week %d", row.WeekIndex)
	}
	return id, nil
}

// InsertSchedule adds one weekday schedule and returns its id
func (r *queries) InsertSchedule(ctx context.Context, weekFK int64, row domain.ScheduleRow) (int64, error) {
	id, err := store.Scalar[int64](ctx, r.q, `
		INSERT INTO fact.daily_schedule (week_fk, day_code, start_seconds, end_seconds)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, weekFK, row.DayCode, row.StartSeconds, row.EndSeconds)
	if err != nil {
		return 0, perr.FromPostgresf(err, "insert daily schedule %s", row.DayCode)
	}
	return id, nil
}

// InsertBreak adds one break under a daily schedule
func (r *queries) InsertBreak(ctx context.Context, scheduleFK int64, row domain.BreakRow) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO fact.schedule_break (schedule_fk, break_type_id, duration_minutes, start_seconds)
		VALUES ($1, $2, $3, $4)
	`, scheduleFK, row.BreakTypeID, numArg(row.DurationMinutes), row.StartSeconds)
	return perr.FromPostgresf(err, "insert schedule break")
}

// ReplaceHistory deletes the movement's events then re-inserts them in
// document order with 0-based indexes
func (r *queries) ReplaceHistory(ctx context.Context, movementFK int64, rows []domain.HistoryRow) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM fact.history_event WHERE movement_fk = $1`, movementFK); err != nil {
		return perr.FromPostgresf(err, "delete history")
	}
	for _, h := range rows {
		payload := h.Payload
		if len(payload) == 0 {
			payload = []byte(`{}`)
		}
		_, err := r.q.Exec(ctx, `
			INSERT INTO fact.history_event (
				movement_fk, event_index, event_type_id, actor, event_time, notes, payload
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, movementFK, h.EventIndex, h.EventTypeID, h.Actor, h.EventTime, h.Notes, payload)
		if err != nil {
			return perr.FromPostgresf(err, "insert history event %d", h.EventIndex)
		}
	}
	return nil
}

// ReplaceTags deletes then re-inserts the movement's tags; duplicate
// values in one document are silently collapsed
func (r *queries) ReplaceTags(ctx context.Context, movementFK int64, tags []string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM fact.tag WHERE movement_fk = $1`, movementFK); err != nil {
		return perr.FromPostgresf(err, "delete tags")
	}
	if len(tags) == 0 {
		return nil
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO fact.tag (movement_fk, value)
		SELECT $1, v FROM unnest($2::text[]) AS t(v)
		ON CONFLICT DO NOTHING
	`, movementFK, tags)
	return perr.FromPostgresf(err, "insert tags")
}

// FactCounts returns the two primary fact table totals
func (r *queries) FactCounts(ctx context.Context) (domain.Counts, error) {
	c, err := store.One(ctx, r.q, func(row repokit.Row) (domain.Counts, error) {
		var c domain.Counts
		err := row.Scan(&c.Movements, &c.Participants)
		return c, err
	}, `
		SELECT
			(SELECT count(*) FROM fact.movement),
			(SELECT count(*) FROM fact.participant)
	`)
	if err != nil {
		return domain.Counts{}, perr.FromPostgres(err, "fact counts")
	}
	return c, nil
}

// Savepoint opens a named savepoint on the file transaction
func (r *queries) Savepoint(ctx context.Context, name string) error {
	_, err := r.q.Exec(ctx, fmt.Sprintf("SAVEPOINT %s", name))
	return perr.FromPostgresf(err, "savepoint %s", name)
}

// RollbackTo unwinds to a named savepoint, clearing the aborted state so
// the transaction can continue
func (r *queries) RollbackTo(ctx context.Context, name string) error {
	_, err := r.q.Exec(ctx, fmt.Sprintf("ROLLBACK TO SAVEPOINT %s", name))
	return perr.FromPostgresf(err, "rollback to savepoint %s", name)
}

// Release discards a named savepoint after its scope succeeded
func (r *queries) Release(ctx context.Context, name string) error {
	_, err := r.q.Exec(ctx, fmt.Sprintf("RELEASE SAVEPOINT %s", name))
	return perr.FromPostgresf(err, "release savepoint %s", name)
}
