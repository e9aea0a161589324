package service

import (
	"strings"

	"tmload/internal/core/coerce"
	"tmload/internal/core/document"
	andom "tmload/internal/services/analyzer/domain"
	"tmload/internal/services/importer/domain"
	ldom "tmload/internal/services/lookup/domain"
)

// mapping.go flattens one parsed document into the importer's row model.
// Every loose scalar goes through coerce with the run's warnings sink;
// every categorical string resolves through the lookup cache and can only
// ever land on a real id or the Unknown sentinel.

func buildMovement(doc *document.Document, ictx *domain.ImportContext) domain.MovementRow {
	w := ictx.Warnings
	lu := ictx.Lookups
	wf := &doc.Workflow
	return domain.MovementRow{
		MovementID:       doc.MovementID,
		EmployeeID:       doc.EmployeeID,
		MovementTypeID:   lu.Resolve(andom.CategoryMovementType, doc.MovementType),
		StatusID:         lu.Resolve(andom.CategoryStatus, doc.Status),
		StartDate:        coerce.Date(doc.StartDate, "startDate", w),
		EndDate:          coerce.Date(doc.EndDate, "endDate", w),
		WorkflowStep:     wf.Step,
		CreatedBy:        wf.CreatedBy,
		CreatedDate:      coerce.Date(wf.CreatedDate, "workflow.createdDate", w),
		LastModifiedDate: coerce.Date(wf.LastModifiedDate, "workflow.lastModifiedDate", w),
		ApprovedBy:       wf.ApprovedBy,
		ApprovedDate:     coerce.Date(wf.ApprovedDate, "workflow.approvedDate", w),
	}
}

func buildParticipants(doc *document.Document, ictx *domain.ImportContext) []domain.ParticipantRow {
	lu := ictx.Lookups
	rows := make([]domain.ParticipantRow, 0, len(doc.Participants))
	for i := range doc.Participants {
		p := &doc.Participants[i]
		rows = append(rows, domain.ParticipantRow{
			RoleID:       lu.Resolve(andom.CategoryRole, p.Role),
			Name:         p.Name,
			EmployeeID:   p.EmployeeID,
			Email:        p.Email,
			BannerID:     lu.MayResolve(andom.CategoryBanner, p.Banner),
			DepartmentID: mayResolveCode(lu, andom.CategoryDepartment, p.Department),
			CostCentreID: mayResolveCostCentre(lu, p.CostCentre),
		})
	}
	return rows
}

func buildJobInfo(ji *document.JobInfo, isCurrent bool, ictx *domain.ImportContext) *domain.JobInfoRow {
	if ji == nil {
		return nil
	}
	w := ictx.Warnings
	lu := ictx.Lookups

	row := &domain.JobInfoRow{
		IsCurrent:          isCurrent,
		EmployeeGroupID:    lu.MayResolve(andom.CategoryEmployeeGroup, ji.EmployeeGroup),
		EmployeeSubGroupID: lu.MayResolve(andom.CategoryEmployeeSubGroup, ji.EmployeeSubGroup),
		BannerID:           lu.MayResolve(andom.CategoryBanner, ji.Banner),
		BrandID:            mayResolveCode(lu, andom.CategoryBrand, ji.Brand),
		BusinessGroupID:    lu.MayResolve(andom.CategoryBusinessGroup, ji.BusinessGroup),
		DepartmentID:       mayResolveCode(lu, andom.CategoryDepartment, ji.Department),
		CostCentreID:       mayResolveCostCentre(lu, ji.CostCentre),
		WorkingDaysPerWeek: coerce.Decimal(ji.WorkingDaysPerWeek, "jobInfo.workingDaysPerWeek", w),
		HoursPerWeek:       coerce.Decimal(ji.HoursPerWeek, "jobInfo.hoursPerWeek", w),
		BaseSalary:         coerce.Decimal(ji.BaseSalary, "jobInfo.baseSalary", w),
		HourlyRate:         coerce.Decimal(ji.HourlyRate, "jobInfo.hourlyRate", w),
		EffectiveDate:      coerce.Date(ji.EffectiveDate, "jobInfo.effectiveDate", w),
	}
	// position and manager are optional, defaulting to empty strings
	if ji.Position != nil {
		row.PositionTitle = ji.Position.Title
		row.PositionGrade = ji.Position.Grade
	}
	if ji.Manager != nil {
		row.ManagerName = ji.Manager.Name
		row.ManagerEmployeeID = ji.Manager.EmployeeID
		row.ManagerCostCentreID = mayResolveCostCentre(lu, ji.Manager.CostCentre)
	}
	return row
}

func buildContract(c *document.Contract, isCurrent bool, ictx *domain.ImportContext) *domain.ContractRow {
	if c == nil {
		return nil
	}
	w := ictx.Warnings
	return &domain.ContractRow{
		IsCurrent:          isCurrent,
		WorkingDaysPerWeek: coerce.Decimal(c.WorkingDaysPerWeek, "contract.workingDaysPerWeek", w),
		HoursPerWeek:       coerce.Decimal(c.HoursPerWeek, "contract.hoursPerWeek", w),
	}
}

func buildWeek(index int, wk *document.Week, ictx *domain.ImportContext) domain.WeekRow {
	return domain.WeekRow{
		WeekIndex:  index,
		WeekNumber: coerce.Int(wk.WeekNumber, "week.weekNumber", ictx.Warnings),
	}
}

func buildSchedule(d *document.Day, ictx *domain.ImportContext) domain.ScheduleRow {
	row := domain.ScheduleRow{DayCode: strings.ToUpper(strings.TrimSpace(d.Day))}
	if d.Shift != nil {
		row.StartSeconds = secondsArg(d.Shift.StartTime, "shift.startTime", ictx)
		row.EndSeconds = secondsArg(d.Shift.EndTime, "shift.endTime", ictx)
	}
	return row
}

func buildBreak(b *document.Break, ictx *domain.ImportContext) domain.BreakRow {
	return domain.BreakRow{
		BreakTypeID:     ictx.Lookups.Resolve(andom.CategoryBreakType, b.Type),
		DurationMinutes: coerce.Decimal(b.Duration, "break.duration", ictx.Warnings),
		StartSeconds:    secondsArg(b.StartTime, "break.startTime", ictx),
	}
}

func buildHistory(doc *document.Document, ictx *domain.ImportContext) []domain.HistoryRow {
	w := ictx.Warnings
	lu := ictx.Lookups
	rows := make([]domain.HistoryRow, 0, len(doc.History))
	for i := range doc.History {
		h := &doc.History[i]
		p := h.Extract()
		rows = append(rows, domain.HistoryRow{
			EventIndex:  i,
			EventTypeID: lu.Resolve(andom.CategoryEventType, h.Type),
			Actor:       p.ActorName(),
			EventTime:   coerce.Date(p.Timestamp, "history.timestamp", w),
			Notes:       p.Notes,
			Payload:     h.Payload,
		})
	}
	return rows
}

// mayResolveCode resolves a compound reference by its natural code
func mayResolveCode(lu *ldom.Cache, cat andom.Category, cn *document.CodeName) *int64 {
	if cn == nil {
		return nil
	}
	return lu.MayResolve(cat, cn.Code)
}

// mayResolveCostCentre resolves a cost-centre reference by code
func mayResolveCostCentre(lu *ldom.Cache, cc *document.CostCentre) *int64 {
	if cc == nil {
		return nil
	}
	return lu.MayResolve(andom.CategoryCostCentre, cc.Code)
}

// secondsArg converts a clock value into whole seconds since midnight,
// nil when the source never carried one
func secondsArg(v any, field string, ictx *domain.ImportContext) *int {
	if v == nil {
		return nil
	}
	secs := int(coerce.TimeOfDay(v, field, ictx.Warnings).Seconds())
	return &secs
}
