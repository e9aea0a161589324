package service

import (
	"strings"

	"tmload/internal/core/coerce"
	"tmload/internal/core/document"
	"tmload/internal/services/analyzer/domain"
)

// tagPrefixes maps the recognized Prefix:Value tag spellings onto the
// cross-cutting categories they feed
var tagPrefixes = map[string]domain.Category{
	"employeegroup":    domain.CategoryEmployeeGroup,
	"employeesubgroup": domain.CategoryEmployeeSubGroup,
	"banner":           domain.CategoryBanner,
	"businessgroup":    domain.CategoryBusinessGroup,
}

// Collect feeds every categorical value in doc into dv
func Collect(doc *document.Document, dv *domain.DiscoveredValues) {
	dv.AddSimple(domain.CategoryMovementType, doc.MovementType)
	dv.AddSimple(domain.CategoryStatus, doc.Status)

	collectJobInfo(doc.CurrentJobInfo, dv)
	collectJobInfo(doc.NewJobInfo, dv)

	for i := range doc.Participants {
		collectParticipant(&doc.Participants[i], dv)
	}

	collectContract(doc.CurrentContract, dv)
	collectContract(doc.NewContract, dv)

	for i := range doc.History {
		collectHistory(&doc.History[i], dv)
	}

	for _, tag := range doc.Tags {
		collectTag(tag, dv)
	}
}

func collectJobInfo(ji *document.JobInfo, dv *domain.DiscoveredValues) {
	if ji == nil {
		return
	}
	dv.AddSimple(domain.CategoryEmployeeGroup, ji.EmployeeGroup)
	dv.AddSimple(domain.CategoryEmployeeSubGroup, ji.EmployeeSubGroup)
	dv.AddSimple(domain.CategoryBanner, ji.Banner)
	dv.AddSimple(domain.CategoryBusinessGroup, ji.BusinessGroup)
	addCodeName(dv, domain.CategoryBrand, ji.Brand)
	addCodeName(dv, domain.CategoryDepartment, ji.Department)
	addCostCentre(dv, ji.CostCentre)
	if ji.Manager != nil {
		addCostCentre(dv, ji.Manager.CostCentre)
	}
}

func collectParticipant(p *document.Participant, dv *domain.DiscoveredValues) {
	dv.AddSimple(domain.CategoryRole, p.Role)
	dv.AddSimple(domain.CategoryBanner, p.Banner)
	addCodeName(dv, domain.CategoryDepartment, p.Department)
	addCostCentre(dv, p.CostCentre)
}

func collectContract(c *document.Contract, dv *domain.DiscoveredValues) {
	if c == nil {
		return
	}
	for _, f := range c.MutualFlags {
		dv.AddSimple(domain.CategoryMutualFlag, f)
	}
	for _, w := range c.Weeks {
		for _, d := range w.Days {
			if d.Shift == nil {
				continue
			}
			for _, b := range d.Shift.Breaks {
				dv.AddSimple(domain.CategoryBreakType, b.Type)
			}
		}
	}
}

func collectHistory(h *document.HistoryEntry, dv *domain.DiscoveredValues) {
	if h.Type != "" {
		dv.AddSimple(domain.CategoryEventType, h.Type)
	}
	p := h.Extract()
	if p.Manager != nil {
		addCostCentre(dv, p.Manager.CostCentre)
	}
	if p.Participant != nil {
		collectParticipant(p.Participant, dv)
	}
	addCostCentre(dv, p.CostCentre)
	collectContract(p.Contract, dv)
}

func collectTag(tag string, dv *domain.DiscoveredValues) {
	k, v, ok := strings.Cut(tag, ":")
	if !ok {
		return
	}
	cat, known := tagPrefixes[strings.ToLower(strings.TrimSpace(k))]
	if !known {
		return
	}
	dv.AddSimple(cat, strings.TrimSpace(v))
}

func addCodeName(dv *domain.DiscoveredValues, cat domain.Category, cn *document.CodeName) {
	if cn == nil {
		return
	}
	dv.AddCompound(cat, domain.CompoundValue{Code: cn.Code, Name: cn.Name})
}

func addCostCentre(dv *domain.DiscoveredValues, cc *document.CostCentre) {
	if cc == nil {
		return
	}
	dv.AddCompound(domain.CategoryCostCentre, domain.CompoundValue{
		Code:             cc.Code,
		Name:             cc.Name,
		FormattedAddress: strings.TrimSpace(cc.FormattedAddress),
		Latitude:         coerce.Float(cc.Latitude, "latitude", nil),
		Longitude:        coerce.Float(cc.Longitude, "longitude", nil),
	})
}
