package service

import (
	"context"
	"strings"

	"tmload/internal/core/coerce"
	"tmload/internal/core/document"
	andom "tmload/internal/services/analyzer/domain"
	"tmload/internal/services/importer/domain"
)

// enrichCostCentres upserts any geo data the document carries for cost
// centres referenced from job-info manager blocks and history events,
// before the movement row is written. Geo data is an enhancement, not a
// correctness requirement, so every failure is swallowed into a warning
// inside its savepoint
func (s *Svc) enrichCostCentres(ctx context.Context, repo domain.StorageRepo, doc *document.Document, ictx *domain.ImportContext) {
	for _, cc := range enrichmentTargets(doc) {
		v := geoValue(cc)
		tolerated(ctx, repo, "enrich", ictx, func() error {
			return repo.EnrichCostCentre(ctx, v)
		})
	}
}

// enrichmentTargets gathers the cost-centre references eligible for geo
// enrichment: current/new job-info manager blocks plus history-event
// manager and participant blocks. Participants' own cost centres on the
// movement are deliberately excluded
func enrichmentTargets(doc *document.Document) []*document.CostCentre {
	var out []*document.CostCentre
	add := func(cc *document.CostCentre) {
		if cc.HasGeo() && strings.TrimSpace(cc.Code) != "" {
			out = append(out, cc)
		}
	}

	for _, ji := range []*document.JobInfo{doc.CurrentJobInfo, doc.NewJobInfo} {
		if ji != nil && ji.Manager != nil {
			add(ji.Manager.CostCentre)
		}
	}
	for i := range doc.History {
		p := doc.History[i].Extract()
		if p.Manager != nil {
			add(p.Manager.CostCentre)
		}
		if p.Participant != nil {
			add(p.Participant.CostCentre)
		}
		add(p.CostCentre)
	}
	return out
}

// geoValue flattens a document cost-centre reference into the merge image
func geoValue(cc *document.CostCentre) andom.CompoundValue {
	return andom.CompoundValue{
		Code:             strings.TrimSpace(cc.Code),
		Name:             strings.TrimSpace(cc.Name),
		FormattedAddress: strings.TrimSpace(cc.FormattedAddress),
		Latitude:         coerce.Float(cc.Latitude, "costCentre.latitude", nil),
		Longitude:        coerce.Float(cc.Longitude, "costCentre.longitude", nil),
	}
}
