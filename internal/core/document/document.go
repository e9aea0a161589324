// Package document models one team-movement source file as a typed,
// effectively-immutable tree. Loosely typed scalars (dates, numbers that may
// arrive as strings) stay as `any` and are converted by the coerce package at
// the point of use; history payloads keep their raw JSON alongside the
// extracted fields
package document

import (
	"bytes"
	"encoding/json"

	perr "tmload/internal/platform/errors"
)

// Document is one parsed team-movement file
type Document struct {
	MovementID   string `json:"movementId"`
	EmployeeID   string `json:"employeeId"`
	MovementType string `json:"movementType"`
	Status       string `json:"status"`

	StartDate any `json:"startDate"`
	EndDate   any `json:"endDate"`

	Workflow Workflow `json:"workflow"`

	CurrentJobInfo *JobInfo `json:"currentJobInfo"`
	NewJobInfo     *JobInfo `json:"newJobInfo"`

	CurrentContract *Contract `json:"currentContract"`
	NewContract     *Contract `json:"newContract"`

	Participants []Participant  `json:"participants"`
	History      []HistoryEntry `json:"history"`
	Tags         []string       `json:"tags"`
}

// Workflow carries the approval metadata on a movement
type Workflow struct {
	Step             string `json:"step"`
	CreatedBy        string `json:"createdBy"`
	CreatedDate      any    `json:"createdDate"`
	LastModifiedDate any    `json:"lastModifiedDate"`
	ApprovedBy       string `json:"approvedBy"`
	ApprovedDate     any    `json:"approvedDate"`
}

// CodeName is a compound lookup reference carrying a code and display name
type CodeName struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// CostCentre is a compound lookup reference with optional geo enrichment
type CostCentre struct {
	Code             string `json:"code"`
	Name             string `json:"name"`
	FormattedAddress string `json:"formattedAddress"`
	Latitude         any    `json:"latitude"`
	Longitude        any    `json:"longitude"`
}

// HasGeo reports whether this reference carries any enrichment beyond the code
func (c *CostCentre) HasGeo() bool {
	if c == nil {
		return false
	}
	return c.FormattedAddress != "" || c.Latitude != nil || c.Longitude != nil
}

// Position is the role sub-object of a job info snapshot; optional
type Position struct {
	Title string `json:"title"`
	Grade string `json:"grade"`
}

// Manager is the manager sub-object of a job info snapshot; optional
type Manager struct {
	Name       string      `json:"name"`
	EmployeeID string      `json:"employeeId"`
	CostCentre *CostCentre `json:"costCentre"`
}

// JobInfo is one of the two job snapshots (current or new) on a movement
type JobInfo struct {
	EmployeeGroup    string      `json:"employeeGroup"`
	EmployeeSubGroup string      `json:"employeeSubGroup"`
	Banner           string      `json:"banner"`
	Brand            *CodeName   `json:"brand"`
	BusinessGroup    string      `json:"businessGroup"`
	Department       *CodeName   `json:"department"`
	CostCentre       *CostCentre `json:"costCentre"`
	Position         *Position   `json:"position"`
	Manager          *Manager    `json:"manager"`

	WorkingDaysPerWeek any `json:"workingDaysPerWeek"`
	HoursPerWeek       any `json:"hoursPerWeek"`
	BaseSalary         any `json:"baseSalary"`
	HourlyRate         any `json:"hourlyRate"`
	EffectiveDate      any `json:"effectiveDate"`
}

// Participant is one workflow participant on a movement
type Participant struct {
	Role       string      `json:"role"`
	Name       string      `json:"name"`
	EmployeeID string      `json:"employeeId"`
	Email      string      `json:"email"`
	Banner     string      `json:"banner"`
	Department *CodeName   `json:"department"`
	CostCentre *CostCentre `json:"costCentre"`
}

// Contract is one of the two contract snapshots (current or new)
type Contract struct {
	MutualFlags        []string `json:"mutualFlags"`
	WorkingDaysPerWeek any      `json:"workingDaysPerWeek"`
	HoursPerWeek       any      `json:"hoursPerWeek"`
	Weeks              []Week   `json:"weeks"`
}

// Week is one rotation week inside a contract
type Week struct {
	WeekNumber any   `json:"weekNumber"`
	Days       []Day `json:"days"`
}

// Day is one weekday inside a contract week
type Day struct {
	Day   string `json:"day"`
	Shift *Shift `json:"shift"`
}

// Shift is the worked period of one day, with its breaks
type Shift struct {
	StartTime any     `json:"startTime"`
	EndTime   any     `json:"endTime"`
	Breaks    []Break `json:"breaks"`
}

// Break is one scheduled break inside a shift
type Break struct {
	Type      string `json:"type"`
	Duration  any    `json:"duration"`
	StartTime any    `json:"startTime"`
}

// Decode parses one source file. The only hard failure is malformed JSON;
// missing or oddly typed fields survive as zero values / raw scalars
func Decode(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeParse, "malformed document")
	}
	return &doc, nil
}
