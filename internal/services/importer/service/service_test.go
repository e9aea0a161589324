package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"tmload/internal/modkit/repokit"
	perr "tmload/internal/platform/errors"
	"tmload/internal/platform/testkit"
	andom "tmload/internal/services/analyzer/domain"
	"tmload/internal/services/importer/domain"
	ldom "tmload/internal/services/lookup/domain"
)

// fakeTx satisfies repokit.TxRunner without a database
type fakeTx struct{ repokit.Queryer }

func (f *fakeTx) Tx(ctx context.Context, fn func(q repokit.Queryer) error) error { return fn(f) }

// fakeRepo records writes in memory; optional failure hooks simulate the
// database rejecting a statement
type fakeRepo struct {
	mu sync.Mutex

	movements    map[string]int64
	participants map[int64][]domain.ParticipantRow
	jobInfos     map[int64]map[bool]*domain.JobInfoRow
	contracts    map[int64]map[bool]int64
	weeks        map[int64][]domain.WeekRow
	schedules    map[int64][]domain.ScheduleRow
	breaks       map[int64][]domain.BreakRow
	flags        map[int64][]int64
	history      map[int64][]domain.HistoryRow
	tags         map[int64][]string
	enriched     []andom.CompoundValue

	nextID        int64
	failWeek      int // week index to reject, -1 for none
	failBreakType int64
	failFlag      bool
	failEnrich    bool
	failHistory   bool

	savepoints int
	rollbacks  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		movements:    map[string]int64{},
		participants: map[int64][]domain.ParticipantRow{},
		jobInfos:     map[int64]map[bool]*domain.JobInfoRow{},
		contracts:    map[int64]map[bool]int64{},
		weeks:        map[int64][]domain.WeekRow{},
		schedules:    map[int64][]domain.ScheduleRow{},
		breaks:       map[int64][]domain.BreakRow{},
		flags:        map[int64][]int64{},
		history:      map[int64][]domain.HistoryRow{},
		tags:         map[int64][]string{},
		failWeek:     -1,
	}
}

func (f *fakeRepo) id() int64 { f.nextID++; return f.nextID }

func (f *fakeRepo) EnrichCostCentre(_ context.Context, v andom.CompoundValue) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failEnrich {
		return perr.DBf("enrich rejected")
	}
	f.enriched = append(f.enriched, v)
	return nil
}

func (f *fakeRepo) UpsertMovement(_ context.Context, row domain.MovementRow) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.movements[row.MovementID]
	if !ok {
		id = f.id()
		f.movements[row.MovementID] = id
	}
	return id, nil
}

func (f *fakeRepo) ReplaceParticipants(_ context.Context, fk int64, rows []domain.ParticipantRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.participants[fk] = rows
	return nil
}

func (f *fakeRepo) ReplaceJobInfo(_ context.Context, fk int64, isCurrent bool, row *domain.JobInfoRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.jobInfos[fk] == nil {
		f.jobInfos[fk] = map[bool]*domain.JobInfoRow{}
	}
	f.jobInfos[fk][isCurrent] = row
	return nil
}

func (f *fakeRepo) ReplaceContractSlot(_ context.Context, fk int64, isCurrent bool, row *domain.ContractRow) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.contracts[fk] == nil {
		f.contracts[fk] = map[bool]int64{}
	}
	delete(f.contracts[fk], isCurrent)
	if row == nil {
		return 0, nil
	}
	id := f.id()
	f.contracts[fk][isCurrent] = id
	return id, nil
}

func (f *fakeRepo) AddMutualFlag(_ context.Context, fk, flagID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFlag {
		return perr.DBf("flag rejected")
	}
	f.flags[fk] = append(f.flags[fk], flagID)
	return nil
}

func (f *fakeRepo) InsertWeek(_ context.Context, fk int64, row domain.WeekRow) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row.WeekIndex == f.failWeek {
		return 0, perr.DBf("week rejected")
	}
	f.weeks[fk] = append(f.weeks[fk], row)
	return f.id(), nil
}

func (f *fakeRepo) InsertSchedule(_ context.Context, fk int64, row domain.ScheduleRow) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.schedules[fk] = append(f.schedules[fk], row)
	return f.id(), nil
}

func (f *fakeRepo) InsertBreak(_ context.Context, fk int64, row domain.BreakRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failBreakType != 0 && row.BreakTypeID == f.failBreakType {
		return perr.DBf("break rejected")
	}
	f.breaks[fk] = append(f.breaks[fk], row)
	return nil
}

func (f *fakeRepo) ReplaceHistory(_ context.Context, fk int64, rows []domain.HistoryRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failHistory {
		return perr.DBf("history rejected")
	}
	f.history[fk] = rows
	return nil
}

func (f *fakeRepo) ReplaceTags(_ context.Context, fk int64, tags []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tags[fk] = tags
	return nil
}

func (f *fakeRepo) FactCounts(context.Context) (domain.Counts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var c domain.Counts
	c.Movements = int64(len(f.movements))
	for _, p := range f.participants {
		c.Participants += int64(len(p))
	}
	return c, nil
}

func (f *fakeRepo) Savepoint(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.savepoints++
	return nil
}

func (f *fakeRepo) RollbackTo(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rollbacks++
	return nil
}

func (f *fakeRepo) Release(context.Context, string) error { return nil }

func testCache() *ldom.Cache {
	c := ldom.NewCache()
	ids := int64(0)
	for _, cat := range andom.Categories() {
		ids++
		c.SetUnknown(cat, ids*100)
	}
	c.Put(andom.CategoryMovementType, "Transfer", 1)
	c.Put(andom.CategoryStatus, "Approved", 2)
	c.Put(andom.CategoryRole, "Approver", 3)
	c.Put(andom.CategoryBreakType, "Lunch", 4)
	c.Put(andom.CategoryMutualFlag, "WeekendWork", 5)
	c.Put(andom.CategoryCostCentre, "S123", 6)
	return c
}

func newTestSvc(t *testing.T, fr *fakeRepo, errorsDir string) *Svc {
	t.Helper()
	binder := repokit.BindFunc[domain.StorageRepo](func(repokit.Queryer) domain.StorageRepo { return fr })
	return New(&fakeTx{}, binder, testCache(), Config{Workers: 2, Batch: 2, ErrorsDir: errorsDir})
}

const validDoc = `{
	"movementId": "MV-%d",
	"employeeId": "E1",
	"movementType": "Transfer",
	"status": "Approved",
	"startDate": "2024-03-01",
	"currentJobInfo": {"workingDaysPerWeek": "4.5", "hoursPerWeek": "N/A"},
	"currentContract": {
		"mutualFlags": ["WeekendWork"],
		"weeks": [
			{"weekNumber": 1, "days": [{"day": "Mon", "shift": {"startTime": "09:00", "endTime": "17:30", "breaks": [
				{"type": "Lunch", "duration": 30},
				{"type": "Siesta", "duration": 15}
			]}}]},
			{"weekNumber": 2, "days": []}
		]
	},
	"participants": [{"role": "Approver", "name": "P"}],
	"tags": ["a", "a", "b"]
}`

func writeCorpus(t *testing.T, dir string, valid int, invalid int) {
	t.Helper()
	for i := 0; i < valid; i++ {
		name := "tms_team_movements_team_movement_" + string(rune('a'+i)) + ".json"
		testkit.WriteFile(t, dir, name, strings.ReplaceAll(validDoc, "%d", string(rune('0'+i))))
	}
	for i := 0; i < invalid; i++ {
		name := "tms_team_movements_team_movement_bad" + string(rune('0'+i)) + ".json"
		testkit.WriteFile(t, dir, name, "{definitely not json")
	}
}

func TestImportDirectory_CountsAndDiagnostics(t *testing.T) {
	dir := t.TempDir()
	errs := filepath.Join(dir, "errors")
	writeCorpus(t, dir, 3, 1)

	fr := newFakeRepo()
	svc := newTestSvc(t, fr, errs)

	res, err := svc.ImportDirectory(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if res.Imported != 3 || res.Errored != 1 {
		t.Fatalf("imported=%d errored=%d", res.Imported, res.Errored)
	}

	arts, err := os.ReadDir(errs)
	if err != nil {
		t.Fatal(err)
	}
	if len(arts) != 1 {
		t.Fatalf("artifacts = %d", len(arts))
	}
	body, err := os.ReadFile(filepath.Join(errs, arts[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	testkit.MustContain(t, string(body), "classification: parse")

	counts, err := svc.VerifyCounts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if counts.Movements != 3 || counts.Participants != 3 {
		t.Fatalf("counts = %+v", counts)
	}
}

func TestImportFile_Mapping(t *testing.T) {
	dir := t.TempDir()
	testkit.WriteFile(t, dir, "tms_team_movements_team_movement_1.json",
		strings.ReplaceAll(validDoc, "%d", "1"))

	fr := newFakeRepo()
	svc := newTestSvc(t, fr, "")
	res, err := svc.ImportDirectory(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if res.Imported != 1 {
		t.Fatalf("imported=%d errored=%d", res.Imported, res.Errored)
	}

	fk := fr.movements["MV-1"]
	ji := fr.jobInfos[fk][true]
	if ji == nil {
		t.Fatal("current job info missing")
	}
	// "4.5" string coerces to the exact decimal
	if ji.WorkingDaysPerWeek == nil || ji.WorkingDaysPerWeek.String() != "4.5" {
		t.Fatalf("workingDaysPerWeek = %v", ji.WorkingDaysPerWeek)
	}
	// "N/A" coerces to null with a warning
	if ji.HoursPerWeek != nil {
		t.Fatalf("hoursPerWeek = %v", ji.HoursPerWeek)
	}
	if len(res.Warnings) == 0 {
		t.Fatal("expected a coercion warning")
	}

	// new job info slot still cleared even though the document has none
	if row, ok := fr.jobInfos[fk][false]; !ok || row != nil {
		t.Fatalf("new slot = %v ok=%v", row, ok)
	}

	// unknown break type resolves to the sentinel, the week still imports
	cid := fr.contracts[fk][true]
	if len(fr.weeks[cid]) != 2 {
		t.Fatalf("weeks = %d", len(fr.weeks[cid]))
	}
	var all []domain.BreakRow
	for _, bs := range fr.breaks {
		all = append(all, bs...)
	}
	if len(all) != 2 {
		t.Fatalf("breaks = %d", len(all))
	}
	cache := testCache()
	sentinel := cache.Unknown(andom.CategoryBreakType)
	seen := map[int64]bool{}
	for _, b := range all {
		seen[b.BreakTypeID] = true
	}
	if !seen[4] || !seen[sentinel] {
		t.Fatalf("break ids = %v (sentinel %d)", seen, sentinel)
	}

	// schedule carries seconds since midnight
	var scheds []domain.ScheduleRow
	for _, ss := range fr.schedules {
		scheds = append(scheds, ss...)
	}
	if len(scheds) != 1 || scheds[0].DayCode != "MON" {
		t.Fatalf("schedules = %+v", scheds)
	}
	if scheds[0].StartSeconds == nil || *scheds[0].StartSeconds != 9*3600 {
		t.Fatalf("start = %v", scheds[0].StartSeconds)
	}
	if scheds[0].EndSeconds == nil || *scheds[0].EndSeconds != 17*3600+1800 {
		t.Fatalf("end = %v", scheds[0].EndSeconds)
	}
}

func TestImportFile_WeekFailureTolerated(t *testing.T) {
	dir := t.TempDir()
	testkit.WriteFile(t, dir, "tms_team_movements_team_movement_1.json",
		strings.ReplaceAll(validDoc, "%d", "1"))

	fr := newFakeRepo()
	fr.failWeek = 0
	svc := newTestSvc(t, fr, "")

	res, err := svc.ImportDirectory(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	// the broken week costs a warning, not the file
	if res.Imported != 1 || res.Errored != 0 {
		t.Fatalf("imported=%d errored=%d", res.Imported, res.Errored)
	}
	if fr.rollbacks == 0 {
		t.Fatal("expected a savepoint rollback")
	}
	fk := fr.movements["MV-1"]
	cid := fr.contracts[fk][true]
	if len(fr.weeks[cid]) != 1 || fr.weeks[cid][0].WeekIndex != 1 {
		t.Fatalf("weeks = %+v", fr.weeks[cid])
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "week rejected") {
			found = true
		}
	}
	if !found {
		t.Fatalf("warnings = %v", res.Warnings)
	}
}

func TestImportFile_MutualFlagFailureTolerated(t *testing.T) {
	dir := t.TempDir()
	testkit.WriteFile(t, dir, "tms_team_movements_team_movement_1.json",
		strings.ReplaceAll(validDoc, "%d", "1"))

	fr := newFakeRepo()
	fr.failFlag = true
	svc := newTestSvc(t, fr, "")

	res, err := svc.ImportDirectory(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	// a rejected flag costs a warning, not the file
	if res.Imported != 1 || res.Errored != 0 {
		t.Fatalf("imported=%d errored=%d", res.Imported, res.Errored)
	}
	if fr.rollbacks == 0 {
		t.Fatal("expected a savepoint rollback")
	}
	fk := fr.movements["MV-1"]
	cid := fr.contracts[fk][true]
	if len(fr.flags[cid]) != 0 {
		t.Fatalf("flags = %v", fr.flags[cid])
	}
	// the contract's weeks still import in full
	if len(fr.weeks[cid]) != 2 {
		t.Fatalf("weeks = %d", len(fr.weeks[cid]))
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "flag rejected") {
			found = true
		}
	}
	if !found {
		t.Fatalf("warnings = %v", res.Warnings)
	}
}

func TestImportFile_BreakFailureTolerated(t *testing.T) {
	dir := t.TempDir()
	testkit.WriteFile(t, dir, "tms_team_movements_team_movement_1.json",
		strings.ReplaceAll(validDoc, "%d", "1"))

	fr := newFakeRepo()
	fr.failBreakType = 4 // Lunch
	svc := newTestSvc(t, fr, "")

	res, err := svc.ImportDirectory(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if res.Imported != 1 || res.Errored != 0 {
		t.Fatalf("imported=%d errored=%d", res.Imported, res.Errored)
	}

	// the day's schedule and the sibling break both survive
	var scheds []domain.ScheduleRow
	for _, ss := range fr.schedules {
		scheds = append(scheds, ss...)
	}
	if len(scheds) != 1 {
		t.Fatalf("schedules = %d", len(scheds))
	}
	var all []domain.BreakRow
	for _, bs := range fr.breaks {
		all = append(all, bs...)
	}
	sentinel := testCache().Unknown(andom.CategoryBreakType)
	if len(all) != 1 || all[0].BreakTypeID != sentinel {
		t.Fatalf("breaks = %+v (sentinel %d)", all, sentinel)
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "break rejected") {
			found = true
		}
	}
	if !found {
		t.Fatalf("warnings = %v", res.Warnings)
	}
}

func TestImportFile_HardFailureErrorsFile(t *testing.T) {
	dir := t.TempDir()
	errs := filepath.Join(dir, "errors")
	testkit.WriteFile(t, dir, "tms_team_movements_team_movement_1.json",
		strings.ReplaceAll(validDoc, "%d", "1"))

	fr := newFakeRepo()
	fr.failHistory = true
	svc := newTestSvc(t, fr, errs)

	res, err := svc.ImportDirectory(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if res.Imported != 0 || res.Errored != 1 {
		t.Fatalf("imported=%d errored=%d", res.Imported, res.Errored)
	}
	arts, err := os.ReadDir(errs)
	if err != nil || len(arts) != 1 {
		t.Fatalf("artifacts = %d err=%v", len(arts), err)
	}
}

func TestImportFile_EnrichmentFailureTolerated(t *testing.T) {
	dir := t.TempDir()
	doc := `{
		"movementId": "MV-9",
		"movementType": "Transfer",
		"status": "Approved",
		"currentJobInfo": {"manager": {"name": "M", "costCentre": {
			"code": "S123", "formattedAddress": "1 Main St", "latitude": -36.8, "longitude": 174.7
		}}}
	}`
	testkit.WriteFile(t, dir, "tms_team_movements_team_movement_1.json", doc)

	fr := newFakeRepo()
	fr.failEnrich = true
	svc := newTestSvc(t, fr, "")

	res, err := svc.ImportDirectory(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if res.Imported != 1 || res.Errored != 0 {
		t.Fatalf("imported=%d errored=%d", res.Imported, res.Errored)
	}
	if len(res.Warnings) == 0 {
		t.Fatal("expected an enrichment warning")
	}
}

func TestEnrichmentTargets(t *testing.T) {
	dir := t.TempDir()
	doc := `{
		"movementId": "MV-8",
		"movementType": "Transfer",
		"status": "Approved",
		"currentJobInfo": {"manager": {"costCentre": {"code": "S1", "latitude": 1.0, "longitude": 2.0}}},
		"participants": [{"role": "Approver", "costCentre": {"code": "S2", "latitude": 3.0, "longitude": 4.0}}],
		"history": [{"managerChanged": {"manager": {"costCentre": {"code": "S3", "formattedAddress": "x"}}}}]
	}`
	testkit.WriteFile(t, dir, "tms_team_movements_team_movement_1.json", doc)

	fr := newFakeRepo()
	svc := newTestSvc(t, fr, "")
	if _, err := svc.ImportDirectory(context.Background(), dir); err != nil {
		t.Fatal(err)
	}

	codes := map[string]bool{}
	for _, v := range fr.enriched {
		codes[v.Code] = true
	}
	// manager and history blocks enrich; movement participants do not
	if !codes["S1"] || !codes["S3"] || codes["S2"] {
		t.Fatalf("enriched = %v", codes)
	}
}
