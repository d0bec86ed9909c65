package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"
)

// ── test helpers ──

func setupTestRosterService() (RosterService, *mockRepos) {
	repo, mocks := newTestRepository()
	svc := NewRosterService(repo, 5, zap.NewNop())
	return svc, mocks
}

// seedSmallUnit adds four operational members p1..p4, one per group label
// when labeled is true.
func seedSmallUnit(mocks *mockRepos, labeled bool) {
	labels := []string{"alfa", "bravo", "charlie", "delta"}
	for i := 0; i < 4; i++ {
		var group *string
		if labeled {
			group = strPtr(labels[i])
		}
		mocks.user.addOperational(fmt.Sprintf("p%d", i+1), fmt.Sprintf("Militar %d", i+1), "unit-1", group)
	}
}

// seedLargeUnit adds 20 operational members p1..p20, unlabeled.
func seedLargeUnit(mocks *mockRepos) {
	for i := 1; i <= 20; i++ {
		mocks.user.addOperational(fmt.Sprintf("p%d", i), fmt.Sprintf("Militar %02d", i), "unit-1", nil)
	}
}

// largePartition splits p1..p20 into five per group.
func largePartition() map[string][]string {
	groups := map[string][]string{}
	labels := []string{"alfa", "bravo", "charlie", "delta"}
	for i := 1; i <= 20; i++ {
		label := labels[(i-1)/5]
		groups[label] = append(groups[label], fmt.Sprintf("p%d", i))
	}
	return groups
}

// ── ListEligible ──

func TestRosterService_ListEligible_FiltersAndOrders(t *testing.T) {
	svc, mocks := setupTestRosterService()
	seedSmallUnit(mocks, true)
	// administrative and inactive personnel are not part of the rotation
	admin := *mocks.user.users["p1"]
	admin.UserID = "adm-1"
	admin.Sector = "administrativo"
	mocks.user.users["adm-1"] = &admin
	inactive := *mocks.user.users["p2"]
	inactive.UserID = "inactive-1"
	inactive.IsActive = false
	mocks.user.users["inactive-1"] = &inactive

	result, err := svc.ListEligible(context.Background(), "unit-1")
	if err != nil {
		t.Fatalf("ListEligible should succeed: %v", err)
	}
	if len(result) != 4 {
		t.Fatalf("expected 4 eligible, got %d", len(result))
	}
	for _, u := range result {
		if u.ID == "adm-1" || u.ID == "inactive-1" {
			t.Errorf("ineligible person %s returned", u.ID)
		}
	}
}

func TestRosterService_ListEligible_UnitNotFound(t *testing.T) {
	svc, _ := setupTestRosterService()

	_, err := svc.ListEligible(context.Background(), "nope")
	if !errors.Is(err, ErrUnitNotFound) {
		t.Errorf("expected ErrUnitNotFound, got: %v", err)
	}
}

// ── SetPartition validation ──

func TestRosterService_SetPartition_Success(t *testing.T) {
	svc, mocks := setupTestRosterService()
	seedLargeUnit(mocks)

	result, err := svc.SetPartition(context.Background(), "unit-1", largePartition(), "sup-1")
	if err != nil {
		t.Fatalf("SetPartition should succeed: %v", err)
	}
	if !result.Complete {
		t.Error("expected complete partition")
	}
	for _, label := range []string{"alfa", "bravo", "charlie", "delta"} {
		if len(result.Groups[label]) != 5 {
			t.Errorf("group %s: expected 5 members, got %d", label, len(result.Groups[label]))
		}
	}

	// labels persisted
	if g := mocks.user.users["p1"].DutyGroup; g == nil || *g != "alfa" {
		t.Errorf("p1: expected label alfa, got %v", g)
	}
	if g := mocks.user.users["p20"].DutyGroup; g == nil || *g != "delta" {
		t.Errorf("p20: expected label delta, got %v", g)
	}
}

func TestRosterService_SetPartition_UnknownGroup(t *testing.T) {
	svc, mocks := setupTestRosterService()
	seedSmallUnit(mocks, false)

	groups := map[string][]string{
		"alfa": {"p1"}, "bravo": {"p2"}, "charlie": {"p3"}, "echo": {"p4"},
	}
	_, err := svc.SetPartition(context.Background(), "unit-1", groups, "sup-1")
	var unknownGroup *UnknownGroupError
	if !errors.As(err, &unknownGroup) {
		t.Fatalf("expected UnknownGroupError, got: %v", err)
	}
	if unknownGroup.Label != "echo" {
		t.Errorf("expected label echo, got %s", unknownGroup.Label)
	}
}

func TestRosterService_SetPartition_UnknownPerson(t *testing.T) {
	svc, mocks := setupTestRosterService()
	seedSmallUnit(mocks, false)

	groups := map[string][]string{
		"alfa": {"p1"}, "bravo": {"p2"}, "charlie": {"p3"}, "delta": {"ghost"},
	}
	_, err := svc.SetPartition(context.Background(), "unit-1", groups, "sup-1")
	var unknownPerson *UnknownPersonError
	if !errors.As(err, &unknownPerson) {
		t.Fatalf("expected UnknownPersonError, got: %v", err)
	}
	if unknownPerson.PersonID != "ghost" {
		t.Errorf("expected person ghost, got %s", unknownPerson.PersonID)
	}
}

func TestRosterService_SetPartition_DuplicatePerson(t *testing.T) {
	svc, mocks := setupTestRosterService()
	seedLargeUnit(mocks)

	groups := largePartition()
	// p1 ends up in alfa and delta
	groups["delta"][0] = "p1"
	_, err := svc.SetPartition(context.Background(), "unit-1", groups, "sup-1")
	var duplicate *DuplicatePersonError
	if !errors.As(err, &duplicate) {
		t.Fatalf("expected DuplicatePersonError, got: %v", err)
	}
	if duplicate.PersonID != "p1" {
		t.Errorf("expected person p1, got %s", duplicate.PersonID)
	}
}

func TestRosterService_SetPartition_IncompleteCoverage(t *testing.T) {
	svc, mocks := setupTestRosterService()
	seedSmallUnit(mocks, false)

	groups := map[string][]string{
		"alfa": {"p1"}, "bravo": {"p2"}, "charlie": {"p3"}, "delta": {},
	}
	_, err := svc.SetPartition(context.Background(), "unit-1", groups, "sup-1")
	var coverage *IncompleteCoverageError
	if !errors.As(err, &coverage) {
		t.Fatalf("expected IncompleteCoverageError, got: %v", err)
	}
	if len(coverage.Missing) != 1 || coverage.Missing[0] != "p4" {
		t.Errorf("expected missing [p4], got %v", coverage.Missing)
	}
}

func TestRosterService_SetPartition_MinimumAppliesToLargeUnit(t *testing.T) {
	svc, mocks := setupTestRosterService()
	seedLargeUnit(mocks)

	// 20 people support 5 per group; 4/6/5/5 must be rejected
	groups := largePartition()
	groups["bravo"] = append(groups["bravo"], groups["alfa"][4])
	groups["alfa"] = groups["alfa"][:4]

	_, err := svc.SetPartition(context.Background(), "unit-1", groups, "sup-1")
	var minimum *BelowMinimumError
	if !errors.As(err, &minimum) {
		t.Fatalf("expected BelowMinimumError, got: %v", err)
	}
	if minimum.Group != "alfa" || minimum.Count != 4 || minimum.Minimum != 5 {
		t.Errorf("unexpected error detail: %+v", minimum)
	}
}

func TestRosterService_SetPartition_SmallUnitOnePerGroup(t *testing.T) {
	svc, mocks := setupTestRosterService()
	seedSmallUnit(mocks, false)

	// 4 people cannot sustain 5 per group; one per group must pass
	groups := map[string][]string{
		"alfa": {"p1"}, "bravo": {"p2"}, "charlie": {"p3"}, "delta": {"p4"},
	}
	result, err := svc.SetPartition(context.Background(), "unit-1", groups, "sup-1")
	if err != nil {
		t.Fatalf("SetPartition should succeed for a small unit: %v", err)
	}
	if !result.Complete {
		t.Error("expected complete partition")
	}
}

func TestRosterService_SetPartition_SmallUnitEmptyGroupRejected(t *testing.T) {
	svc, mocks := setupTestRosterService()
	seedSmallUnit(mocks, false)
	mocks.user.addOperational("p5", "Militar 5", "unit-1", nil)

	groups := map[string][]string{
		"alfa": {"p1", "p5"}, "bravo": {"p2"}, "charlie": {"p3", "p4"}, "delta": {},
	}
	_, err := svc.SetPartition(context.Background(), "unit-1", groups, "sup-1")
	var minimum *BelowMinimumError
	if !errors.As(err, &minimum) {
		t.Fatalf("expected BelowMinimumError, got: %v", err)
	}
	if minimum.Group != "delta" || minimum.Minimum != 1 {
		t.Errorf("unexpected error detail: %+v", minimum)
	}
}

func TestRosterService_SetPartition_ClearsStaleLabels(t *testing.T) {
	svc, mocks := setupTestRosterService()
	seedSmallUnit(mocks, true)
	// p5 holds a label but moved to the administrative sector
	mocks.user.addOperational("p5", "Militar 5", "unit-1", strPtr("alfa"))
	mocks.user.users["p5"].Sector = "administrativo"

	groups := map[string][]string{
		"alfa": {"p2"}, "bravo": {"p1"}, "charlie": {"p4"}, "delta": {"p3"},
	}
	_, err := svc.SetPartition(context.Background(), "unit-1", groups, "sup-1")
	if err != nil {
		t.Fatalf("SetPartition should succeed: %v", err)
	}

	if mocks.user.users["p5"].DutyGroup != nil {
		t.Error("stale label on p5 should have been cleared")
	}
	if g := mocks.user.users["p1"].DutyGroup; g == nil || *g != "bravo" {
		t.Errorf("p1: expected label bravo, got %v", g)
	}
}

func TestRosterService_SetPartition_NoWritesOnValidationFailure(t *testing.T) {
	svc, mocks := setupTestRosterService()
	seedSmallUnit(mocks, true)

	groups := map[string][]string{
		"alfa": {"p2"}, "bravo": {"p1"}, "charlie": {"p4"}, "delta": {"ghost"},
	}
	_, err := svc.SetPartition(context.Background(), "unit-1", groups, "sup-1")
	if err == nil {
		t.Fatal("expected validation failure")
	}

	// original labels untouched
	for i, want := range []string{"alfa", "bravo", "charlie", "delta"} {
		id := fmt.Sprintf("p%d", i+1)
		if g := mocks.user.users[id].DutyGroup; g == nil || *g != want {
			t.Errorf("%s: expected label %s preserved, got %v", id, want, g)
		}
	}
}

// ── GetPartition ──

func TestRosterService_GetPartition_ReportsUnassigned(t *testing.T) {
	svc, mocks := setupTestRosterService()
	seedSmallUnit(mocks, true)
	mocks.user.addOperational("p5", "Militar 5", "unit-1", nil)

	result, err := svc.GetPartition(context.Background(), "unit-1")
	if err != nil {
		t.Fatalf("GetPartition should succeed: %v", err)
	}
	if result.Complete {
		t.Error("partition with unassigned personnel must not be complete")
	}
	if len(result.Unassigned) != 1 || result.Unassigned[0].ID != "p5" {
		t.Errorf("expected unassigned [p5], got %+v", result.Unassigned)
	}
	if len(result.Groups["alfa"]) != 1 {
		t.Errorf("expected 1 member in alfa, got %d", len(result.Groups["alfa"]))
	}
}
