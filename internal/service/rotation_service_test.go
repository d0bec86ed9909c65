package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/edmundobop/plataforma-bravo-web-sub001/config"
	"github.com/edmundobop/plataforma-bravo-web-sub001/internal/dto"
	"github.com/edmundobop/plataforma-bravo-web-sub001/internal/model"
)

func setupTestRotationService() (RotationService, *mockRepos) {
	repo, mocks := newTestRepository()
	duty := config.DutyConfig{
		ShiftStart:   "08:00",
		ShiftLabel:   "24h",
		MinGroupSize: 5,
		MaxPeriods:   120,
	}
	svc := NewRotationService(repo, duty, zap.NewNop())
	return svc, mocks
}

// ── Generate ──

func TestRotationService_Generate_CyclesFromStartingGroup(t *testing.T) {
	svc, mocks := setupTestRotationService()
	seedSmallUnit(mocks, true)

	req := &dto.GenerateRotationRequest{
		StartDate:     "2025-03-01",
		StartingGroup: "charlie",
		Periods:       6,
	}
	result, err := svc.Generate(context.Background(), "unit-1", req, "sup-1")
	if err != nil {
		t.Fatalf("Generate should succeed: %v", err)
	}
	if len(result.Entries) != 6 {
		t.Fatalf("expected 6 entries, got %d", len(result.Entries))
	}

	wantGroups := []string{"charlie", "delta", "alfa", "bravo", "charlie", "delta"}
	for i, entry := range result.Entries {
		if entry.DutyGroup == nil || *entry.DutyGroup != wantGroups[i] {
			t.Errorf("entry %d: expected group %s, got %v", i, wantGroups[i], entry.DutyGroup)
		}
		wantDate := time.Date(2025, 3, 1+i, 8, 0, 0, 0, time.UTC)
		if entry.StartsAt != wantDate.Format("2006-01-02T15:04:05Z") {
			t.Errorf("entry %d: expected start %s, got %s", i, wantDate.Format(time.RFC3339), entry.StartsAt)
		}
		if entry.ParticipantCount != 1 {
			t.Errorf("entry %d: expected 1 participant, got %d", i, entry.ParticipantCount)
		}
	}

	// labels carry the date and the group display name
	if result.Entries[0].Label != "Serviço Operacional 01/03/2025 — Ala Charlie" {
		t.Errorf("unexpected label: %s", result.Entries[0].Label)
	}

	// one assignment per period, 24h window ending one minute before the next
	if len(mocks.assignment.assignments) != 6 {
		t.Errorf("expected 6 assignments, got %d", len(mocks.assignment.assignments))
	}
	first := result.Entries[0]
	if first.EndsAt != "2025-03-02T07:59:00Z" {
		t.Errorf("expected end 2025-03-02T07:59:00Z, got %s", first.EndsAt)
	}
}

func TestRotationService_Generate_PeriodBounds(t *testing.T) {
	svc, mocks := setupTestRotationService()
	seedSmallUnit(mocks, true)

	for _, periods := range []int{0, 121} {
		req := &dto.GenerateRotationRequest{
			StartDate:     "2025-03-01",
			StartingGroup: "alfa",
			Periods:       periods,
		}
		_, err := svc.Generate(context.Background(), "unit-1", req, "sup-1")
		if !errors.Is(err, ErrInvalidPeriodCount) {
			t.Errorf("periods=%d: expected ErrInvalidPeriodCount, got: %v", periods, err)
		}
	}
}

func TestRotationService_Generate_UnknownStartingGroup(t *testing.T) {
	svc, mocks := setupTestRotationService()
	seedSmallUnit(mocks, true)

	req := &dto.GenerateRotationRequest{
		StartDate:     "2025-03-01",
		StartingGroup: "echo",
		Periods:       4,
	}
	_, err := svc.Generate(context.Background(), "unit-1", req, "sup-1")
	var unknownGroup *UnknownGroupError
	if !errors.As(err, &unknownGroup) {
		t.Fatalf("expected UnknownGroupError, got: %v", err)
	}
}

func TestRotationService_Generate_UnassignedPersonnelRejected(t *testing.T) {
	svc, mocks := setupTestRotationService()
	seedSmallUnit(mocks, true)
	mocks.user.addOperational("p5", "Militar 5", "unit-1", nil)

	req := &dto.GenerateRotationRequest{
		StartDate:     "2025-03-01",
		StartingGroup: "alfa",
		Periods:       4,
	}
	_, err := svc.Generate(context.Background(), "unit-1", req, "sup-1")
	var coverage *IncompleteCoverageError
	if !errors.As(err, &coverage) {
		t.Fatalf("expected IncompleteCoverageError, got: %v", err)
	}
	if len(coverage.Missing) != 1 || coverage.Missing[0] != "p5" {
		t.Errorf("expected missing [p5], got %v", coverage.Missing)
	}
}

func TestRotationService_Generate_ExplicitPartitionOverride(t *testing.T) {
	svc, mocks := setupTestRotationService()
	// stored labels would fail coverage without the override
	seedSmallUnit(mocks, false)

	req := &dto.GenerateRotationRequest{
		StartDate:     "2025-03-01",
		StartingGroup: "alfa",
		Periods:       4,
		Partition: map[string][]string{
			"alfa": {"p1"}, "bravo": {"p2"}, "charlie": {"p3"}, "delta": {"p4"},
		},
	}
	result, err := svc.Generate(context.Background(), "unit-1", req, "sup-1")
	if err != nil {
		t.Fatalf("Generate with explicit partition should succeed: %v", err)
	}
	if len(result.Entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(result.Entries))
	}
}

func TestRotationService_Generate_CollisionAbortsWholeBatch(t *testing.T) {
	svc, mocks := setupTestRotationService()
	seedSmallUnit(mocks, true)

	// p1 (alfa) already serves on 2025-03-05, which the rotation starting
	// at alfa on 2025-03-01 reaches on its second alfa period
	collisionDate := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	mocks.assignment.BatchCreate(context.Background(), []model.Assignment{
		{EntryID: "pre-entry", UserID: "p1", UnitID: "unit-1", DutyDate: collisionDate},
	})
	before := len(mocks.assignment.assignments)

	req := &dto.GenerateRotationRequest{
		StartDate:     "2025-03-01",
		StartingGroup: "alfa",
		Periods:       10,
	}
	_, err := svc.Generate(context.Background(), "unit-1", req, "sup-1")
	var collision *CollisionError
	if !errors.As(err, &collision) {
		t.Fatalf("expected CollisionError, got: %v", err)
	}
	if collision.PersonID != "p1" {
		t.Errorf("expected collision on p1, got %s", collision.PersonID)
	}
	if collision.Date.Format("2006-01-02") != "2025-03-05" {
		t.Errorf("expected collision date 2025-03-05, got %s", collision.Date.Format("2006-01-02"))
	}

	// nothing from the aborted batch may survive
	if len(mocks.assignment.assignments) != before {
		t.Errorf("expected %d assignments after rollback, got %d", before, len(mocks.assignment.assignments))
	}
	if len(mocks.entry.entries) != 0 {
		t.Errorf("expected 0 entries after rollback, got %d", len(mocks.entry.entries))
	}
}

func TestRotationService_Generate_UnitNotFound(t *testing.T) {
	svc, _ := setupTestRotationService()

	req := &dto.GenerateRotationRequest{
		StartDate:     "2025-03-01",
		StartingGroup: "alfa",
		Periods:       4,
	}
	_, err := svc.Generate(context.Background(), "nope", req, "sup-1")
	if !errors.Is(err, ErrUnitNotFound) {
		t.Errorf("expected ErrUnitNotFound, got: %v", err)
	}
}

// ── schedule reads ──

func TestRotationService_ListMyAssignments(t *testing.T) {
	svc, mocks := setupTestRotationService()
	seedSmallUnit(mocks, true)

	req := &dto.GenerateRotationRequest{
		StartDate:     "2025-03-01",
		StartingGroup: "alfa",
		Periods:       8,
	}
	if _, err := svc.Generate(context.Background(), "unit-1", req, "sup-1"); err != nil {
		t.Fatalf("Generate should succeed: %v", err)
	}

	// p1 (alfa) serves on day 1 and day 5
	mine, err := svc.ListMyAssignments(context.Background(), "p1", &dto.MyScheduleRequest{
		From: "2025-03-01", To: "2025-03-08",
	})
	if err != nil {
		t.Fatalf("ListMyAssignments should succeed: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 assignments for p1, got %d", len(mine))
	}
	if mine[0].DutyDate != "2025-03-01" || mine[1].DutyDate != "2025-03-05" {
		t.Errorf("unexpected duty dates: %s, %s", mine[0].DutyDate, mine[1].DutyDate)
	}
}

func TestRotationService_ListEntries_RangeFilter(t *testing.T) {
	svc, mocks := setupTestRotationService()
	seedSmallUnit(mocks, true)

	req := &dto.GenerateRotationRequest{
		StartDate:     "2025-03-01",
		StartingGroup: "alfa",
		Periods:       10,
	}
	if _, err := svc.Generate(context.Background(), "unit-1", req, "sup-1"); err != nil {
		t.Fatalf("Generate should succeed: %v", err)
	}

	entries, err := svc.ListEntries(context.Background(), &dto.ScheduleListRequest{
		UnitID: "unit-1", From: "2025-03-03", To: "2025-03-05",
	})
	if err != nil {
		t.Fatalf("ListEntries should succeed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries in range, got %d", len(entries))
	}
	for i, e := range entries {
		want := fmt.Sprintf("2025-03-0%d", 3+i)
		if e.StartsAt[:10] != want {
			t.Errorf("entry %d: expected date %s, got %s", i, want, e.StartsAt[:10])
		}
	}
}
