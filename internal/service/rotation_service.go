package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/edmundobop/plataforma-bravo-web-sub001/config"
	"github.com/edmundobop/plataforma-bravo-web-sub001/internal/dto"
	"github.com/edmundobop/plataforma-bravo-web-sub001/internal/model"
	"github.com/edmundobop/plataforma-bravo-web-sub001/internal/repository"
)

// ── rotation module business errors ──

var (
	ErrInvalidPeriodCount = errors.New("period count out of range")
	ErrInvalidStartDate   = errors.New("invalid start date")
)

// CollisionError reports that generating (or confirming a swap onto) a duty
// date would give one person two assignments on the same day. The whole
// batch is aborted; no partial schedule is ever persisted.
type CollisionError struct {
	PersonID string
	Date     time.Time
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("person %s already has an assignment on %s", e.PersonID, e.Date.Format(dateLayout))
}

// RotationService materializes the cyclic duty rotation.
type RotationService interface {
	// Generate creates periodCount consecutive duty periods for a unit,
	// rotating through the duty groups starting at the requested one, and
	// one assignment per member of the period's group. Runs in a single
	// transaction; any (person, date) collision aborts everything.
	Generate(ctx context.Context, unitID string, req *dto.GenerateRotationRequest, callerID string) (*dto.GenerateRotationResponse, error)
	// ListEntries returns a unit's duty periods within [from, to).
	ListEntries(ctx context.Context, req *dto.ScheduleListRequest) ([]dto.ScheduleEntryResponse, error)
	// ListAssignments returns a unit's duty records within [from, to).
	ListAssignments(ctx context.Context, req *dto.ScheduleListRequest) ([]dto.AssignmentResponse, error)
	// ListMyAssignments returns the caller's duty records within [from, to).
	ListMyAssignments(ctx context.Context, userID string, req *dto.MyScheduleRequest) ([]dto.AssignmentResponse, error)
}

type rotationService struct {
	repo   *repository.Repository
	duty   config.DutyConfig
	logger *zap.Logger
}

// NewRotationService creates a RotationService.
func NewRotationService(repo *repository.Repository, duty config.DutyConfig, logger *zap.Logger) RotationService {
	return &rotationService{repo: repo, duty: duty, logger: logger}
}

func (s *rotationService) Generate(ctx context.Context, unitID string, req *dto.GenerateRotationRequest, callerID string) (*dto.GenerateRotationResponse, error) {
	// 1. Preconditions: unit, bounds, enumeration membership, dates.
	if _, err := s.repo.Unit.GetByID(ctx, unitID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnitNotFound
		}
		s.logger.Error("loading unit failed", zap.Error(err))
		return nil, err
	}

	if req.Periods < 1 || req.Periods > s.duty.MaxPeriods {
		return nil, ErrInvalidPeriodCount
	}

	startingGroup, err := model.ParseDutyGroup(req.StartingGroup)
	if err != nil {
		return nil, &UnknownGroupError{Label: req.StartingGroup}
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, ErrInvalidStartDate
	}

	// 2. Partition: explicit override or the persisted labels. Either way
	// the invariants are re-validated here, since roster membership can
	// drift between partitioning and generation.
	eligible, err := s.repo.User.ListEligible(ctx, unitID)
	if err != nil {
		s.logger.Error("listing eligible personnel failed", zap.Error(err))
		return nil, err
	}

	var partition map[model.DutyGroup][]string
	if req.Partition != nil {
		partition, err = parsePartition(req.Partition)
		if err != nil {
			return nil, err
		}
	} else {
		var unassigned []string
		partition, unassigned = partitionFromLabels(eligible)
		if len(unassigned) > 0 {
			return nil, &IncompleteCoverageError{Missing: unassigned}
		}
	}
	if err := validatePartition(partition, eligible, s.duty.MinGroupSize); err != nil {
		return nil, err
	}

	rotation := rotateGroups(startingGroup)
	shiftStart, err := time.Parse("15:04", s.duty.ShiftStart)
	if err != nil {
		return nil, fmt.Errorf("parsing duty shift start: %w", err)
	}

	// 3. Materialize the whole batch in one transaction.
	var entries []dto.ScheduleEntryResponse
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		for i := 0; i < req.Periods; i++ {
			date := startDate.AddDate(0, 0, i)
			group := rotation[i%len(rotation)]

			startsAt := time.Date(date.Year(), date.Month(), date.Day(),
				shiftStart.Hour(), shiftStart.Minute(), 0, 0, time.UTC)
			endsAt := startsAt.Add(24*time.Hour - time.Minute)

			entry := &model.ScheduleEntry{
				UnitID:     unitID,
				Label:      fmt.Sprintf("Serviço Operacional %s — %s", date.Format("02/01/2006"), group.Display()),
				ShiftLabel: s.duty.ShiftLabel,
				StartsAt:   startsAt,
				EndsAt:     endsAt,
				Notes:      req.Notes,
			}
			entry.CreatedBy = &callerID
			entry.UpdatedBy = &callerID

			if err := tx.Entry.Create(ctx, entry); err != nil {
				return err
			}

			members := partition[group]
			assignments := make([]model.Assignment, 0, len(members))
			for _, personID := range members {
				existing, err := tx.Assignment.GetByUserAndDate(ctx, personID, date)
				if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
				if existing != nil {
					return &CollisionError{PersonID: personID, Date: date}
				}

				assignment := model.Assignment{
					EntryID:  entry.EntryID,
					UserID:   personID,
					UnitID:   unitID,
					DutyDate: date,
				}
				assignment.CreatedBy = &callerID
				assignment.UpdatedBy = &callerID
				assignments = append(assignments, assignment)
			}

			if err := tx.Assignment.BatchCreate(ctx, assignments); err != nil {
				return err
			}

			groupLabel := string(group)
			entries = append(entries, dto.ScheduleEntryResponse{
				ID:               entry.EntryID,
				UnitID:           entry.UnitID,
				Label:            entry.Label,
				ShiftLabel:       entry.ShiftLabel,
				StartsAt:         entry.StartsAt.Format(timeLayout),
				EndsAt:           entry.EndsAt.Format(timeLayout),
				Notes:            entry.Notes,
				ParticipantCount: len(assignments),
				DutyGroup:        &groupLabel,
			})
		}
		return nil
	})
	if err != nil {
		var collision *CollisionError
		if !errors.As(err, &collision) {
			s.logger.Error("generating rotation failed", zap.Error(err), zap.String("unit_id", unitID))
		}
		return nil, err
	}

	s.logger.Info("rotation generated",
		zap.String("unit_id", unitID),
		zap.Int("periods", req.Periods),
		zap.String("starting_group", string(startingGroup)),
	)

	return &dto.GenerateRotationResponse{Entries: entries}, nil
}

func (s *rotationService) ListEntries(ctx context.Context, req *dto.ScheduleListRequest) ([]dto.ScheduleEntryResponse, error) {
	from, to, err := parseDateRange(req.From, req.To)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.Entry.ListByUnitBetween(ctx, req.UnitID, from, to.AddDate(0, 0, 1))
	if err != nil {
		s.logger.Error("listing schedule entries failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ScheduleEntryResponse, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		result = append(result, dto.ScheduleEntryResponse{
			ID:         e.EntryID,
			UnitID:     e.UnitID,
			Label:      e.Label,
			ShiftLabel: e.ShiftLabel,
			StartsAt:   e.StartsAt.Format(timeLayout),
			EndsAt:     e.EndsAt.Format(timeLayout),
			Notes:      e.Notes,
		})
	}
	return result, nil
}

func (s *rotationService) ListAssignments(ctx context.Context, req *dto.ScheduleListRequest) ([]dto.AssignmentResponse, error) {
	from, to, err := parseDateRange(req.From, req.To)
	if err != nil {
		return nil, err
	}

	assignments, err := s.repo.Assignment.ListByUnitBetween(ctx, req.UnitID, from, to.AddDate(0, 0, 1))
	if err != nil {
		s.logger.Error("listing assignments failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.AssignmentResponse, 0, len(assignments))
	for i := range assignments {
		result = append(result, toAssignmentResponse(&assignments[i]))
	}
	return result, nil
}

func (s *rotationService) ListMyAssignments(ctx context.Context, userID string, req *dto.MyScheduleRequest) ([]dto.AssignmentResponse, error) {
	from, to, err := parseDateRange(req.From, req.To)
	if err != nil {
		return nil, err
	}

	assignments, err := s.repo.Assignment.ListByUserBetween(ctx, userID, from, to.AddDate(0, 0, 1))
	if err != nil {
		s.logger.Error("listing own assignments failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.AssignmentResponse, 0, len(assignments))
	for i := range assignments {
		result = append(result, toAssignmentResponse(&assignments[i]))
	}
	return result, nil
}

// ── helpers ──

const (
	dateLayout = "2006-01-02"
	timeLayout = "2006-01-02T15:04:05Z"
)

// rotateGroups returns the enumeration rotated so it begins at start.
func rotateGroups(start model.DutyGroup) []model.DutyGroup {
	groups := model.DutyGroups()
	for i, g := range groups {
		if g == start {
			return append(groups[i:], groups[:i]...)
		}
	}
	return groups
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func parseDateRange(fromStr, toStr string) (time.Time, time.Time, error) {
	from, err := parseDate(fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidStartDate
	}
	to, err := parseDate(toStr)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidStartDate
	}
	return from, to, nil
}

func toAssignmentResponse(a *model.Assignment) dto.AssignmentResponse {
	resp := dto.AssignmentResponse{
		ID:            a.AssignmentID,
		EntryID:       a.EntryID,
		UnitID:        a.UnitID,
		DutyDate:      a.DutyDate.Format(dateLayout),
		SwapRequestID: a.SwapRequestID,
	}
	if a.User != nil {
		u := toUserResponse(a.User)
		resp.User = &u
	}
	if a.Entry != nil {
		resp.Entry = &dto.ScheduleEntryResponse{
			ID:         a.Entry.EntryID,
			UnitID:     a.Entry.UnitID,
			Label:      a.Entry.Label,
			ShiftLabel: a.Entry.ShiftLabel,
			StartsAt:   a.Entry.StartsAt.Format(timeLayout),
			EndsAt:     a.Entry.EndsAt.Format(timeLayout),
		}
	}
	return resp
}
