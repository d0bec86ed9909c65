package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/edmundobop/plataforma-bravo-web-sub001/internal/dto"
	"github.com/edmundobop/plataforma-bravo-web-sub001/internal/model"
	"github.com/edmundobop/plataforma-bravo-web-sub001/internal/repository"
)

// ── roster module business errors ──

var ErrUnitNotFound = errors.New("unit not found")

// UnknownGroupError reports a label outside the duty-group enumeration.
type UnknownGroupError struct {
	Label string
}

func (e *UnknownGroupError) Error() string {
	return fmt.Sprintf("unknown duty group %q", e.Label)
}

// UnknownPersonError reports a person id that is not an eligible member of
// the unit being partitioned.
type UnknownPersonError struct {
	PersonID string
}

func (e *UnknownPersonError) Error() string {
	return fmt.Sprintf("person %s is not eligible for duty in this unit", e.PersonID)
}

// DuplicatePersonError reports a person listed in more than one duty group.
type DuplicatePersonError struct {
	PersonID string
}

func (e *DuplicatePersonError) Error() string {
	return fmt.Sprintf("person %s appears in more than one duty group", e.PersonID)
}

// IncompleteCoverageError reports eligible personnel missing from the
// partition.
type IncompleteCoverageError struct {
	Missing []string
}

func (e *IncompleteCoverageError) Error() string {
	return fmt.Sprintf("partition does not cover eligible personnel: %s", strings.Join(e.Missing, ", "))
}

// BelowMinimumError reports a duty group under the required headcount.
type BelowMinimumError struct {
	Group   model.DutyGroup
	Count   int
	Minimum int
}

func (e *BelowMinimumError) Error() string {
	return fmt.Sprintf("duty group %s has %d members, minimum is %d", e.Group, e.Count, e.Minimum)
}

// RosterService is the roster provider and partitioner.
type RosterService interface {
	// ListEligible returns the personnel participating in the duty rotation
	// of a unit, ordered by current group then name (unassigned last).
	ListEligible(ctx context.Context, unitID string) ([]dto.UserResponse, error)
	// GetPartition reconstructs the current partition from the persisted
	// group labels.
	GetPartition(ctx context.Context, unitID string) (*dto.PartitionResponse, error)
	// SetPartition validates and persists a full assignment of eligible
	// personnel into duty groups. All validation happens before any write.
	SetPartition(ctx context.Context, unitID string, groups map[string][]string, callerID string) (*dto.PartitionResponse, error)
}

type rosterService struct {
	repo         *repository.Repository
	minGroupSize int
	logger       *zap.Logger
}

// NewRosterService creates a RosterService. minGroupSize is the per-group
// headcount required once the unit is large enough to sustain it.
func NewRosterService(repo *repository.Repository, minGroupSize int, logger *zap.Logger) RosterService {
	return &rosterService{repo: repo, minGroupSize: minGroupSize, logger: logger}
}

func (s *rosterService) ListEligible(ctx context.Context, unitID string) ([]dto.UserResponse, error) {
	if _, err := s.unit(ctx, unitID); err != nil {
		return nil, err
	}

	users, err := s.repo.User.ListEligible(ctx, unitID)
	if err != nil {
		s.logger.Error("listing eligible personnel failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, toUserResponse(&users[i]))
	}
	return result, nil
}

func (s *rosterService) GetPartition(ctx context.Context, unitID string) (*dto.PartitionResponse, error) {
	if _, err := s.unit(ctx, unitID); err != nil {
		return nil, err
	}

	eligible, err := s.repo.User.ListEligible(ctx, unitID)
	if err != nil {
		s.logger.Error("listing eligible personnel failed", zap.Error(err))
		return nil, err
	}

	return buildPartitionResponse(unitID, eligible), nil
}

func (s *rosterService) SetPartition(ctx context.Context, unitID string, groups map[string][]string, callerID string) (*dto.PartitionResponse, error) {
	if _, err := s.unit(ctx, unitID); err != nil {
		return nil, err
	}

	partition, err := parsePartition(groups)
	if err != nil {
		return nil, err
	}

	eligible, err := s.repo.User.ListEligible(ctx, unitID)
	if err != nil {
		s.logger.Error("listing eligible personnel failed", zap.Error(err))
		return nil, err
	}

	if err := validatePartition(partition, eligible, s.minGroupSize); err != nil {
		return nil, err
	}

	// All checks passed; persist labels in one scope. Stale labels on
	// personnel no longer eligible are cleared in the same transaction.
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		assigned := make(map[string]bool)
		for group, members := range partition {
			label := string(group)
			for _, personID := range members {
				assigned[personID] = true
				if err := tx.User.UpdateDutyGroup(ctx, personID, &label, callerID); err != nil {
					return err
				}
			}
		}

		labeled, err := tx.User.ListLabeled(ctx, unitID)
		if err != nil {
			return err
		}
		for i := range labeled {
			if !assigned[labeled[i].UserID] {
				if err := tx.User.UpdateDutyGroup(ctx, labeled[i].UserID, nil, callerID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("persisting partition failed", zap.Error(err), zap.String("unit_id", unitID))
		return nil, err
	}

	updated, err := s.repo.User.ListEligible(ctx, unitID)
	if err != nil {
		return nil, err
	}
	return buildPartitionResponse(unitID, updated), nil
}

func (s *rosterService) unit(ctx context.Context, unitID string) (*model.Unit, error) {
	unit, err := s.repo.Unit.GetByID(ctx, unitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnitNotFound
		}
		s.logger.Error("loading unit failed", zap.Error(err))
		return nil, err
	}
	return unit, nil
}

// ── partition helpers (shared with the rotation generator) ──

// parsePartition converts raw labels into the closed enumeration, rejecting
// unknown groups.
func parsePartition(groups map[string][]string) (map[model.DutyGroup][]string, error) {
	partition := make(map[model.DutyGroup][]string, len(groups))
	for label, members := range groups {
		group, err := model.ParseDutyGroup(label)
		if err != nil {
			return nil, &UnknownGroupError{Label: label}
		}
		partition[group] = members
	}
	return partition, nil
}

// validatePartition enforces the partition invariants against the current
// eligible roster: known personnel only, no duplicates, full coverage, and
// the graduated minimum group size. No mutation happens here.
func validatePartition(partition map[model.DutyGroup][]string, eligible []model.User, minGroupSize int) error {
	eligibleByID := make(map[string]bool, len(eligible))
	for i := range eligible {
		eligibleByID[eligible[i].UserID] = true
	}

	seen := make(map[string]bool)
	for _, members := range partition {
		for _, personID := range members {
			if !eligibleByID[personID] {
				return &UnknownPersonError{PersonID: personID}
			}
			if seen[personID] {
				return &DuplicatePersonError{PersonID: personID}
			}
			seen[personID] = true
		}
	}

	var missing []string
	for i := range eligible {
		if !seen[eligible[i].UserID] {
			missing = append(missing, eligible[i].UserID)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &IncompleteCoverageError{Missing: missing}
	}

	// Graduated threshold: once the unit can sustain minGroupSize per group,
	// require it; smaller units only need non-empty groups.
	groups := model.DutyGroups()
	minimum := 1
	if len(eligible) >= len(groups)*minGroupSize {
		minimum = minGroupSize
	}
	for _, group := range groups {
		if count := len(partition[group]); count < minimum {
			return &BelowMinimumError{Group: group, Count: count, Minimum: minimum}
		}
	}

	return nil
}

// partitionFromLabels reconstructs the persisted partition; the second
// return value lists eligible personnel without a group label.
func partitionFromLabels(eligible []model.User) (map[model.DutyGroup][]string, []string) {
	partition := make(map[model.DutyGroup][]string)
	var unassigned []string
	for i := range eligible {
		u := &eligible[i]
		if u.DutyGroup == nil {
			unassigned = append(unassigned, u.UserID)
			continue
		}
		group, err := model.ParseDutyGroup(*u.DutyGroup)
		if err != nil {
			unassigned = append(unassigned, u.UserID)
			continue
		}
		partition[group] = append(partition[group], u.UserID)
	}
	return partition, unassigned
}

func buildPartitionResponse(unitID string, eligible []model.User) *dto.PartitionResponse {
	resp := &dto.PartitionResponse{
		UnitID: unitID,
		Groups: make(map[string][]dto.UserResponse, len(model.DutyGroups())),
	}
	for _, group := range model.DutyGroups() {
		resp.Groups[string(group)] = []dto.UserResponse{}
	}

	for i := range eligible {
		u := &eligible[i]
		if u.DutyGroup == nil {
			resp.Unassigned = append(resp.Unassigned, toUserResponse(u))
			continue
		}
		resp.Groups[*u.DutyGroup] = append(resp.Groups[*u.DutyGroup], toUserResponse(u))
	}

	resp.Complete = len(resp.Unassigned) == 0 && len(eligible) > 0
	return resp
}
