package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/edmundobop/plataforma-bravo-web-sub001/internal/dto"
	"github.com/edmundobop/plataforma-bravo-web-sub001/internal/model"
	"github.com/edmundobop/plataforma-bravo-web-sub001/internal/repository"
	pkgerrors "github.com/edmundobop/plataforma-bravo-web-sub001/pkg/errors"
)

// ── swap module business errors ──

var (
	ErrSwapNotFound              = errors.New("swap request not found")
	ErrAssignmentNotFound        = errors.New("assignment not found")
	ErrSwapAlreadyPending        = errors.New("assignment already has a pending swap request")
	ErrSwapAlreadyResolved       = errors.New("swap request already resolved")
	ErrOriginalAssignmentMissing = errors.New("original assignment no longer exists")
	ErrNotAssignmentHolder       = errors.New("assignment belongs to another person")
	ErrNotSubstitute             = errors.New("only the proposed substitute may act on this request")
	ErrNotSwapParty              = errors.New("not a party to this swap request")
	ErrSelfSwap                  = errors.New("cannot propose a swap with yourself")
	ErrSubstituteIneligible      = errors.New("substitute is not eligible for duty in this unit")
)

// SwapService runs the duty-swap protocol: pending is the only non-terminal
// state, and every resolution rewrites the assignment, appends audit history
// and creates notifications inside one transaction.
type SwapService interface {
	// Propose opens a negotiation on behalf of the assignment holder.
	Propose(ctx context.Context, requesterID string, req *dto.ProposeSwapRequest) (*dto.SwapResponse, error)
	// Respond is the substitute's answer: accept finalizes the swap,
	// decline rejects it.
	Respond(ctx context.Context, swapID, userID string, req *dto.RespondSwapRequest) (*dto.SwapResponse, error)
	// Confirm finalizes a pending swap, optionally fixing the compensation
	// date. Only the substitute may confirm.
	Confirm(ctx context.Context, swapID, userID string, req *dto.ConfirmSwapRequest) (*dto.SwapResponse, error)
	// SupervisorDecide resolves a pending swap administratively, in either
	// direction.
	SupervisorDecide(ctx context.Context, swapID, supervisorID string, req *dto.SupervisorDecisionRequest) (*dto.SwapResponse, error)
	// Get returns one swap with its audit history. Non-supervisors may
	// only see swaps they are a party to.
	Get(ctx context.Context, swapID, callerID, callerRole string) (*dto.SwapResponse, error)
	// ListMine pages through swaps the caller proposed or was proposed for.
	ListMine(ctx context.Context, userID string, req *dto.SwapListRequest) ([]dto.SwapResponse, int64, error)
	// ListPending returns a unit's open negotiations, oldest first.
	ListPending(ctx context.Context, unitID string) ([]dto.SwapResponse, error)
}

type swapService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSwapService creates a SwapService.
func NewSwapService(repo *repository.Repository, logger *zap.Logger) SwapService {
	return &swapService{repo: repo, logger: logger}
}

func (s *swapService) Propose(ctx context.Context, requesterID string, req *dto.ProposeSwapRequest) (*dto.SwapResponse, error) {
	assignment, err := s.repo.Assignment.GetByID(ctx, req.AssignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("loading assignment failed", zap.Error(err))
		return nil, err
	}
	if assignment.UserID != requesterID {
		return nil, ErrNotAssignmentHolder
	}
	// One negotiation per assignment, ever. A swapped assignment keeps its
	// link, which also blocks re-swapping an already traded duty.
	if assignment.SwapRequestID != nil {
		return nil, ErrSwapAlreadyPending
	}
	if req.SubstituteID == requesterID {
		return nil, ErrSelfSwap
	}

	substitute, err := s.repo.User.GetByID(ctx, req.SubstituteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &UnknownPersonError{PersonID: req.SubstituteID}
		}
		s.logger.Error("loading substitute failed", zap.Error(err))
		return nil, err
	}
	if !substitute.EligibleForDuty() || substitute.UnitID != assignment.UnitID {
		return nil, ErrSubstituteIneligible
	}

	targetDate, err := parseDate(req.TargetDate)
	if err != nil {
		return nil, ErrInvalidStartDate
	}
	var compensation *time.Time
	if req.CompensationDate != nil {
		d, err := parseDate(*req.CompensationDate)
		if err != nil {
			return nil, ErrInvalidStartDate
		}
		compensation = &d
	}

	swap := &model.SwapRequest{
		AssignmentID:     assignment.AssignmentID,
		RequesterID:      requesterID,
		SubstituteID:     req.SubstituteID,
		OriginalDate:     assignment.DutyDate,
		TargetDate:       targetDate,
		CompensationDate: compensation,
		Reason:           req.Reason,
		Status:           model.SwapStatusPending,
	}
	swap.CreatedBy = &requesterID
	swap.UpdatedBy = &requesterID

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Swap.Create(ctx, swap); err != nil {
			return err
		}

		assignment.SwapRequestID = &swap.SwapRequestID
		assignment.UpdatedBy = &requesterID
		if err := tx.Assignment.Update(ctx, assignment); err != nil {
			if errors.Is(err, pkgerrors.ErrOptimisticLock) {
				return ErrSwapAlreadyPending
			}
			return err
		}

		if err := tx.SwapHistory.Create(ctx, &model.SwapHistory{
			SwapRequestID: swap.SwapRequestID,
			Action:        model.SwapActionRequested,
			ActorID:       requesterID,
		}); err != nil {
			return err
		}

		return s.notifyProposed(ctx, tx, swap, assignment)
	})
	if err != nil {
		if !isSwapBusinessError(err) {
			s.logger.Error("proposing swap failed", zap.Error(err), zap.String("assignment_id", req.AssignmentID))
		}
		return nil, err
	}

	s.logger.Info("swap proposed",
		zap.String("swap_request_id", swap.SwapRequestID),
		zap.String("requester_id", requesterID),
		zap.String("substitute_id", req.SubstituteID),
	)
	return s.buildResponse(ctx, swap.SwapRequestID)
}

func (s *swapService) Respond(ctx context.Context, swapID, userID string, req *dto.RespondSwapRequest) (*dto.SwapResponse, error) {
	swap, err := s.loadPending(ctx, swapID)
	if err != nil {
		return nil, err
	}
	if swap.SubstituteID != userID {
		return nil, ErrNotSubstitute
	}

	if req.Accept {
		// Acceptance is the substitute's confirmation; the compensation
		// date falls back: stored value, then the duty's original date.
		return s.resolveApproved(ctx, swapID, nil, userID, true)
	}
	return s.resolveRejected(ctx, swapID, userID, req.RejectReason)
}

func (s *swapService) Confirm(ctx context.Context, swapID, userID string, req *dto.ConfirmSwapRequest) (*dto.SwapResponse, error) {
	swap, err := s.loadPending(ctx, swapID)
	if err != nil {
		return nil, err
	}
	if swap.SubstituteID != userID {
		return nil, ErrNotSubstitute
	}

	var explicit *time.Time
	if req.CompensationDate != nil {
		d, err := parseDate(*req.CompensationDate)
		if err != nil {
			return nil, ErrInvalidStartDate
		}
		explicit = &d
	}
	return s.resolveApproved(ctx, swapID, explicit, userID, true)
}

func (s *swapService) SupervisorDecide(ctx context.Context, swapID, supervisorID string, req *dto.SupervisorDecisionRequest) (*dto.SwapResponse, error) {
	if _, err := s.loadPending(ctx, swapID); err != nil {
		return nil, err
	}

	if req.Approve {
		// Administrative approval keeps the compensation date exactly as
		// stored on the request; no fallback to the original date.
		return s.resolveApproved(ctx, swapID, nil, supervisorID, false)
	}
	return s.resolveRejected(ctx, swapID, supervisorID, req.RejectReason)
}

func (s *swapService) Get(ctx context.Context, swapID, callerID, callerRole string) (*dto.SwapResponse, error) {
	swap, err := s.repo.Swap.GetByID(ctx, swapID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSwapNotFound
		}
		s.logger.Error("loading swap failed", zap.Error(err))
		return nil, err
	}
	if callerRole != model.RoleSupervisor && callerRole != model.RoleAdmin &&
		swap.RequesterID != callerID && swap.SubstituteID != callerID {
		return nil, ErrNotSwapParty
	}

	history, err := s.repo.SwapHistory.ListByRequest(ctx, swapID)
	if err != nil {
		s.logger.Error("loading swap history failed", zap.Error(err))
		return nil, err
	}

	resp := toSwapResponse(swap)
	for i := range history {
		resp.History = append(resp.History, dto.SwapHistoryEntry{
			Action:    history[i].Action,
			ActorID:   history[i].ActorID,
			CreatedAt: history[i].CreatedAt.Format(timeLayout),
		})
	}
	return &resp, nil
}

func (s *swapService) ListMine(ctx context.Context, userID string, req *dto.SwapListRequest) ([]dto.SwapResponse, int64, error) {
	swaps, total, err := s.repo.Swap.ListByParty(ctx, userID, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("listing swaps failed", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.SwapResponse, 0, len(swaps))
	for i := range swaps {
		result = append(result, toSwapResponse(&swaps[i]))
	}
	return result, total, nil
}

func (s *swapService) ListPending(ctx context.Context, unitID string) ([]dto.SwapResponse, error) {
	swaps, err := s.repo.Swap.ListPendingByUnit(ctx, unitID)
	if err != nil {
		s.logger.Error("listing pending swaps failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SwapResponse, 0, len(swaps))
	for i := range swaps {
		result = append(result, toSwapResponse(&swaps[i]))
	}
	return result, nil
}

// ── resolution ──

// resolveApproved finalizes a pending swap: the substitute takes over the
// original duty, the compensation date is fixed, and history plus
// notifications land in the same transaction as the assignment rewrite.
func (s *swapService) resolveApproved(ctx context.Context, swapID string, explicit *time.Time, approverID string, fallback bool) (*dto.SwapResponse, error) {
	var resolved *model.SwapRequest

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		swap, err := tx.Swap.GetByID(ctx, swapID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSwapNotFound
			}
			return err
		}
		if swap.Resolved() {
			return ErrSwapAlreadyResolved
		}

		assignment, err := tx.Assignment.GetByID(ctx, swap.AssignmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOriginalAssignmentMissing
			}
			return err
		}
		// The duty must still be held by the requester; anything else
		// means the schedule moved underneath the negotiation.
		if assignment.UserID != swap.RequesterID {
			return ErrOriginalAssignmentMissing
		}

		// The substitute cannot end up doubled on the date the duty
		// moves to.
		existing, err := tx.Assignment.GetByUserAndDate(ctx, swap.SubstituteID, swap.TargetDate)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if existing != nil {
			return &CollisionError{PersonID: swap.SubstituteID, Date: swap.TargetDate}
		}

		compensation := explicit
		if compensation == nil {
			compensation = swap.CompensationDate
		}
		if compensation == nil && fallback {
			original := swap.OriginalDate
			compensation = &original
		}

		now := time.Now()
		swap.Status = model.SwapStatusApproved
		swap.CompensationDate = compensation
		swap.ApprovedBy = &approverID
		swap.ApprovedAt = &now
		swap.UpdatedBy = &approverID
		if err := tx.Swap.Update(ctx, swap); err != nil {
			if errors.Is(err, pkgerrors.ErrOptimisticLock) {
				return ErrSwapAlreadyResolved
			}
			return err
		}

		assignment.UserID = swap.SubstituteID
		assignment.DutyDate = swap.TargetDate
		assignment.SwapRequestID = &swap.SwapRequestID
		assignment.UpdatedBy = &approverID
		if err := tx.Assignment.Update(ctx, assignment); err != nil {
			if errors.Is(err, pkgerrors.ErrOptimisticLock) {
				return ErrSwapAlreadyResolved
			}
			return err
		}

		if err := tx.SwapHistory.Create(ctx, &model.SwapHistory{
			SwapRequestID: swap.SwapRequestID,
			Action:        model.SwapActionApproved,
			ActorID:       approverID,
		}); err != nil {
			return err
		}

		resolved = swap
		if err := s.notifyResolved(ctx, tx, swap, true); err != nil {
			return err
		}
		return s.notifySupervisorsApproved(ctx, tx, swap, assignment.UnitID)
	})
	if err != nil {
		if !isSwapBusinessError(err) {
			s.logger.Error("approving swap failed", zap.Error(err), zap.String("swap_request_id", swapID))
		}
		return nil, err
	}

	s.logger.Info("swap approved",
		zap.String("swap_request_id", swapID),
		zap.String("approved_by", approverID),
	)
	return s.buildResponse(ctx, resolved.SwapRequestID)
}

func (s *swapService) resolveRejected(ctx context.Context, swapID, actorID, reason string) (*dto.SwapResponse, error) {
	var resolved *model.SwapRequest

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		swap, err := tx.Swap.GetByID(ctx, swapID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSwapNotFound
			}
			return err
		}
		if swap.Resolved() {
			return ErrSwapAlreadyResolved
		}

		swap.Status = model.SwapStatusRejected
		swap.RejectReason = reason
		swap.UpdatedBy = &actorID
		if err := tx.Swap.Update(ctx, swap); err != nil {
			if errors.Is(err, pkgerrors.ErrOptimisticLock) {
				return ErrSwapAlreadyResolved
			}
			return err
		}

		// Unlink the assignment so a new negotiation can follow. A lost
		// version race here means a concurrent resolution touched the
		// assignment; abort rather than leave the link dangling.
		assignment, err := tx.Assignment.GetByID(ctx, swap.AssignmentID)
		if err == nil {
			assignment.SwapRequestID = nil
			assignment.UpdatedBy = &actorID
			if err := tx.Assignment.Update(ctx, assignment); err != nil {
				if errors.Is(err, pkgerrors.ErrOptimisticLock) {
					return ErrSwapAlreadyResolved
				}
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.SwapHistory.Create(ctx, &model.SwapHistory{
			SwapRequestID: swap.SwapRequestID,
			Action:        model.SwapActionRejected,
			ActorID:       actorID,
		}); err != nil {
			return err
		}

		resolved = swap
		return s.notifyResolved(ctx, tx, swap, false)
	})
	if err != nil {
		if !isSwapBusinessError(err) {
			s.logger.Error("rejecting swap failed", zap.Error(err), zap.String("swap_request_id", swapID))
		}
		return nil, err
	}

	s.logger.Info("swap rejected",
		zap.String("swap_request_id", swapID),
		zap.String("rejected_by", actorID),
	)
	return s.buildResponse(ctx, resolved.SwapRequestID)
}

// ── notifications ──

func (s *swapService) notifyProposed(ctx context.Context, tx *repository.Repository, swap *model.SwapRequest, assignment *model.Assignment) error {
	related := model.RelatedSwapRequest

	substitute := model.Notification{
		UserID:      swap.SubstituteID,
		Type:        model.NotificationSwapRequested,
		Title:       "Solicitação de troca de serviço",
		Content:     fmt.Sprintf("Você foi indicado como substituto para o serviço de %s.", swap.OriginalDate.Format("02/01/2006")),
		RelatedType: &related,
		RelatedID:   &swap.SwapRequestID,
	}
	if err := tx.Notification.Create(ctx, &substitute); err != nil {
		return err
	}

	supervisors, err := tx.User.ListByRole(ctx, assignment.UnitID, model.RoleSupervisor)
	if err != nil {
		return err
	}
	broadcast := make([]model.Notification, 0, len(supervisors))
	for i := range supervisors {
		broadcast = append(broadcast, model.Notification{
			UserID:      supervisors[i].UserID,
			Type:        model.NotificationSwapRequested,
			Title:       "Nova solicitação de troca pendente",
			Content:     fmt.Sprintf("Troca solicitada para o serviço de %s aguarda decisão.", swap.OriginalDate.Format("02/01/2006")),
			RelatedType: &related,
			RelatedID:   &swap.SwapRequestID,
		})
	}
	return tx.Notification.BatchCreate(ctx, broadcast)
}

func (s *swapService) notifyResolved(ctx context.Context, tx *repository.Repository, swap *model.SwapRequest, approved bool) error {
	related := model.RelatedSwapRequest

	notifType := model.NotificationSwapApproved
	title := "Troca de serviço aprovada"
	content := fmt.Sprintf("A troca do serviço de %s foi aprovada.", swap.OriginalDate.Format("02/01/2006"))
	if !approved {
		notifType = model.NotificationSwapRejected
		title = "Troca de serviço recusada"
		content = fmt.Sprintf("A troca do serviço de %s foi recusada.", swap.OriginalDate.Format("02/01/2006"))
	}

	notifications := []model.Notification{
		{
			UserID:      swap.RequesterID,
			Type:        notifType,
			Title:       title,
			Content:     content,
			RelatedType: &related,
			RelatedID:   &swap.SwapRequestID,
		},
		{
			UserID:      swap.SubstituteID,
			Type:        notifType,
			Title:       title,
			Content:     content,
			RelatedType: &related,
			RelatedID:   &swap.SwapRequestID,
		},
	}
	return tx.Notification.BatchCreate(ctx, notifications)
}

// notifySupervisorsApproved informs the unit's supervisors that a duty
// changed hands, in the same transaction as the rewrite.
func (s *swapService) notifySupervisorsApproved(ctx context.Context, tx *repository.Repository, swap *model.SwapRequest, unitID string) error {
	supervisors, err := tx.User.ListByRole(ctx, unitID, model.RoleSupervisor)
	if err != nil {
		return err
	}

	related := model.RelatedSwapRequest
	broadcast := make([]model.Notification, 0, len(supervisors))
	for i := range supervisors {
		broadcast = append(broadcast, model.Notification{
			UserID:      supervisors[i].UserID,
			Type:        model.NotificationSwapApproved,
			Title:       "Troca de serviço aplicada",
			Content:     fmt.Sprintf("O serviço de %s foi transferido para %s.", swap.OriginalDate.Format("02/01/2006"), swap.TargetDate.Format("02/01/2006")),
			RelatedType: &related,
			RelatedID:   &swap.SwapRequestID,
		})
	}
	return tx.Notification.BatchCreate(ctx, broadcast)
}

// ── helpers ──

func (s *swapService) loadPending(ctx context.Context, swapID string) (*model.SwapRequest, error) {
	swap, err := s.repo.Swap.GetByID(ctx, swapID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSwapNotFound
		}
		s.logger.Error("loading swap failed", zap.Error(err))
		return nil, err
	}
	if swap.Resolved() {
		return nil, ErrSwapAlreadyResolved
	}
	return swap, nil
}

func (s *swapService) buildResponse(ctx context.Context, swapID string) (*dto.SwapResponse, error) {
	swap, err := s.repo.Swap.GetByID(ctx, swapID)
	if err != nil {
		s.logger.Error("reloading swap failed", zap.Error(err))
		return nil, err
	}

	history, err := s.repo.SwapHistory.ListByRequest(ctx, swapID)
	if err != nil {
		s.logger.Error("loading swap history failed", zap.Error(err))
		return nil, err
	}

	resp := toSwapResponse(swap)
	for i := range history {
		resp.History = append(resp.History, dto.SwapHistoryEntry{
			Action:    history[i].Action,
			ActorID:   history[i].ActorID,
			CreatedAt: history[i].CreatedAt.Format(timeLayout),
		})
	}
	return &resp, nil
}

func toSwapResponse(swap *model.SwapRequest) dto.SwapResponse {
	resp := dto.SwapResponse{
		ID:           swap.SwapRequestID,
		AssignmentID: swap.AssignmentID,
		OriginalDate: swap.OriginalDate.Format(dateLayout),
		TargetDate:   swap.TargetDate.Format(dateLayout),
		Reason:       swap.Reason,
		Status:       swap.Status,
		ApprovedBy:   swap.ApprovedBy,
		RejectReason: swap.RejectReason,
		CreatedAt:    swap.CreatedAt.Format(timeLayout),
	}
	if swap.CompensationDate != nil {
		d := swap.CompensationDate.Format(dateLayout)
		resp.CompensationDate = &d
	}
	if swap.ApprovedAt != nil {
		t := swap.ApprovedAt.Format(timeLayout)
		resp.ApprovedAt = &t
	}
	if swap.Requester != nil {
		u := toUserResponse(swap.Requester)
		resp.Requester = &u
	}
	if swap.Substitute != nil {
		u := toUserResponse(swap.Substitute)
		resp.Substitute = &u
	}
	return resp
}

// isSwapBusinessError reports whether err is an expected protocol outcome
// rather than an infrastructure failure worth an error log.
func isSwapBusinessError(err error) bool {
	var collision *CollisionError
	var unknown *UnknownPersonError
	switch {
	case errors.Is(err, ErrSwapNotFound),
		errors.Is(err, ErrAssignmentNotFound),
		errors.Is(err, ErrSwapAlreadyPending),
		errors.Is(err, ErrSwapAlreadyResolved),
		errors.Is(err, ErrOriginalAssignmentMissing),
		errors.Is(err, ErrNotAssignmentHolder),
		errors.Is(err, ErrNotSubstitute),
		errors.Is(err, ErrNotSwapParty),
		errors.Is(err, ErrSelfSwap),
		errors.Is(err, ErrSubstituteIneligible),
		errors.As(err, &collision),
		errors.As(err, &unknown):
		return true
	}
	return false
}
