package dto

// ProposeSwapRequest opens a swap negotiation against one assignment.
// CompensationDate is optional at proposal time; it must be resolved by
// confirmation (explicit value, stored value, or the original date).
type ProposeSwapRequest struct {
	AssignmentID     string  `json:"assignment_id"     binding:"required,uuid"`
	SubstituteID     string  `json:"substitute_id"     binding:"required,uuid"`
	TargetDate       string  `json:"target_date"       binding:"required,datetime=2006-01-02"`
	CompensationDate *string `json:"compensation_date" binding:"omitempty,datetime=2006-01-02"`
	Reason           string  `json:"reason"            binding:"required,min=2,max=500"`
}

// RespondSwapRequest is the substitute's answer.
type RespondSwapRequest struct {
	Accept       bool   `json:"accept"`
	RejectReason string `json:"reject_reason" binding:"omitempty,max=500"`
}

// ConfirmSwapRequest finalizes a swap, optionally fixing the compensation
// date at confirmation time.
type ConfirmSwapRequest struct {
	CompensationDate *string `json:"compensation_date" binding:"omitempty,datetime=2006-01-02"`
}

// SupervisorDecisionRequest is an administrative override.
type SupervisorDecisionRequest struct {
	Approve      bool   `json:"approve"`
	RejectReason string `json:"reject_reason" binding:"omitempty,max=500"`
}

// SwapListRequest paginates the caller's swap listing.
type SwapListRequest struct {
	PaginationRequest
}

// PendingSwapListRequest scopes the supervisor queue to a unit.
type PendingSwapListRequest struct {
	UnitID string `form:"unit_id" binding:"required,uuid"`
}

// SwapResponse is the public view of one negotiation.
type SwapResponse struct {
	ID               string             `json:"id"`
	AssignmentID     string             `json:"assignment_id"`
	Requester        *UserResponse      `json:"requester,omitempty"`
	Substitute       *UserResponse      `json:"substitute,omitempty"`
	OriginalDate     string             `json:"original_date"`
	TargetDate       string             `json:"target_date"`
	CompensationDate *string            `json:"compensation_date,omitempty"`
	Reason           string             `json:"reason,omitempty"`
	Status           string             `json:"status"`
	ApprovedBy       *string            `json:"approved_by,omitempty"`
	ApprovedAt       *string            `json:"approved_at,omitempty"`
	RejectReason     string             `json:"reject_reason,omitempty"`
	History          []SwapHistoryEntry `json:"history,omitempty"`
	CreatedAt        string             `json:"created_at"`
}

// SwapHistoryEntry is one audit record.
type SwapHistoryEntry struct {
	Action    string `json:"action"`
	ActorID   string `json:"actor_id"`
	CreatedAt string `json:"created_at"`
}
