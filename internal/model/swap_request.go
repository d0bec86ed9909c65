package model

import "time"

// Swap request lifecycle. pending is the only non-terminal state.
const (
	SwapStatusPending  = "pending"
	SwapStatusApproved = "approved"
	SwapStatusRejected = "rejected"
)

// Swap history action labels (persisted audit vocabulary).
const (
	SwapActionRequested = "solicitado"
	SwapActionApproved  = "aprovado"
	SwapActionRejected  = "recusado"
)

// SwapRequest is a negotiation to move duty responsibility from the requester
// to a substitute. It never represents duty state itself; a confirmed swap
// rewrites the linked Assignment.
type SwapRequest struct {
	SwapRequestID    string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"swap_request_id"`
	AssignmentID     string     `gorm:"type:uuid;not null"                             json:"assignment_id"`
	RequesterID      string     `gorm:"type:uuid;not null"                             json:"requester_id"`
	SubstituteID     string     `gorm:"type:uuid;not null"                             json:"substitute_id"`
	OriginalDate     time.Time  `gorm:"type:date;not null"                             json:"original_date"`
	TargetDate       time.Time  `gorm:"type:date;not null"                             json:"target_date"`
	CompensationDate *time.Time `gorm:"type:date"                                      json:"compensation_date,omitempty"`
	Reason           string     `gorm:"type:varchar(500)"                              json:"reason,omitempty"`
	Status           string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	ApprovedBy       *string    `gorm:"type:uuid"                                      json:"approved_by,omitempty"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`
	RejectReason     string     `gorm:"type:varchar(500)"                              json:"reject_reason,omitempty"`
	VersionedModel

	Assignment *Assignment `gorm:"foreignKey:AssignmentID;references:AssignmentID" json:"assignment,omitempty"`
	Requester  *User       `gorm:"foreignKey:RequesterID;references:UserID"        json:"requester,omitempty"`
	Substitute *User       `gorm:"foreignKey:SubstituteID;references:UserID"       json:"substitute,omitempty"`
}

// TableName maps SwapRequest to its table.
func (SwapRequest) TableName() string { return "swap_requests" }

// Resolved reports whether the request reached a terminal state.
func (s *SwapRequest) Resolved() bool {
	return s.Status != SwapStatusPending
}

// SwapHistory is an append-only audit record of one protocol action.
type SwapHistory struct {
	HistoryID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"history_id"`
	SwapRequestID string    `gorm:"type:uuid;not null"                             json:"swap_request_id"`
	Action        string    `gorm:"type:varchar(30);not null"                      json:"action"`
	ActorID       string    `gorm:"type:uuid;not null"                             json:"actor_id"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName maps SwapHistory to its table.
func (SwapHistory) TableName() string { return "swap_histories" }
