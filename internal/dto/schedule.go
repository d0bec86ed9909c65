package dto

// GenerateRotationRequest asks for periodCount consecutive 24-hour duty
// periods starting at StartDate, rotating through the duty groups beginning
// at StartingGroup. Partition, when present, overrides the persisted group
// labels for this generation only after full re-validation.
type GenerateRotationRequest struct {
	StartDate     string              `json:"start_date"     binding:"required,datetime=2006-01-02"`
	StartingGroup string              `json:"starting_group" binding:"required"`
	Periods       int                 `json:"periods"        binding:"required,min=1"`
	Partition     map[string][]string `json:"partition,omitempty"`
	Notes         string              `json:"notes"          binding:"omitempty,max=500"`
}

// GenerateRotationResponse reports what was materialized.
type GenerateRotationResponse struct {
	Entries []ScheduleEntryResponse `json:"entries"`
}

// ScheduleEntryResponse is one generated duty period.
type ScheduleEntryResponse struct {
	ID               string  `json:"id"`
	UnitID           string  `json:"unit_id"`
	Label            string  `json:"label"`
	ShiftLabel       string  `json:"shift_label"`
	StartsAt         string  `json:"starts_at"`
	EndsAt           string  `json:"ends_at"`
	Notes            string  `json:"notes,omitempty"`
	ParticipantCount int     `json:"participant_count"`
	DutyGroup        *string `json:"duty_group,omitempty"`
}

// ScheduleListRequest bounds a schedule query to a unit and date range.
type ScheduleListRequest struct {
	UnitID string `form:"unit_id" binding:"required,uuid"`
	From   string `form:"from"    binding:"required,datetime=2006-01-02"`
	To     string `form:"to"      binding:"required,datetime=2006-01-02"`
}

// MyScheduleRequest bounds the caller's own assignment query.
type MyScheduleRequest struct {
	From string `form:"from" binding:"required,datetime=2006-01-02"`
	To   string `form:"to"   binding:"required,datetime=2006-01-02"`
}

// AssignmentResponse is one materialized duty record.
type AssignmentResponse struct {
	ID            string                 `json:"id"`
	EntryID       string                 `json:"entry_id"`
	UnitID        string                 `json:"unit_id"`
	DutyDate      string                 `json:"duty_date"`
	User          *UserResponse          `json:"user,omitempty"`
	Entry         *ScheduleEntryResponse `json:"entry,omitempty"`
	SwapRequestID *string                `json:"swap_request_id,omitempty"`
}
