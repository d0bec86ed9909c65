package model

import "time"

// ScheduleEntry is one generated duty period (a 24-hour service window)
// covered by one duty group. Created only by the rotation generator and
// immutable afterwards; swaps change its participants, never the entry.
type ScheduleEntry struct {
	EntryID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"entry_id"`
	UnitID     string    `gorm:"type:uuid;not null"                             json:"unit_id"`
	Label      string    `gorm:"type:varchar(200);not null"                     json:"label"`
	ShiftLabel string    `gorm:"type:varchar(20);not null"                      json:"shift_label"`
	StartsAt   time.Time `gorm:"not null"                                       json:"starts_at"`
	EndsAt     time.Time `gorm:"not null"                                       json:"ends_at"`
	Notes      string    `gorm:"type:varchar(500)"                              json:"notes,omitempty"`
	VersionedModel

	Unit *Unit `gorm:"foreignKey:UnitID;references:UnitID" json:"unit,omitempty"`
}

// TableName maps ScheduleEntry to its table.
func (ScheduleEntry) TableName() string { return "schedule_entries" }

// Assignment is the single source of truth for who serves on which date.
// At most one assignment may exist per (user, duty date); SwapRequestID links
// the one active or applied swap negotiation, if any.
type Assignment struct {
	AssignmentID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	EntryID       string    `gorm:"type:uuid;not null"                             json:"entry_id"`
	UserID        string    `gorm:"type:uuid;not null"                             json:"user_id"`
	UnitID        string    `gorm:"type:uuid;not null"                             json:"unit_id"`
	DutyDate      time.Time `gorm:"type:date;not null"                             json:"duty_date"`
	SwapRequestID *string   `gorm:"type:uuid"                                      json:"swap_request_id,omitempty"`
	VersionedModel

	Entry *ScheduleEntry `gorm:"foreignKey:EntryID;references:EntryID" json:"entry,omitempty"`
	User  *User          `gorm:"foreignKey:UserID;references:UserID"   json:"user,omitempty"`
}

// TableName maps Assignment to its table.
func (Assignment) TableName() string { return "assignments" }
