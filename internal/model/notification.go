package model

// Notification categories.
const (
	NotificationSwapRequested = "swap_requested"
	NotificationSwapApproved  = "swap_approved"
	NotificationSwapRejected  = "swap_rejected"
)

// Related entity types for notifications.
const (
	RelatedSwapRequest = "swap_request"
	RelatedAssignment  = "assignment"
	RelatedEntry       = "schedule_entry"
)

// Notification is one in-app message for a user. Delivery transport (mail,
// push) is out of scope; rows created inside core transactions are the
// durable record.
type Notification struct {
	NotificationID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_id"`
	UserID         string  `gorm:"type:uuid;not null"                             json:"user_id"`
	Type           string  `gorm:"type:varchar(50);not null"                      json:"type"`
	Title          string  `gorm:"type:varchar(200);not null"                     json:"title"`
	Content        string  `gorm:"type:text;not null"                             json:"content"`
	IsRead         bool    `gorm:"not null;default:false"                         json:"is_read"`
	RelatedType    *string `gorm:"type:varchar(20)"                               json:"related_type,omitempty"`
	RelatedID      *string `gorm:"type:uuid"                                      json:"related_id,omitempty"`
	SoftDeleteModel
}

// TableName maps Notification to its table.
func (Notification) TableName() string { return "notifications" }
