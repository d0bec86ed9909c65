package model

// Unit is the organizational scoping boundary (a station or command).
// Rosters, schedules and swaps are always isolated per unit.
type Unit struct {
	UnitID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"unit_id"`
	Name     string `gorm:"type:varchar(100);not null"                     json:"name"`
	City     string `gorm:"type:varchar(100)"                              json:"city,omitempty"`
	IsActive bool   `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel
}

// TableName maps Unit to its table.
func (Unit) TableName() string { return "units" }
