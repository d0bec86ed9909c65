package model

// Personnel roles.
const (
	RoleMember     = "member"
	RoleSupervisor = "supervisor"
	RoleAdmin      = "admin"
)

// Personnel sectors. Only the operational sector is eligible for duty
// rotation.
const (
	SectorOperational    = "operational"
	SectorAdministrative = "administrative"
)

// User is one person on the force.
// DutyGroup is nil until the roster partitioner assigns the person to an ala.
type User struct {
	UserID             string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name               string  `gorm:"type:varchar(100);not null"                     json:"name"`
	RegistrationNumber string  `gorm:"type:varchar(20);not null;uniqueIndex"          json:"registration_number"`
	Email              string  `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash       string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Role               string  `gorm:"type:varchar(20);not null;default:'member'"     json:"role"`
	Sector             string  `gorm:"type:varchar(20);not null;default:'operational'" json:"sector"`
	DutyGroup          *string `gorm:"type:varchar(10)"                               json:"duty_group,omitempty"`
	UnitID             string  `gorm:"type:uuid;not null"                             json:"unit_id"`
	IsActive           bool    `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel

	Unit *Unit `gorm:"foreignKey:UnitID;references:UnitID" json:"unit,omitempty"`
}

// TableName maps User to its table.
func (User) TableName() string { return "users" }

// EligibleForDuty reports whether the person participates in the rotation.
func (u *User) EligibleForDuty() bool {
	return u.IsActive && u.Sector == SectorOperational
}
