package dto

// UserListRequest filters the personnel listing.
type UserListRequest struct {
	UnitID string `form:"unit_id" binding:"required,uuid"`
	PaginationRequest
}

// UserResponse is the public view of one person.
type UserResponse struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	RegistrationNumber string     `json:"registration_number"`
	Email              string     `json:"email"`
	Role               string     `json:"role"`
	Sector             string     `json:"sector"`
	DutyGroup          *string    `json:"duty_group,omitempty"`
	Unit               *UnitBrief `json:"unit,omitempty"`
	IsActive           bool       `json:"is_active"`
}

// UnitBrief is a compact unit reference.
type UnitBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UnitResponse is the full unit view.
type UnitResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	City     string `json:"city,omitempty"`
	IsActive bool   `json:"is_active"`
}
