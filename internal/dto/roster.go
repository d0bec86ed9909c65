package dto

// SetPartitionRequest assigns every eligible person of a unit into exactly
// one duty group. Keys are group labels, values are person ids.
type SetPartitionRequest struct {
	Groups map[string][]string `json:"groups" binding:"required"`
}

// PartitionResponse is the partition board: current group membership plus
// anyone eligible but not yet assigned.
type PartitionResponse struct {
	UnitID     string                    `json:"unit_id"`
	Groups     map[string][]UserResponse `json:"groups"`
	Unassigned []UserResponse            `json:"unassigned,omitempty"`
	Complete   bool                      `json:"complete"`
}
