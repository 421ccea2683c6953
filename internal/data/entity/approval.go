package entity

// ApprovalStatus gates the public visibility of user-submitted listings.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusDeclined ApprovalStatus = "declined"
)

// InitialStatus returns the status a new listing starts in for the given
// creator role. Anonymous creators pass an empty role.
func InitialStatus(role UserRole) ApprovalStatus {
	if role == RoleAdmin {
		return StatusApproved
	}
	return StatusPending
}

// IsDecision reports whether s is a status an admin may set.
func (s ApprovalStatus) IsDecision() bool {
	return s == StatusApproved || s == StatusDeclined
}
