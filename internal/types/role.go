package types

// Role is the privilege level carried in an auth token
type Role string

const (
	RoleOwner Role = "owner"
	RoleAdmin Role = "admin"
)
