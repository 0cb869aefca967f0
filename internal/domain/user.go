package domain

import "time"

// Role enumerates the two access levels in the reimbursement workflow.
type Role string

const (
	RoleEmployee Role = "Employee"
	RoleManager  Role = "Manager"
)

// User is a provisioned account that can authenticate and own invoices.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}
