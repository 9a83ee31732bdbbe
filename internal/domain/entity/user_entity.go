package entity

import (
	"time"
)

// Roles assignable to a user. Every account starts as a student; only an
// admin can promote.
const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

// User is the aggregate root for the identity domain.
//
// Booked and Enrolled are sets of class ids (order irrelevant, no
// duplicates). After a settled payment a class id never sits in both sets
// for the same user.
type User struct {
	ID        string
	Email     string
	Name      string
	Role      string
	Banned    bool
	Booked    []string
	Enrolled  []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidRole reports whether r is one of the assignable roles.
func ValidRole(r string) bool {
	return r == RoleStudent || r == RoleInstructor || r == RoleAdmin
}
