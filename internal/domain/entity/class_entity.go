package entity

import "time"

// Moderation states for a submitted class. Only an admin moves a class out
// of pending.
const (
	ClassPending  = "pending"
	ClassApproved = "approved"
	ClassDenied   = "denied"
)

// Class is a fitness class offered by an instructor.
//
// EnrolledCount is monotonically non-decreasing: settlement increments it,
// nothing in this system decrements it.
type Class struct {
	ID              string
	Name            string
	InstructorEmail string
	Status          string
	Feedback        string
	Price           float64
	Seats           int
	EnrolledCount   int
	ImageURL        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ValidClassStatus reports whether s is a known moderation state.
func ValidClassStatus(s string) bool {
	return s == ClassPending || s == ClassApproved || s == ClassDenied
}
