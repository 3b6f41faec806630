package model

import "errors"

// ErrInvalidTransition is returned when a review status change is not allowed.
var ErrInvalidTransition = errors.New("invalid status transition")

// ReviewStatus is the lifecycle shared by payments, testimonials and upgrade requests.
type ReviewStatus string

const (
	StatusPending  ReviewStatus = "pending"
	StatusApproved ReviewStatus = "approved"
	StatusRejected ReviewStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s ReviewStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Final reports whether s can no longer change.
func (s ReviewStatus) Final() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransition reports whether a record in status s may move to next.
// Only pending records are reviewable.
func (s ReviewStatus) CanTransition(next ReviewStatus) bool {
	return s == StatusPending && next.Final()
}

// Transition validates the move from s to next.
func (s ReviewStatus) Transition(next ReviewStatus) error {
	if !s.CanTransition(next) {
		return ErrInvalidTransition
	}
	return nil
}
