package models

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is wrapped by every TransitionError.
var ErrInvalidTransition = errors.New("invalid status transition")

// TransitionError reports a status change the lifecycle does not allow.
type TransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s status cannot change from %s to %s", e.Entity, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// DonationStatus is the lifecycle state of a donation.
type DonationStatus string

const (
	DonationPending   DonationStatus = "pending"
	DonationCompleted DonationStatus = "completed"
	DonationFailed    DonationStatus = "failed"
	DonationCancelled DonationStatus = "cancelled"
)

var donationTransitions = map[DonationStatus][]DonationStatus{
	DonationPending: {DonationCompleted, DonationFailed, DonationCancelled},
	DonationFailed:  {DonationPending, DonationCancelled},
	// completed and cancelled are terminal
	DonationCompleted: nil,
	DonationCancelled: nil,
}

// Valid reports whether s is a known donation status.
func (s DonationStatus) Valid() bool {
	_, ok := donationTransitions[s]
	return ok
}

// CanTransition returns nil when a donation may move from s to next.
// Re-applying the current status is allowed.
func (s DonationStatus) CanTransition(next DonationStatus) error {
	if s == next {
		return nil
	}
	for _, allowed := range donationTransitions[s] {
		if allowed == next {
			return nil
		}
	}
	return &TransitionError{Entity: "donation", From: string(s), To: string(next)}
}

// RequirementStatus is the lifecycle state of a requirement.
type RequirementStatus string

const (
	RequirementActive    RequirementStatus = "active"
	RequirementFulfilled RequirementStatus = "fulfilled"
	RequirementCancelled RequirementStatus = "cancelled"
)

var requirementTransitions = map[RequirementStatus][]RequirementStatus{
	RequirementActive:    {RequirementFulfilled, RequirementCancelled},
	RequirementFulfilled: {RequirementActive},
	RequirementCancelled: {RequirementActive},
}

// Valid reports whether s is a known requirement status.
func (s RequirementStatus) Valid() bool {
	_, ok := requirementTransitions[s]
	return ok
}

// CanTransition returns nil when a requirement may move from s to next.
func (s RequirementStatus) CanTransition(next RequirementStatus) error {
	if s == next {
		return nil
	}
	for _, allowed := range requirementTransitions[s] {
		if allowed == next {
			return nil
		}
	}
	return &TransitionError{Entity: "requirement", From: string(s), To: string(next)}
}

// Priority orders active requirements on the public board.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

var priorityRank = map[Priority]int{
	PriorityUrgent: 1,
	PriorityHigh:   2,
	PriorityMedium: 3,
	PriorityLow:    4,
}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	_, ok := priorityRank[p]
	return ok
}

// Rank returns 1 for urgent through 4 for low; unknown values sort last.
func (p Priority) Rank() int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return len(priorityRank) + 1
}
