package shared

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SubmissionStatus is the approval state shared by sales, expenses and production logs
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "Pending"
	SubmissionApproved SubmissionStatus = "Approved"
	SubmissionRejected SubmissionStatus = "Rejected"
)

// submissionTransitions lists the allowed target states for each state.
// Approved and Rejected are terminal.
var submissionTransitions = map[SubmissionStatus][]SubmissionStatus{
	SubmissionPending:  {SubmissionApproved, SubmissionRejected},
	SubmissionApproved: {},
	SubmissionRejected: {},
}

// IsValid checks if the status is a known SubmissionStatus
func (s SubmissionStatus) IsValid() bool {
	_, ok := submissionTransitions[s]
	return ok
}

// String returns the string representation of SubmissionStatus
func (s SubmissionStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no transition leaves this state
func (s SubmissionStatus) IsTerminal() bool {
	return len(submissionTransitions[s]) == 0
}

// CanTransitionTo reports whether next is reachable from s in one step
func (s SubmissionStatus) CanTransitionTo(next SubmissionStatus) bool {
	for _, allowed := range submissionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Submission carries the approval workflow fields of a submitted entry
type Submission struct {
	Status          SubmissionStatus `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`
	ApprovedBy      *uuid.UUID       `gorm:"type:uuid" json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time       `json:"approvedAt,omitempty"`
	RejectedBy      *uuid.UUID       `gorm:"type:uuid" json:"rejectedBy,omitempty"`
	RejectedAt      *time.Time       `json:"rejectedAt,omitempty"`
	RejectionReason string           `gorm:"type:varchar(500)" json:"rejectionReason,omitempty"`
}

// NewSubmission returns a Pending submission
func NewSubmission() Submission {
	return Submission{Status: SubmissionPending}
}

// IsPending returns true while the submission awaits a decision
func (s *Submission) IsPending() bool {
	return s.Status == SubmissionPending
}

// IsApproved returns true once the submission has been approved
func (s *Submission) IsApproved() bool {
	return s.Status == SubmissionApproved
}

// MarkApproved moves the submission to Approved
func (s *Submission) MarkApproved(approvedBy uuid.UUID, at time.Time) error {
	if !s.Status.CanTransitionTo(SubmissionApproved) {
		return NewInvalidStateError(fmt.Sprintf("Cannot approve submission in %s status", s.Status))
	}
	if approvedBy == uuid.Nil {
		return NewValidationError("Approver user ID cannot be empty")
	}
	s.Status = SubmissionApproved
	s.ApprovedBy = &approvedBy
	s.ApprovedAt = &at
	return nil
}

// MarkRejected moves the submission to Rejected
func (s *Submission) MarkRejected(rejectedBy uuid.UUID, reason string, at time.Time) error {
	if !s.Status.CanTransitionTo(SubmissionRejected) {
		return NewInvalidStateError(fmt.Sprintf("Cannot reject submission in %s status", s.Status))
	}
	if rejectedBy == uuid.Nil {
		return NewValidationError("Rejector user ID cannot be empty")
	}
	s.Status = SubmissionRejected
	s.RejectedBy = &rejectedBy
	s.RejectedAt = &at
	s.RejectionReason = reason
	return nil
}
