package models

import (
	"time"

	"github.com/google/uuid"
)

// ReportStatus is the lifecycle state of a citizen report.
// pending -> under_review -> {resolved, rejected}; resolved and rejected are
// terminal.
type ReportStatus string

const (
	ReportPending     ReportStatus = "pending"
	ReportUnderReview ReportStatus = "under_review"
	ReportResolved    ReportStatus = "resolved"
	ReportRejected    ReportStatus = "rejected"
)

// IsTerminal reports whether no further transition is defined from s.
func (s ReportStatus) IsTerminal() bool {
	return s == ReportResolved || s == ReportRejected
}

type ReportPriority string

const (
	PriorityLow    ReportPriority = "low"
	PriorityMedium ReportPriority = "medium"
	PriorityHigh   ReportPriority = "high"
)

type ReportCategory string

const (
	CategoryCorruption ReportCategory = "corruption"
	CategoryService    ReportCategory = "service"
	CategoryOther      ReportCategory = "other"
)

type Report struct {
	ID                   uuid.UUID      `json:"id" db:"id"`
	UserID               uuid.UUID      `json:"userId" db:"user_id"`
	Title                string         `json:"title" db:"title"`
	Description          string         `json:"description" db:"description"`
	Status               ReportStatus   `json:"status" db:"status"`
	Priority             ReportPriority `json:"priority" db:"priority"`
	Category             ReportCategory `json:"category" db:"category"`
	AssignedDepartmentID *uuid.UUID     `json:"assignedDepartmentId,omitempty" db:"assigned_department_id"`
	CreatedAt            time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time      `json:"updatedAt" db:"updated_at"`
}

// AnonymousReport has no submitter link and no lifecycle; it is
// fire-and-forget.
type AnonymousReport struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	Category    ReportCategory `json:"category" db:"category"`
	Description string         `json:"description" db:"description"`
	SubmittedAt time.Time      `json:"submittedAt" db:"submitted_at"`
}

// ReportStatusCount is an analytics projection row.
type ReportStatusCount struct {
	Status ReportStatus `json:"status" db:"status"`
	Count  int          `json:"count" db:"count"`
}
