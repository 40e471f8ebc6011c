package models

import (
	"time"

	"github.com/google/uuid"
)

// Department is a government department backed by a staff-flagged user. The
// IsActive toggle gates report assignment and content publishing.
type Department struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	IsActive  bool      `json:"isActive" db:"is_active"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type ProjectUpdateStatus string

const (
	UpdatePending    ProjectUpdateStatus = "pending"
	UpdateInProgress ProjectUpdateStatus = "in_progress"
	UpdateCompleted  ProjectUpdateStatus = "completed"
)

type ProjectUpdate struct {
	ID           uuid.UUID           `json:"id" db:"id"`
	Title        string              `json:"title" db:"title"`
	Description  string              `json:"description" db:"description"`
	AuthorID     uuid.UUID           `json:"authorId" db:"author_id"`
	DepartmentID uuid.UUID           `json:"departmentId" db:"department_id"`
	Milestone    *string             `json:"milestone,omitempty" db:"milestone"`
	Status       ProjectUpdateStatus `json:"status" db:"status"`
	MediaURL     *string             `json:"mediaUrl,omitempty" db:"media_url"`
	CreatedAt    time.Time           `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time           `json:"updatedAt" db:"updated_at"`
}

type Poll struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	Title        string       `json:"title" db:"title"`
	Question     string       `json:"question" db:"question"`
	CreatedBy    uuid.UUID    `json:"createdBy" db:"created_by"`
	DepartmentID uuid.UUID    `json:"departmentId" db:"department_id"`
	MediaURL     *string      `json:"mediaUrl,omitempty" db:"media_url"`
	CreatedAt    time.Time    `json:"createdAt" db:"created_at"`
	Options      []PollOption `json:"options"`
}

type PollOption struct {
	ID     uuid.UUID `json:"id" db:"id"`
	PollID uuid.UUID `json:"pollId" db:"poll_id"`
	Text   string    `json:"text" db:"option_text"`
	Votes  int       `json:"votes" db:"votes"`
}

// GovernmentNotification is a department broadcast, distinct from the
// per-user Notification records the fanout produces.
type GovernmentNotification struct {
	ID             uuid.UUID `json:"id" db:"id"`
	DepartmentID   uuid.UUID `json:"departmentId" db:"department_id"`
	TargetAudience *string   `json:"targetAudience,omitempty" db:"target_audience"`
	Message        string    `json:"message" db:"message"`
	IsBroadcast    bool      `json:"isBroadcast" db:"is_broadcast"`
	MediaURL       *string   `json:"mediaUrl,omitempty" db:"media_url"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

type DepartmentPostCategory string

const (
	DeptPostHealth         DepartmentPostCategory = "health"
	DeptPostEducation      DepartmentPostCategory = "education"
	DeptPostInfrastructure DepartmentPostCategory = "infrastructure"
	DeptPostEconomy        DepartmentPostCategory = "economy"
	DeptPostGeneral        DepartmentPostCategory = "general"
)

type DepartmentPost struct {
	ID           uuid.UUID              `json:"id" db:"id"`
	Title        string                 `json:"title" db:"title"`
	Content      string                 `json:"content" db:"content"`
	AuthorID     uuid.UUID              `json:"authorId" db:"author_id"`
	DepartmentID uuid.UUID              `json:"departmentId" db:"department_id"`
	Category     DepartmentPostCategory `json:"category" db:"category"`
	MediaURL     *string                `json:"mediaUrl,omitempty" db:"media_url"`
	CreatedAt    time.Time              `json:"createdAt" db:"created_at"`
}

type Feedback struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	UserID          uuid.UUID  `json:"userId" db:"user_id"`
	DepartmentID    uuid.UUID  `json:"departmentId" db:"department_id"`
	ProjectUpdateID *uuid.UUID `json:"projectUpdateId,omitempty" db:"project_update_id"`
	Content         string     `json:"content" db:"content"`
	MediaURL        *string    `json:"mediaUrl,omitempty" db:"media_url"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
}

// DepartmentActivity is an analytics projection row: reports assigned per
// department.
type DepartmentActivity struct {
	DepartmentID uuid.UUID `json:"departmentId" db:"department_id"`
	Name         string    `json:"name" db:"name"`
	ReportCount  int       `json:"reportCount" db:"report_count"`
}
