package model

import "time"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Rank maps priorities to sortable weights, high first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	default:
		return 1
	}
}

type Task struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	DueDate     *time.Time
	Priority    Priority
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const (
	StatusAll       = "all"
	StatusActive    = "active"
	StatusCompleted = "completed"

	SortDefault  = "default"
	SortPriority = "priority"
	SortDueDate  = "due_date"
	SortCreated  = "created"
)

// TaskFilter is the (status, search, sort) triple parsed from the request.
type TaskFilter struct {
	Status string
	Search string
	Sort   string
}

// Normalize replaces unknown status and sort values with the defaults.
// Unrecognized input never errors, it just falls back.
func (f TaskFilter) Normalize() TaskFilter {
	switch f.Status {
	case StatusActive, StatusCompleted:
	default:
		f.Status = StatusAll
	}
	switch f.Sort {
	case SortPriority, SortDueDate, SortCreated:
	default:
		f.Sort = SortDefault
	}
	return f
}

// CompletedFilter translates the status filter into the tri-state the
// repository binds as a query parameter: nil means no filter at all.
func (f TaskFilter) CompletedFilter() *bool {
	switch f.Status {
	case StatusActive:
		v := false
		return &v
	case StatusCompleted:
		v := true
		return &v
	}
	return nil
}

// AdminFilter scopes the administrator grid across all owners.
type AdminFilter struct {
	Priority  Priority // empty means any
	Completed *bool
	CreatedOn *time.Time // calendar day the task was created
	DueOn     *time.Time
	Search    string // matches title, description or owner username
}

// TaskWithOwner joins a task with its owner's username for the admin grid.
type TaskWithOwner struct {
	Task
	OwnerName string
}

// TaskPage is one page of list results.
type TaskPage struct {
	Tasks []Task
	Total int
	Page  int
	Pages int
}
