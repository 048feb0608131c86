package enums

import "fmt"

// TaskStatus tracks the lifecycle of a maintenance task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

var validTaskStatuses = []TaskStatus{
	TaskStatusPending,
	TaskStatusInProgress,
	TaskStatusCompleted,
	TaskStatusCancelled,
}

func (s TaskStatus) String() string {
	return string(s)
}

func (s TaskStatus) IsValid() bool {
	for _, candidate := range validTaskStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsOpen reports whether the task still counts toward overdue maintenance.
func (s TaskStatus) IsOpen() bool {
	return s == TaskStatusPending || s == TaskStatusInProgress
}

func ParseTaskStatus(value string) (TaskStatus, error) {
	for _, candidate := range validTaskStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid task status %q", value)
}

// TaskPriority orders maintenance work.
type TaskPriority string

const (
	TaskPriorityCritical TaskPriority = "critical"
	TaskPriorityHigh     TaskPriority = "high"
	TaskPriorityMedium   TaskPriority = "medium"
	TaskPriorityLow      TaskPriority = "low"
)

var validTaskPriorities = []TaskPriority{
	TaskPriorityCritical,
	TaskPriorityHigh,
	TaskPriorityMedium,
	TaskPriorityLow,
}

func (p TaskPriority) String() string {
	return string(p)
}

func (p TaskPriority) IsValid() bool {
	for _, candidate := range validTaskPriorities {
		if candidate == p {
			return true
		}
	}
	return false
}

func ParseTaskPriority(value string) (TaskPriority, error) {
	for _, candidate := range validTaskPriorities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid task priority %q", value)
}
