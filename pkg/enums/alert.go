package enums

import "fmt"

// AlertStatus is the lifecycle state of an alert.
type AlertStatus string

const (
	AlertStatusActive       AlertStatus = "active"
	AlertStatusAcknowledged AlertStatus = "acknowledged"
	AlertStatusResolved     AlertStatus = "resolved"
)

var validAlertStatuses = []AlertStatus{
	AlertStatusActive,
	AlertStatusAcknowledged,
	AlertStatusResolved,
}

func (s AlertStatus) String() string {
	return string(s)
}

func (s AlertStatus) IsValid() bool {
	for _, candidate := range validAlertStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (s AlertStatus) IsTerminal() bool {
	return s == AlertStatusResolved
}

// CanTransitionTo reports whether the lifecycle allows moving to next.
// Acknowledgement is optional; resolution is legal straight from active.
func (s AlertStatus) CanTransitionTo(next AlertStatus) bool {
	switch s {
	case AlertStatusActive:
		return next == AlertStatusAcknowledged || next == AlertStatusResolved
	case AlertStatusAcknowledged:
		return next == AlertStatusResolved
	default:
		return false
	}
}

func ParseAlertStatus(value string) (AlertStatus, error) {
	for _, candidate := range validAlertStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid alert status %q", value)
}

// AlertPriority weighs an alert independently of its lifecycle state.
type AlertPriority string

const (
	AlertPriorityCritical AlertPriority = "critical"
	AlertPriorityHigh     AlertPriority = "high"
	AlertPriorityMedium   AlertPriority = "medium"
	AlertPriorityLow      AlertPriority = "low"
)

var validAlertPriorities = []AlertPriority{
	AlertPriorityCritical,
	AlertPriorityHigh,
	AlertPriorityMedium,
	AlertPriorityLow,
}

func (p AlertPriority) String() string {
	return string(p)
}

func (p AlertPriority) IsValid() bool {
	for _, candidate := range validAlertPriorities {
		if candidate == p {
			return true
		}
	}
	return false
}

func ParseAlertPriority(value string) (AlertPriority, error) {
	for _, candidate := range validAlertPriorities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid alert priority %q", value)
}
