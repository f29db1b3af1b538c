package enums

import "fmt"

// JobOrderStatus tracks the lifecycle of an employer job order.
type JobOrderStatus string

const (
	JobOrderStatusPendingApproval JobOrderStatus = "pending_approval"
	JobOrderStatusOpen            JobOrderStatus = "open"
	JobOrderStatusInProgress      JobOrderStatus = "in_progress"
	JobOrderStatusFilled          JobOrderStatus = "filled"
	JobOrderStatusClosed          JobOrderStatus = "closed"
	JobOrderStatusCancelled       JobOrderStatus = "cancelled"
	JobOrderStatusOnHold          JobOrderStatus = "on_hold"
)

var validJobOrderStatuses = []JobOrderStatus{
	JobOrderStatusPendingApproval,
	JobOrderStatusOpen,
	JobOrderStatusInProgress,
	JobOrderStatusFilled,
	JobOrderStatusClosed,
	JobOrderStatusCancelled,
	JobOrderStatusOnHold,
}

// String implements fmt.Stringer.
func (s JobOrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known JobOrderStatus.
func (s JobOrderStatus) IsValid() bool {
	for _, candidate := range validJobOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// AcceptsAssignments reports whether candidates may be assigned to the order.
func (s JobOrderStatus) AcceptsAssignments() bool {
	return s == JobOrderStatusOpen
}

// ParseJobOrderStatus converts raw input into a JobOrderStatus.
func ParseJobOrderStatus(value string) (JobOrderStatus, error) {
	for _, candidate := range validJobOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid job order status %q", value)
}
