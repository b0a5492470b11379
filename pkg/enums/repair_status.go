package enums

import "fmt"

// RepairStatus describes the allowed values for the `status` column on repair_jobs.
type RepairStatus string

const (
	RepairStatusCreated    RepairStatus = "created"
	RepairStatusInProgress RepairStatus = "in_progress"
	RepairStatusCompleted  RepairStatus = "completed"
	RepairStatusDelivered  RepairStatus = "delivered"
	RepairStatusCancelled  RepairStatus = "cancelled"
)

var validRepairStatuses = []RepairStatus{
	RepairStatusCreated,
	RepairStatusInProgress,
	RepairStatusCompleted,
	RepairStatusDelivered,
	RepairStatusCancelled,
}

// String implements fmt.Stringer.
func (r RepairStatus) String() string {
	return string(r)
}

// IsValid reports whether the value matches the canonical repair status enum.
func (r RepairStatus) IsValid() bool {
	for _, candidate := range validRepairStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is allowed from the status.
func (r RepairStatus) IsTerminal() bool {
	return r == RepairStatusDelivered || r == RepairStatusCancelled
}

// ParseRepairStatus converts the raw string to RepairStatus.
func ParseRepairStatus(value string) (RepairStatus, error) {
	for _, candidate := range validRepairStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid repair status %q", value)
}
