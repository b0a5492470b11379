package enums

import "fmt"

// PointEventType describes the audit-trail entry kinds on point_transactions.
type PointEventType string

const (
	PointEventEarn   PointEventType = "earn"
	PointEventRedeem PointEventType = "redeem"
	PointEventAdjust PointEventType = "adjust"
)

var validPointEventTypes = []PointEventType{
	PointEventEarn,
	PointEventRedeem,
	PointEventAdjust,
}

// String implements fmt.Stringer.
func (p PointEventType) String() string {
	return string(p)
}

// IsValid reports whether the value matches the canonical point event type enum.
func (p PointEventType) IsValid() bool {
	for _, candidate := range validPointEventTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePointEventType converts the raw string to PointEventType.
func ParsePointEventType(value string) (PointEventType, error) {
	for _, candidate := range validPointEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid point event type %q", value)
}
