package enums

import "fmt"

// QuotationStatus describes the allowed values for the `status` column on quotations.
type QuotationStatus string

const (
	QuotationStatusPendingApproval QuotationStatus = "pending_customer_approval"
	QuotationStatusApproved        QuotationStatus = "approved"
	QuotationStatusRejected        QuotationStatus = "rejected"
)

var validQuotationStatuses = []QuotationStatus{
	QuotationStatusPendingApproval,
	QuotationStatusApproved,
	QuotationStatusRejected,
}

// String implements fmt.Stringer.
func (q QuotationStatus) String() string {
	return string(q)
}

// IsValid reports whether the value matches the canonical quotation status enum.
func (q QuotationStatus) IsValid() bool {
	for _, candidate := range validQuotationStatuses {
		if candidate == q {
			return true
		}
	}
	return false
}

// ParseQuotationStatus converts the raw string to QuotationStatus.
func ParseQuotationStatus(value string) (QuotationStatus, error) {
	for _, candidate := range validQuotationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid quotation status %q", value)
}
