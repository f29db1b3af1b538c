package enums

import "fmt"

// AgreementStatus tracks the lifecycle of a commission agreement.
type AgreementStatus string

const (
	AgreementStatusActive    AgreementStatus = "active"
	AgreementStatusCompleted AgreementStatus = "completed"
	AgreementStatusCancelled AgreementStatus = "cancelled"
)

var validAgreementStatuses = []AgreementStatus{
	AgreementStatusActive,
	AgreementStatusCompleted,
	AgreementStatusCancelled,
}

// String implements fmt.Stringer.
func (s AgreementStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known AgreementStatus.
func (s AgreementStatus) IsValid() bool {
	for _, candidate := range validAgreementStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseAgreementStatus converts raw input into an AgreementStatus.
func ParseAgreementStatus(value string) (AgreementStatus, error) {
	for _, candidate := range validAgreementStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid agreement status %q", value)
}
