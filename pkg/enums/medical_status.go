package enums

import "fmt"

// MedicalStatus maps to the medical_status_enum enum in Postgres.
type MedicalStatus string

const (
	MedicalStatusPending MedicalStatus = "pending"
	MedicalStatusPassed  MedicalStatus = "passed"
	MedicalStatusFailed  MedicalStatus = "failed"
	MedicalStatusExpired MedicalStatus = "expired"
)

var validMedicalStatuses = []MedicalStatus{
	MedicalStatusPending,
	MedicalStatusPassed,
	MedicalStatusFailed,
	MedicalStatusExpired,
}

// String implements fmt.Stringer.
func (s MedicalStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known MedicalStatus.
func (s MedicalStatus) IsValid() bool {
	for _, candidate := range validMedicalStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseMedicalStatus converts raw input into a MedicalStatus.
func ParseMedicalStatus(value string) (MedicalStatus, error) {
	for _, candidate := range validMedicalStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid medical status %q", value)
}
