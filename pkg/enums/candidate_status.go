package enums

import "fmt"

// CandidateStatus maps to the candidate_status_enum enum in Postgres. It is
// the authoritative pipeline lifecycle; only the workflow service mutates it.
type CandidateStatus string

const (
	CandidateStatusApplicationSubmitted   CandidateStatus = "application_submitted"
	CandidateStatusUnderReview            CandidateStatus = "under_review"
	CandidateStatusDocumentsInsufficient  CandidateStatus = "documents_insufficient"
	CandidateStatusDocumentsApproved      CandidateStatus = "documents_approved"
	CandidateStatusInterviewScheduled     CandidateStatus = "interview_scheduled"
	CandidateStatusInterviewPassed        CandidateStatus = "interview_passed"
	CandidateStatusMedicalPending         CandidateStatus = "medical_pending"
	CandidateStatusMedicalPassed          CandidateStatus = "medical_passed"
	CandidateStatusVisaProcessing         CandidateStatus = "visa_processing"
	CandidateStatusOfferIssued            CandidateStatus = "offer_issued"
	CandidateStatusOfferAccepted          CandidateStatus = "offer_accepted"
	CandidateStatusDeploymentPending      CandidateStatus = "deployment_pending"
	CandidateStatusPlaced                 CandidateStatus = "placed"
	CandidateStatusRejected               CandidateStatus = "rejected"
	CandidateStatusWithdrawn              CandidateStatus = "withdrawn"
)

var validCandidateStatuses = []CandidateStatus{
	CandidateStatusApplicationSubmitted,
	CandidateStatusUnderReview,
	CandidateStatusDocumentsInsufficient,
	CandidateStatusDocumentsApproved,
	CandidateStatusInterviewScheduled,
	CandidateStatusInterviewPassed,
	CandidateStatusMedicalPending,
	CandidateStatusMedicalPassed,
	CandidateStatusVisaProcessing,
	CandidateStatusOfferIssued,
	CandidateStatusOfferAccepted,
	CandidateStatusDeploymentPending,
	CandidateStatusPlaced,
	CandidateStatusRejected,
	CandidateStatusWithdrawn,
}

// String implements fmt.Stringer.
func (s CandidateStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known CandidateStatus.
func (s CandidateStatus) IsValid() bool {
	for _, candidate := range validCandidateStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is permitted from s.
func (s CandidateStatus) IsTerminal() bool {
	return s == CandidateStatusPlaced || s == CandidateStatusRejected
}

// CandidateStatuses returns all known statuses in pipeline order.
func CandidateStatuses() []CandidateStatus {
	out := make([]CandidateStatus, len(validCandidateStatuses))
	copy(out, validCandidateStatuses)
	return out
}

// ParseCandidateStatus converts raw input into a CandidateStatus.
func ParseCandidateStatus(value string) (CandidateStatus, error) {
	for _, candidate := range validCandidateStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid candidate status %q", value)
}
