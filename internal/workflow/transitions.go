package workflow

import (
	"fmt"

	"github.com/roms-agency/roms-backend/pkg/enums"
)

// anyActiveStatus lists every status a candidate can still move out of.
// Rejection and withdrawal are reachable from all of these.
var anyActiveStatus = []enums.CandidateStatus{
	enums.CandidateStatusApplicationSubmitted,
	enums.CandidateStatusUnderReview,
	enums.CandidateStatusDocumentsInsufficient,
	enums.CandidateStatusDocumentsApproved,
	enums.CandidateStatusInterviewScheduled,
	enums.CandidateStatusInterviewPassed,
	enums.CandidateStatusMedicalPending,
	enums.CandidateStatusMedicalPassed,
	enums.CandidateStatusVisaProcessing,
	enums.CandidateStatusOfferIssued,
	enums.CandidateStatusOfferAccepted,
	enums.CandidateStatusDeploymentPending,
}

// allowedPredecessors maps each target status to the statuses a candidate may
// move from. application_submitted is the entry point and has no inbound
// edges; placed and rejected are terminal; withdrawn is absorbing.
var allowedPredecessors = map[enums.CandidateStatus][]enums.CandidateStatus{
	enums.CandidateStatusApplicationSubmitted: {},
	enums.CandidateStatusUnderReview: {
		enums.CandidateStatusApplicationSubmitted,
		enums.CandidateStatusDocumentsInsufficient,
	},
	enums.CandidateStatusDocumentsInsufficient: {
		enums.CandidateStatusUnderReview,
	},
	enums.CandidateStatusDocumentsApproved: {
		enums.CandidateStatusUnderReview,
		enums.CandidateStatusDocumentsInsufficient,
	},
	enums.CandidateStatusInterviewScheduled: {
		enums.CandidateStatusDocumentsApproved,
	},
	enums.CandidateStatusInterviewPassed: {
		enums.CandidateStatusInterviewScheduled,
	},
	// documents_approved is a legal predecessor only for candidates whose
	// active assignment's job order waives the interview; the guard enforces
	// that.
	enums.CandidateStatusMedicalPending: {
		enums.CandidateStatusInterviewPassed,
		enums.CandidateStatusDocumentsApproved,
	},
	enums.CandidateStatusMedicalPassed: {
		enums.CandidateStatusMedicalPending,
	},
	enums.CandidateStatusVisaProcessing: {
		enums.CandidateStatusMedicalPassed,
	},
	enums.CandidateStatusOfferIssued: {
		enums.CandidateStatusVisaProcessing,
	},
	enums.CandidateStatusOfferAccepted: {
		enums.CandidateStatusOfferIssued,
	},
	enums.CandidateStatusDeploymentPending: {
		enums.CandidateStatusOfferAccepted,
	},
	enums.CandidateStatusPlaced: {
		enums.CandidateStatusDeploymentPending,
	},
	enums.CandidateStatusRejected:  anyActiveStatus,
	enums.CandidateStatusWithdrawn: anyActiveStatus,
}

func init() {
	for _, status := range enums.CandidateStatuses() {
		predecessors, ok := allowedPredecessors[status]
		if !ok {
			panic(fmt.Sprintf("workflow: status %s missing from transition table", status))
		}
		for _, from := range predecessors {
			if !from.IsValid() {
				panic(fmt.Sprintf("workflow: unknown predecessor %s for %s", from, status))
			}
			if from.IsTerminal() || from == enums.CandidateStatusWithdrawn {
				panic(fmt.Sprintf("workflow: %s must not have outgoing edge to %s", from, status))
			}
		}
	}
	for status := range allowedPredecessors {
		if !status.IsValid() {
			panic(fmt.Sprintf("workflow: unknown status %s in transition table", status))
		}
	}
}

// edgeAllowed reports whether the flow permits moving from one status to the
// target.
func edgeAllowed(from, target enums.CandidateStatus) bool {
	for _, allowed := range allowedPredecessors[target] {
		if allowed == from {
			return true
		}
	}
	return false
}
