package workflow

import (
	"context"
	"strings"

	"github.com/roms-agency/roms-backend/pkg/db/models"
	"github.com/roms-agency/roms-backend/pkg/enums"
)

// Violation names the unmet precondition that blocks a transition. Items, when
// present, lists the individual unmet requirements.
type Violation struct {
	Reason string
	Items  []string
}

type guardFunc func(ctx context.Context, s *service, candidate models.Candidate) (*Violation, error)

// guards holds the precondition for each guarded target status. Targets absent
// from the map are gated by the transition table alone.
var guards = map[enums.CandidateStatus]guardFunc{
	enums.CandidateStatusUnderReview:        guardRequiredDocumentsUploaded,
	enums.CandidateStatusDocumentsApproved:  guardDocumentsSufficient,
	enums.CandidateStatusInterviewScheduled: guardInterviewDateSet,
	enums.CandidateStatusMedicalPending:     guardInterviewWaived,
	enums.CandidateStatusOfferIssued:        guardMedicalPassed,
	enums.CandidateStatusVisaProcessing:     guardDownpaymentComplete,
	enums.CandidateStatusPlaced:             guardFullPaymentComplete,
}

func guardRequiredDocumentsUploaded(ctx context.Context, s *service, candidate models.Candidate) (*Violation, error) {
	eval, err := s.evaluator.Evaluate(ctx, candidate)
	if err != nil {
		return nil, err
	}
	if len(eval.MissingDocuments) > 0 {
		return &Violation{
			Reason: "required documents not uploaded: " + strings.Join(eval.MissingDocuments, ", "),
			Items:  eval.MissingDocuments,
		}, nil
	}
	return nil, nil
}

func guardDocumentsSufficient(ctx context.Context, s *service, candidate models.Candidate) (*Violation, error) {
	eval, err := s.evaluator.Evaluate(ctx, candidate)
	if err != nil {
		return nil, err
	}
	if !eval.Sufficient {
		return &Violation{
			Reason: "documents are insufficient: " + strings.Join(eval.Missing, ", "),
			Items:  eval.Missing,
		}, nil
	}
	return nil, nil
}

func guardInterviewDateSet(_ context.Context, _ *service, candidate models.Candidate) (*Violation, error) {
	if candidate.InterviewDate == nil {
		return &Violation{Reason: "an interview date must be set before the interview is scheduled"}, nil
	}
	return nil, nil
}

// guardInterviewWaived gates the shortcut from documents_approved straight to
// medical_pending: it is only open when the active assignment's job order does
// not require an interview. The regular interview_passed edge is unguarded.
func guardInterviewWaived(ctx context.Context, s *service, candidate models.Candidate) (*Violation, error) {
	if candidate.CurrentStatus != enums.CandidateStatusDocumentsApproved {
		return nil, nil
	}
	assignment, err := s.assignments.ActiveForCandidate(ctx, candidate.ID)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return &Violation{Reason: "an active assignment is required to skip the interview stage"}, nil
	}
	jobOrder, err := s.jobOrders.Get(ctx, assignment.JobOrderID)
	if err != nil {
		return nil, err
	}
	if jobOrder.RequiresInterview {
		return &Violation{Reason: "the job order requires an interview before the medical stage"}, nil
	}
	return nil, nil
}

func guardMedicalPassed(_ context.Context, _ *service, candidate models.Candidate) (*Violation, error) {
	if candidate.MedicalStatus == nil || *candidate.MedicalStatus != enums.MedicalStatusPassed {
		return &Violation{Reason: "medical status must be passed before an offer is issued"}, nil
	}
	return nil, nil
}

func guardDownpaymentComplete(ctx context.Context, s *service, candidate models.Candidate) (*Violation, error) {
	assignment, err := s.assignments.ActiveForCandidate(ctx, candidate.ID)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return &Violation{Reason: "an active assignment is required before visa processing"}, nil
	}
	complete, err := s.payments.IsDownpaymentComplete(ctx, assignment.ID)
	if err != nil {
		return nil, err
	}
	if !complete {
		return &Violation{Reason: "the commission downpayment must be complete before visa processing"}, nil
	}
	return nil, nil
}

func guardFullPaymentComplete(ctx context.Context, s *service, candidate models.Candidate) (*Violation, error) {
	assignment, err := s.assignments.ActiveForCandidate(ctx, candidate.ID)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return &Violation{Reason: "an active assignment is required before placement"}, nil
	}
	complete, err := s.payments.IsFullPaymentComplete(ctx, assignment.ID)
	if err != nil {
		return nil, err
	}
	if !complete {
		return &Violation{Reason: "the commission must be fully paid before placement"}, nil
	}
	return nil, nil
}

// applySideEffects mutates candidate fields that track a status change, ahead
// of the persisted update.
func applySideEffects(candidate *models.Candidate, target enums.CandidateStatus) {
	switch target {
	case enums.CandidateStatusMedicalPending:
		status := enums.MedicalStatusPending
		candidate.MedicalStatus = &status
	case enums.CandidateStatusMedicalPassed:
		status := enums.MedicalStatusPassed
		candidate.MedicalStatus = &status
	}
}
