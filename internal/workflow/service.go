package workflow

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/roms-agency/roms-backend/internal/documents"
	"github.com/roms-agency/roms-backend/pkg/db/models"
	"github.com/roms-agency/roms-backend/pkg/enums"
	pkgerrors "github.com/roms-agency/roms-backend/pkg/errors"
)

// Service drives the candidate pipeline. It is the only component that writes
// Candidate.CurrentStatus.
type Service interface {
	Transition(ctx context.Context, candidateID int64, target enums.CandidateStatus) (*models.Candidate, error)
	CanTransition(ctx context.Context, candidateID int64, target enums.CandidateStatus) (bool, error)
	BlockReason(ctx context.Context, candidateID int64, target enums.CandidateStatus) (string, error)
	ReviewDocuments(ctx context.Context, candidateID int64) (*models.Candidate, error)
	AcceptOffer(ctx context.Context, candidateID int64) (*models.Candidate, error)
}

type candidateStore interface {
	FindByID(ctx context.Context, id int64) (*models.Candidate, error)
	FindByIDLockedWithTx(tx *gorm.DB, id int64) (*models.Candidate, error)
	UpdateWithTx(tx *gorm.DB, candidate *models.Candidate) error
}

type documentEvaluator interface {
	Evaluate(ctx context.Context, candidate models.Candidate) (documents.Evaluation, error)
}

type assignmentLookup interface {
	ActiveForCandidate(ctx context.Context, candidateID int64) (*models.Assignment, error)
}

type jobOrderLookup interface {
	Get(ctx context.Context, id int64) (*models.JobOrder, error)
}

type paymentChecker interface {
	IsDownpaymentComplete(ctx context.Context, assignmentID int64) (bool, error)
	IsFullPaymentComplete(ctx context.Context, assignmentID int64) (bool, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	candidates  candidateStore
	tx          txRunner
	evaluator   documentEvaluator
	assignments assignmentLookup
	jobOrders   jobOrderLookup
	payments    paymentChecker
}

// NewService builds the workflow service.
func NewService(candidates candidateStore, tx txRunner, evaluator documentEvaluator, assignments assignmentLookup, jobOrders jobOrderLookup, payments paymentChecker) (Service, error) {
	if candidates == nil {
		return nil, fmt.Errorf("candidate repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if evaluator == nil {
		return nil, fmt.Errorf("document evaluator required")
	}
	if assignments == nil {
		return nil, fmt.Errorf("assignment lookup required")
	}
	if jobOrders == nil {
		return nil, fmt.Errorf("job order lookup required")
	}
	if payments == nil {
		return nil, fmt.Errorf("payment checker required")
	}
	return &service{
		candidates:  candidates,
		tx:          tx,
		evaluator:   evaluator,
		assignments: assignments,
		jobOrders:   jobOrders,
		payments:    payments,
	}, nil
}

// Transition moves the candidate to the target status. The candidate row is
// locked for the duration so concurrent transitions serialize; the edge check,
// guard, and update see one consistent snapshot.
func (s *service) Transition(ctx context.Context, candidateID int64, target enums.CandidateStatus) (*models.Candidate, error) {
	if !target.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid candidate status %q", target)
	}

	var updated *models.Candidate
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		candidate, err := s.candidates.FindByIDLockedWithTx(tx, candidateID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "candidate not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock candidate")
		}

		violation, err := s.evaluate(ctx, *candidate, target)
		if err != nil {
			return err
		}
		if violation != nil {
			return violationError(violation)
		}

		candidate.CurrentStatus = target
		applySideEffects(candidate, target)
		if err := s.candidates.UpdateWithTx(tx, candidate); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update candidate status")
		}
		updated = candidate
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CanTransition reports whether Transition would succeed right now. It runs
// the identical edge and guard evaluation without mutating anything.
func (s *service) CanTransition(ctx context.Context, candidateID int64, target enums.CandidateStatus) (bool, error) {
	violation, err := s.inspect(ctx, candidateID, target)
	if err != nil {
		return false, err
	}
	return violation == nil, nil
}

// BlockReason returns the reason Transition would fail, or the empty string
// when the move is allowed.
func (s *service) BlockReason(ctx context.Context, candidateID int64, target enums.CandidateStatus) (string, error) {
	violation, err := s.inspect(ctx, candidateID, target)
	if err != nil {
		return "", err
	}
	if violation == nil {
		return "", nil
	}
	return violation.Reason, nil
}

// ReviewDocuments concludes the review step: the candidate moves to
// documents_approved or documents_insufficient per the evaluator verdict.
func (s *service) ReviewDocuments(ctx context.Context, candidateID int64) (*models.Candidate, error) {
	var updated *models.Candidate
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		candidate, err := s.candidates.FindByIDLockedWithTx(tx, candidateID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "candidate not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock candidate")
		}
		if candidate.CurrentStatus != enums.CandidateStatusUnderReview {
			return pkgerrors.Newf(pkgerrors.CodeWorkflow,
				"document review is only available while the candidate is %s; candidate is %s",
				enums.CandidateStatusUnderReview, candidate.CurrentStatus)
		}

		eval, err := s.evaluator.Evaluate(ctx, *candidate)
		if err != nil {
			return err
		}
		if eval.Sufficient {
			candidate.CurrentStatus = enums.CandidateStatusDocumentsApproved
		} else {
			candidate.CurrentStatus = enums.CandidateStatusDocumentsInsufficient
		}
		if err := s.candidates.UpdateWithTx(tx, candidate); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update candidate status")
		}
		updated = candidate
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AcceptOffer records the candidate's acceptance of an issued offer.
func (s *service) AcceptOffer(ctx context.Context, candidateID int64) (*models.Candidate, error) {
	return s.Transition(ctx, candidateID, enums.CandidateStatusOfferAccepted)
}

// inspect runs the edge and guard evaluation against the current candidate
// row without taking a lock or mutating state.
func (s *service) inspect(ctx context.Context, candidateID int64, target enums.CandidateStatus) (*Violation, error) {
	if !target.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid candidate status %q", target)
	}
	candidate, err := s.candidates.FindByID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "candidate not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup candidate")
	}
	return s.evaluate(ctx, *candidate, target)
}

func (s *service) evaluate(ctx context.Context, candidate models.Candidate, target enums.CandidateStatus) (*Violation, error) {
	from := candidate.CurrentStatus
	if from.IsTerminal() || from == enums.CandidateStatusWithdrawn {
		return &Violation{Reason: fmt.Sprintf("candidate is %s and cannot move to %s", from, target)}, nil
	}
	if !edgeAllowed(from, target) {
		return &Violation{Reason: fmt.Sprintf("candidate cannot move from %s to %s", from, target)}, nil
	}
	guard, ok := guards[target]
	if !ok {
		return nil, nil
	}
	return guard(ctx, s, candidate)
}

func violationError(violation *Violation) error {
	err := pkgerrors.New(pkgerrors.CodeWorkflow, violation.Reason)
	if len(violation.Items) > 0 {
		return err.WithDetails(map[string]any{"missing": violation.Items})
	}
	return err
}
