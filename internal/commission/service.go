package commission

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/roms-agency/roms-backend/pkg/db/models"
	"github.com/roms-agency/roms-backend/pkg/enums"
	pkgerrors "github.com/roms-agency/roms-backend/pkg/errors"
)

const defaultCurrency = "KES"

// Service exposes commission agreements and the append-only payment ledger.
type Service interface {
	CreateAgreement(ctx context.Context, input CreateAgreementInput) (*models.CommissionAgreement, error)
	Sign(ctx context.Context, agreementID uuid.UUID, signedDocumentURL *string) (*models.CommissionAgreement, error)
	Cancel(ctx context.Context, agreementID uuid.UUID, reason string) (*models.CommissionAgreement, error)
	UpdateAmounts(ctx context.Context, agreementID uuid.UUID, total, downpayment decimal.Decimal) (*models.CommissionAgreement, error)
	RecordDownpayment(ctx context.Context, input PaymentInput) (*models.Payment, error)
	RecordInstallment(ctx context.Context, input PaymentInput) (*models.Payment, error)
	ReversePayment(ctx context.Context, paymentID uuid.UUID, reason string, recordedBy *int64) (*models.Payment, error)
	Statement(ctx context.Context, candidateID int64, agreementID uuid.UUID) (*Statement, error)
	IsDownpaymentComplete(ctx context.Context, assignmentID int64) (bool, error)
	IsFullPaymentComplete(ctx context.Context, assignmentID int64) (bool, error)
}

// CreateAgreementInput holds the fields for a new commission agreement.
type CreateAgreementInput struct {
	CandidateID               int64
	AssignmentID              int64
	TotalCommissionAmount     decimal.Decimal
	RequiredDownpaymentAmount decimal.Decimal
	Currency                  string
	Notes                     *string
	CreatedBy                 *int64
}

// PaymentInput holds the fields for a new ledger entry.
type PaymentInput struct {
	AgreementID   uuid.UUID
	Amount        decimal.Decimal
	PaymentMethod *string
	ExternalRef   *string
	Description   *string
	RecordedBy    *int64
	PaymentDate   time.Time
}

// Statement is the read-only financial summary of one agreement.
type Statement struct {
	Agreement           models.CommissionAgreement
	TotalPaid           decimal.Decimal
	OutstandingBalance  decimal.Decimal
	DownpaymentPaid     decimal.Decimal
	DownpaymentComplete bool
	FullyPaid           bool
	Payments            []models.Payment
}

type service struct {
	repo        Repository
	tx          txRunner
	candidates  candidateReader
	assignments assignmentReader
	now         func() time.Time
}

// NewService builds a commission service.
func NewService(repo Repository, tx txRunner, candidates candidateReader, assignments assignmentReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("commission repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if candidates == nil {
		return nil, fmt.Errorf("candidate repository required")
	}
	if assignments == nil {
		return nil, fmt.Errorf("assignment repository required")
	}
	return &service{
		repo:        repo,
		tx:          tx,
		candidates:  candidates,
		assignments: assignments,
		now:         time.Now,
	}, nil
}

func (s *service) CreateAgreement(ctx context.Context, input CreateAgreementInput) (*models.CommissionAgreement, error) {
	if !input.TotalCommissionAmount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "total commission amount must be positive")
	}
	if !input.RequiredDownpaymentAmount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "required downpayment amount must be positive")
	}
	if input.RequiredDownpaymentAmount.GreaterThan(input.TotalCommissionAmount) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "required downpayment cannot exceed total commission")
	}

	if _, err := s.candidates.FindByID(ctx, input.CandidateID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "candidate not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup candidate")
	}
	assignment, err := s.assignments.FindByID(ctx, input.AssignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "assignment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup assignment")
	}
	if assignment.CandidateID != input.CandidateID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "assignment does not belong to candidate")
	}
	if !assignment.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "assignment is not active")
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	var created *models.CommissionAgreement
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.ActiveAgreementForAssignment(ctx, input.AssignmentID); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "assignment already has an active agreement")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check active agreement")
		}

		agreement := &models.CommissionAgreement{
			CandidateID:               input.CandidateID,
			AssignmentID:              input.AssignmentID,
			TotalCommissionAmount:     input.TotalCommissionAmount,
			RequiredDownpaymentAmount: input.RequiredDownpaymentAmount,
			Currency:                  currency,
			Status:                    enums.AgreementStatusActive,
			Notes:                     input.Notes,
			CreatedBy:                 input.CreatedBy,
		}
		if _, err := repo.CreateAgreement(ctx, agreement); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create agreement")
		}
		created = agreement
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) Sign(ctx context.Context, agreementID uuid.UUID, signedDocumentURL *string) (*models.CommissionAgreement, error) {
	var signed *models.CommissionAgreement
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		agreement, err := s.lockAgreement(ctx, repo, agreementID)
		if err != nil {
			return err
		}
		if agreement.Signed {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "agreement is already signed")
		}
		if agreement.Status != enums.AgreementStatusActive {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict, "agreement is %s and cannot be signed", agreement.Status)
		}

		now := s.now()
		agreement.Signed = true
		agreement.SignedAt = &now
		agreement.SignedDocumentURL = signedDocumentURL
		if err := repo.UpdateAgreement(ctx, agreement); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign agreement")
		}
		signed = agreement
		return nil
	})
	if err != nil {
		return nil, err
	}
	return signed, nil
}

func (s *service) Cancel(ctx context.Context, agreementID uuid.UUID, reason string) (*models.CommissionAgreement, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cancellation reason is required")
	}

	var cancelled *models.CommissionAgreement
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		agreement, err := s.lockAgreement(ctx, repo, agreementID)
		if err != nil {
			return err
		}
		if agreement.Status == enums.AgreementStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "agreement is already cancelled")
		}

		trimmed := strings.TrimSpace(reason)
		agreement.Status = enums.AgreementStatusCancelled
		agreement.CancellationReason = &trimmed
		if err := repo.UpdateAgreement(ctx, agreement); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel agreement")
		}
		cancelled = agreement
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

func (s *service) UpdateAmounts(ctx context.Context, agreementID uuid.UUID, total, downpayment decimal.Decimal) (*models.CommissionAgreement, error) {
	if !total.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "total commission amount must be positive")
	}
	if !downpayment.IsPositive() || downpayment.GreaterThan(total) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "required downpayment must be positive and not exceed the total")
	}

	var updated *models.CommissionAgreement
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		agreement, err := s.lockAgreement(ctx, repo, agreementID)
		if err != nil {
			return err
		}
		if agreement.Signed {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "agreement amounts are immutable once signed")
		}
		if agreement.Status != enums.AgreementStatusActive {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict, "agreement is %s and cannot be amended", agreement.Status)
		}

		payments, err := repo.PaymentsForAgreement(ctx, agreementID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ledger")
		}
		totals := ledgerTotals(payments)
		if total.LessThan(totals.totalPaid) {
			return pkgerrors.Newf(pkgerrors.CodeValidation,
				"total commission cannot be below the %s already paid", totals.totalPaid)
		}

		agreement.TotalCommissionAmount = total
		agreement.RequiredDownpaymentAmount = downpayment
		if err := repo.UpdateAgreement(ctx, agreement); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update agreement amounts")
		}
		updated = agreement
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) RecordDownpayment(ctx context.Context, input PaymentInput) (*models.Payment, error) {
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment amount must be positive")
	}

	var entry *models.Payment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		agreement, err := s.lockAgreement(ctx, repo, input.AgreementID)
		if err != nil {
			return err
		}
		if agreement.Status != enums.AgreementStatusActive {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict, "agreement is %s and cannot accept payments", agreement.Status)
		}

		payments, err := repo.PaymentsForAgreement(ctx, input.AgreementID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ledger")
		}
		totals := ledgerTotals(payments)

		remaining := agreement.RequiredDownpaymentAmount.Sub(totals.downpaymentPaid)
		if input.Amount.GreaterThan(remaining) {
			return pkgerrors.Newf(pkgerrors.CodeValidation,
				"downpayment of %s exceeds the required downpayment; remaining allowance is %s",
				input.Amount, remaining)
		}

		entry = s.buildEntry(agreement, input, enums.TransactionTypeDownpayment)
		if _, err := repo.CreatePayment(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record downpayment")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *service) RecordInstallment(ctx context.Context, input PaymentInput) (*models.Payment, error) {
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment amount must be positive")
	}

	var entry *models.Payment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		agreement, err := s.lockAgreement(ctx, repo, input.AgreementID)
		if err != nil {
			return err
		}
		if agreement.Status != enums.AgreementStatusActive {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict, "agreement is %s and cannot accept payments", agreement.Status)
		}

		payments, err := repo.PaymentsForAgreement(ctx, input.AgreementID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ledger")
		}
		totals := ledgerTotals(payments)
		if totals.downpaymentPaid.IsZero() {
			return pkgerrors.New(pkgerrors.CodeValidation, "a downpayment must be recorded before installments")
		}

		outstanding := agreement.TotalCommissionAmount.Sub(totals.totalPaid)
		if input.Amount.GreaterThan(outstanding) {
			return pkgerrors.Newf(pkgerrors.CodeValidation,
				"installment of %s exceeds the outstanding balance of %s", input.Amount, outstanding)
		}

		entry = s.buildEntry(agreement, input, enums.TransactionTypeInstallment)
		if _, err := repo.CreatePayment(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record installment")
		}

		if totals.totalPaid.Add(input.Amount).Equal(agreement.TotalCommissionAmount) {
			agreement.Status = enums.AgreementStatusCompleted
			if err := repo.UpdateAgreement(ctx, agreement); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete agreement")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *service) ReversePayment(ctx context.Context, paymentID uuid.UUID, reason string, recordedBy *int64) (*models.Payment, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reversal reason is required")
	}

	var reversal *models.Payment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		original, err := repo.FindPaymentByID(ctx, paymentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup payment")
		}
		if original.IsReversal {
			return pkgerrors.New(pkgerrors.CodeValidation, "a reversal entry cannot itself be reversed")
		}

		agreement, err := s.lockAgreement(ctx, repo, original.AgreementID)
		if err != nil {
			return err
		}

		if _, err := repo.ReversalForPayment(ctx, paymentID); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "payment has already been reversed")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing reversal")
		}

		trimmed := strings.TrimSpace(reason)
		reversal = &models.Payment{
			AgreementID:     original.AgreementID,
			AssignmentID:    original.AssignmentID,
			CandidateID:     original.CandidateID,
			Amount:          original.Amount.Neg(),
			Direction:       original.Direction.Opposite(),
			TransactionType: enums.TransactionTypeReversal,
			IsReversal:      true,
			ReversalOf:      &original.ID,
			ReversalReason:  &trimmed,
			RecordedBy:      recordedBy,
			PaymentDate:     s.now(),
		}
		if _, err := repo.CreatePayment(ctx, reversal); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record reversal")
		}

		// A completed agreement whose ledger drops below the total reopens so
		// further installments can be recorded.
		if agreement.Status == enums.AgreementStatusCompleted {
			payments, err := repo.PaymentsForAgreement(ctx, agreement.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ledger")
			}
			totals := ledgerTotals(payments)
			if totals.totalPaid.LessThan(agreement.TotalCommissionAmount) {
				agreement.Status = enums.AgreementStatusActive
				if err := repo.UpdateAgreement(ctx, agreement); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reopen agreement")
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reversal, nil
}

func (s *service) Statement(ctx context.Context, candidateID int64, agreementID uuid.UUID) (*Statement, error) {
	if candidateID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "candidate id is required")
	}
	agreement, err := s.repo.FindAgreementByID(ctx, agreementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "agreement not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup agreement")
	}
	if agreement.CandidateID != candidateID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "agreement does not belong to this candidate")
	}
	payments, err := s.repo.PaymentsForAgreement(ctx, agreementID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ledger")
	}

	totals := ledgerTotals(payments)
	return &Statement{
		Agreement:           *agreement,
		TotalPaid:           totals.totalPaid,
		OutstandingBalance:  agreement.TotalCommissionAmount.Sub(totals.totalPaid),
		DownpaymentPaid:     totals.downpaymentPaid,
		DownpaymentComplete: totals.downpaymentPaid.GreaterThanOrEqual(agreement.RequiredDownpaymentAmount),
		FullyPaid:           totals.totalPaid.GreaterThanOrEqual(agreement.TotalCommissionAmount),
		Payments:            payments,
	}, nil
}

// IsDownpaymentComplete resolves the assignment's active agreement and
// reports whether the required downpayment has been fully paid. False when no
// active agreement exists.
func (s *service) IsDownpaymentComplete(ctx context.Context, assignmentID int64) (bool, error) {
	agreement, totals, err := s.activeTotals(ctx, assignmentID)
	if err != nil || agreement == nil {
		return false, err
	}
	return totals.downpaymentPaid.GreaterThanOrEqual(agreement.RequiredDownpaymentAmount), nil
}

// IsFullPaymentComplete reports whether the assignment's agreement is fully
// paid. A completed agreement counts even though it is no longer active.
func (s *service) IsFullPaymentComplete(ctx context.Context, assignmentID int64) (bool, error) {
	agreement, totals, err := s.activeTotals(ctx, assignmentID)
	if err != nil || agreement == nil {
		return false, err
	}
	return totals.totalPaid.GreaterThanOrEqual(agreement.TotalCommissionAmount), nil
}

func (s *service) activeTotals(ctx context.Context, assignmentID int64) (*models.CommissionAgreement, ledgerSummary, error) {
	agreement, err := s.repo.CurrentAgreementForAssignment(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledgerSummary{}, nil
		}
		return nil, ledgerSummary{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup agreement")
	}
	payments, err := s.repo.PaymentsForAgreement(ctx, agreement.ID)
	if err != nil {
		return nil, ledgerSummary{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ledger")
	}
	return agreement, ledgerTotals(payments), nil
}

func (s *service) lockAgreement(ctx context.Context, repo Repository, id uuid.UUID) (*models.CommissionAgreement, error) {
	agreement, err := repo.FindAgreementByIDLocked(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "agreement not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock agreement")
	}
	return agreement, nil
}

func (s *service) buildEntry(agreement *models.CommissionAgreement, input PaymentInput, txType enums.TransactionType) *models.Payment {
	paymentDate := input.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = s.now()
	}
	return &models.Payment{
		AgreementID:     agreement.ID,
		AssignmentID:    agreement.AssignmentID,
		CandidateID:     agreement.CandidateID,
		Amount:          input.Amount,
		Direction:       enums.PaymentDirectionDebit,
		TransactionType: txType,
		PaymentMethod:   input.PaymentMethod,
		ExternalRef:     input.ExternalRef,
		Description:     input.Description,
		RecordedBy:      input.RecordedBy,
		PaymentDate:     paymentDate,
	}
}

type ledgerSummary struct {
	totalPaid       decimal.Decimal
	downpaymentPaid decimal.Decimal
}

// ledgerTotals sums the effective ledger: reversal entries and the originals
// they back-link are both excluded, so a reversed payment contributes nothing.
func ledgerTotals(payments []models.Payment) ledgerSummary {
	reversed := make(map[uuid.UUID]struct{})
	for _, p := range payments {
		if p.ReversalOf != nil {
			reversed[*p.ReversalOf] = struct{}{}
		}
	}

	summary := ledgerSummary{
		totalPaid:       decimal.Zero,
		downpaymentPaid: decimal.Zero,
	}
	for _, p := range payments {
		if p.IsReversal {
			continue
		}
		if _, ok := reversed[p.ID]; ok {
			continue
		}
		summary.totalPaid = summary.totalPaid.Add(p.Amount)
		if p.TransactionType == enums.TransactionTypeDownpayment {
			summary.downpaymentPaid = summary.downpaymentPaid.Add(p.Amount)
		}
	}
	return summary
}
