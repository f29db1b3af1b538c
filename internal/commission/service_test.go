package commission

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/roms-agency/roms-backend/internal/assignments"
	"github.com/roms-agency/roms-backend/internal/candidates"
	"github.com/roms-agency/roms-backend/pkg/db/models"
	"github.com/roms-agency/roms-backend/pkg/enums"
	pkgerrors "github.com/roms-agency/roms-backend/pkg/errors"
)

type testTxRunner struct {
	db *gorm.DB
}

func (t *testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return t.db.WithContext(ctx).Transaction(fn)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	err = conn.AutoMigrate(
		&models.Candidate{},
		&models.JobOrder{},
		&models.Assignment{},
		&models.CommissionAgreement{},
		&models.Payment{},
	)
	if err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(
		NewRepository(conn),
		&testTxRunner{db: conn},
		candidates.NewRepository(conn),
		assignments.NewRepository(conn),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedCandidate(t *testing.T, conn *gorm.DB, ref string) *models.Candidate {
	t.Helper()
	candidate := &models.Candidate{
		InternalRefNo: ref,
		FirstName:     "Test",
		LastName:      "Candidate",
		Email:         ref + "@example.com",
		CurrentStatus: enums.CandidateStatusOfferAccepted,
		ExpiryFlag:    enums.ExpiryFlagNone,
		IsActive:      true,
	}
	if err := conn.Create(candidate).Error; err != nil {
		t.Fatalf("seed candidate: %v", err)
	}
	return candidate
}

func seedAssignment(t *testing.T, conn *gorm.DB, candidateID int64) *models.Assignment {
	t.Helper()
	order := &models.JobOrder{
		JobOrderRef:       "JO-" + time.Now().Format("150405.000000"),
		JobTitle:          "Welder",
		EmployerName:      "Gulf Industrial",
		Status:            enums.JobOrderStatusOpen,
		HeadcountRequired: 1,
	}
	if err := conn.Create(order).Error; err != nil {
		t.Fatalf("seed job order: %v", err)
	}
	assignment := &models.Assignment{
		CandidateID: candidateID,
		JobOrderID:  order.ID,
		Status:      enums.AssignmentStatusAssigned,
		IsActive:    true,
		AssignedAt:  time.Now().UTC(),
	}
	if err := conn.Create(assignment).Error; err != nil {
		t.Fatalf("seed assignment: %v", err)
	}
	return assignment
}

func seedAgreement(t *testing.T, conn *gorm.DB, svc Service, total, down int64) *models.CommissionAgreement {
	t.Helper()
	candidate := seedCandidate(t, conn, "CND-"+decimal.NewFromInt(total).String())
	assignment := seedAssignment(t, conn, candidate.ID)
	agreement, err := svc.CreateAgreement(context.Background(), CreateAgreementInput{
		CandidateID:               candidate.ID,
		AssignmentID:              assignment.ID,
		TotalCommissionAmount:     decimal.NewFromInt(total),
		RequiredDownpaymentAmount: decimal.NewFromInt(down),
	})
	if err != nil {
		t.Fatalf("create agreement: %v", err)
	}
	return agreement
}

func TestCreateAgreement_Defaults(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)
	agreement := seedAgreement(t, conn, svc, 200000, 50000)

	if agreement.Status != enums.AgreementStatusActive {
		t.Fatalf("expected active agreement, got %s", agreement.Status)
	}
	if agreement.Currency != "KES" {
		t.Fatalf("expected KES default currency, got %s", agreement.Currency)
	}
	if agreement.Signed {
		t.Fatalf("new agreement must not be signed")
	}
}

func TestCreateAgreement_RejectsSecondActive(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)
	agreement := seedAgreement(t, conn, svc, 200000, 50000)

	_, err := svc.CreateAgreement(context.Background(), CreateAgreementInput{
		CandidateID:               agreement.CandidateID,
		AssignmentID:              agreement.AssignmentID,
		TotalCommissionAmount:     decimal.NewFromInt(100000),
		RequiredDownpaymentAmount: decimal.NewFromInt(20000),
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreateAgreement_DownpaymentCannotExceedTotal(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)

	_, err := svc.CreateAgreement(context.Background(), CreateAgreementInput{
		CandidateID:               1,
		AssignmentID:              1,
		TotalCommissionAmount:     decimal.NewFromInt(50000),
		RequiredDownpaymentAmount: decimal.NewFromInt(60000),
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLedger_DownpaymentThenInstallmentCompletes(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)
	agreement := seedAgreement(t, conn, svc, 200000, 50000)
	ctx := context.Background()

	if _, err := svc.RecordDownpayment(ctx, PaymentInput{
		AgreementID: agreement.ID,
		Amount:      decimal.NewFromInt(50000),
	}); err != nil {
		t.Fatalf("record downpayment: %v", err)
	}

	complete, err := svc.IsDownpaymentComplete(ctx, agreement.AssignmentID)
	if err != nil {
		t.Fatalf("downpayment check: %v", err)
	}
	if !complete {
		t.Fatalf("downpayment should be complete after paying the required amount")
	}

	if _, err := svc.RecordInstallment(ctx, PaymentInput{
		AgreementID: agreement.ID,
		Amount:      decimal.NewFromInt(150000),
	}); err != nil {
		t.Fatalf("record installment: %v", err)
	}

	statement, err := svc.Statement(ctx, agreement.CandidateID, agreement.ID)
	if err != nil {
		t.Fatalf("statement: %v", err)
	}
	if !statement.FullyPaid {
		t.Fatalf("statement should report fully paid")
	}
	if !statement.OutstandingBalance.IsZero() {
		t.Fatalf("expected zero outstanding, got %s", statement.OutstandingBalance)
	}
	if statement.Agreement.Status != enums.AgreementStatusCompleted {
		t.Fatalf("agreement should complete on exact payoff, got %s", statement.Agreement.Status)
	}

	fully, err := svc.IsFullPaymentComplete(ctx, agreement.AssignmentID)
	if err != nil {
		t.Fatalf("full payment check: %v", err)
	}
	if !fully {
		t.Fatalf("full payment must still report true for the completed agreement")
	}
}

func TestStatement_RejectsForeignCandidate(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	agreement := seedAgreement(t, conn, svc, 200000, 50000)
	other := seedCandidate(t, conn, "CND-OTHER")

	_, err := svc.Statement(ctx, other.ID, agreement.ID)
	if err == nil {
		t.Fatalf("statement for a foreign candidate must fail")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if typed.Message() != "agreement does not belong to this candidate" {
		t.Fatalf("unexpected message %q", typed.Message())
	}

	if _, err := svc.Statement(ctx, agreement.CandidateID, agreement.ID); err != nil {
		t.Fatalf("owner statement: %v", err)
	}
}

func TestLedger_InstallmentRequiresDownpayment(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)
	agreement := seedAgreement(t, conn, svc, 200000, 50000)

	_, err := svc.RecordInstallment(context.Background(), PaymentInput{
		AgreementID: agreement.ID,
		Amount:      decimal.NewFromInt(10000),
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error before any downpayment, got %v", err)
	}
}

func TestLedger_OverpaymentRejectedAndTotalsUnchanged(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)
	agreement := seedAgreement(t, conn, svc, 200000, 50000)
	ctx := context.Background()

	if _, err := svc.RecordDownpayment(ctx, PaymentInput{
		AgreementID: agreement.ID,
		Amount:      decimal.NewFromInt(50000),
	}); err != nil {
		t.Fatalf("record downpayment: %v", err)
	}

	_, err := svc.RecordInstallment(ctx, PaymentInput{
		AgreementID: agreement.ID,
		Amount:      decimal.NewFromInt(150001),
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected overpayment rejection, got %v", err)
	}

	statement, err := svc.Statement(ctx, agreement.CandidateID, agreement.ID)
	if err != nil {
		t.Fatalf("statement: %v", err)
	}
	if !statement.TotalPaid.Equal(decimal.NewFromInt(50000)) {
		t.Fatalf("rejected payment must not change totals, got %s", statement.TotalPaid)
	}
}

func TestLedger_DownpaymentOverRequiredRejected(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)
	agreement := seedAgreement(t, conn, svc, 200000, 50000)
	ctx := context.Background()

	if _, err := svc.RecordDownpayment(ctx, PaymentInput{
		AgreementID: agreement.ID,
		Amount:      decimal.NewFromInt(30000),
	}); err != nil {
		t.Fatalf("record downpayment: %v", err)
	}

	_, err := svc.RecordDownpayment(ctx, PaymentInput{
		AgreementID: agreement.ID,
		Amount:      decimal.NewFromInt(30000),
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected remaining-allowance rejection, got %v", err)
	}
}

func TestReversal_SumsToZeroAndBackLinks(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)
	agreement := seedAgreement(t, conn, svc, 200000, 50000)
	ctx := context.Background()

	payment, err := svc.RecordDownpayment(ctx, PaymentInput{
		AgreementID: agreement.ID,
		Amount:      decimal.NewFromInt(50000),
	})
	if err != nil {
		t.Fatalf("record downpayment: %v", err)
	}

	reversal, err := svc.ReversePayment(ctx, payment.ID, "recorded against the wrong applicant", nil)
	if err != nil {
		t.Fatalf("reverse payment: %v", err)
	}
	if reversal.ReversalOf == nil || *reversal.ReversalOf != payment.ID {
		t.Fatalf("reversal must back-link the original payment")
	}
	if !reversal.Amount.Add(payment.Amount).IsZero() {
		t.Fatalf("reversal pair must sum to zero, got %s + %s", payment.Amount, reversal.Amount)
	}
	if reversal.Direction != payment.Direction.Opposite() {
		t.Fatalf("reversal direction must oppose the original")
	}

	statement, err := svc.Statement(ctx, agreement.CandidateID, agreement.ID)
	if err != nil {
		t.Fatalf("statement: %v", err)
	}
	if !statement.TotalPaid.IsZero() {
		t.Fatalf("reversed payment must not count toward totals, got %s", statement.TotalPaid)
	}
	if statement.DownpaymentComplete {
		t.Fatalf("downpayment completeness must drop once the payment is reversed")
	}
	if len(statement.Payments) != 2 {
		t.Fatalf("ledger history must keep both entries, got %d", len(statement.Payments))
	}
}

func TestReversal_DoubleReversalRejected(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)
	agreement := seedAgreement(t, conn, svc, 200000, 50000)
	ctx := context.Background()

	payment, err := svc.RecordDownpayment(ctx, PaymentInput{
		AgreementID: agreement.ID,
		Amount:      decimal.NewFromInt(50000),
	})
	if err != nil {
		t.Fatalf("record downpayment: %v", err)
	}
	reversal, err := svc.ReversePayment(ctx, payment.ID, "duplicate entry", nil)
	if err != nil {
		t.Fatalf("first reversal: %v", err)
	}

	if _, err := svc.ReversePayment(ctx, payment.ID, "again", nil); pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict on second reversal, got %v", err)
	}
	if _, err := svc.ReversePayment(ctx, reversal.ID, "undo the undo", nil); pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error reversing a reversal, got %v", err)
	}
}

func TestReversal_ReopensCompletedAgreement(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)
	agreement := seedAgreement(t, conn, svc, 100000, 40000)
	ctx := context.Background()

	if _, err := svc.RecordDownpayment(ctx, PaymentInput{
		AgreementID: agreement.ID,
		Amount:      decimal.NewFromInt(40000),
	}); err != nil {
		t.Fatalf("record downpayment: %v", err)
	}
	installment, err := svc.RecordInstallment(ctx, PaymentInput{
		AgreementID: agreement.ID,
		Amount:      decimal.NewFromInt(60000),
	})
	if err != nil {
		t.Fatalf("record installment: %v", err)
	}

	if _, err := svc.ReversePayment(ctx, installment.ID, "cheque bounced", nil); err != nil {
		t.Fatalf("reverse installment: %v", err)
	}

	statement, err := svc.Statement(ctx, agreement.CandidateID, agreement.ID)
	if err != nil {
		t.Fatalf("statement: %v", err)
	}
	if statement.Agreement.Status != enums.AgreementStatusActive {
		t.Fatalf("agreement should reopen when the ledger drops below total, got %s", statement.Agreement.Status)
	}
	if !statement.TotalPaid.Equal(decimal.NewFromInt(40000)) {
		t.Fatalf("expected 40000 effective total, got %s", statement.TotalPaid)
	}
}

func TestSign_OneWayAndAmountsFrozen(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)
	agreement := seedAgreement(t, conn, svc, 200000, 50000)
	ctx := context.Background()

	url := "https://docs.roms.agency/agreements/signed.pdf"
	signed, err := svc.Sign(ctx, agreement.ID, &url)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if !signed.Signed || signed.SignedAt == nil {
		t.Fatalf("sign must set the signed flag and timestamp")
	}

	if _, err := svc.Sign(ctx, agreement.ID, &url); pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict on re-sign, got %v", err)
	}

	_, err = svc.UpdateAmounts(ctx, agreement.ID, decimal.NewFromInt(250000), decimal.NewFromInt(50000))
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected amounts to be immutable once signed, got %v", err)
	}
}

func TestCancel_RejectsPaymentsAndReCancel(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)
	agreement := seedAgreement(t, conn, svc, 200000, 50000)
	ctx := context.Background()

	cancelled, err := svc.Cancel(ctx, agreement.ID, "applicant withdrew")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != enums.AgreementStatusCancelled {
		t.Fatalf("expected cancelled status, got %s", cancelled.Status)
	}

	if _, err := svc.Cancel(ctx, agreement.ID, "again"); pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict on second cancel, got %v", err)
	}
	_, err = svc.RecordDownpayment(ctx, PaymentInput{
		AgreementID: agreement.ID,
		Amount:      decimal.NewFromInt(10000),
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("cancelled agreement must reject payments, got %v", err)
	}
}

func TestPaymentFlags_FalseWithoutAgreement(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	down, err := svc.IsDownpaymentComplete(ctx, 999)
	if err != nil {
		t.Fatalf("downpayment check: %v", err)
	}
	full, err := svc.IsFullPaymentComplete(ctx, 999)
	if err != nil {
		t.Fatalf("full payment check: %v", err)
	}
	if down || full {
		t.Fatalf("payment flags must be false when no agreement exists")
	}
}
