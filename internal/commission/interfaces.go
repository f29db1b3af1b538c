package commission

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/roms-agency/roms-backend/pkg/db/models"
)

// Repository defines persistence operations for agreements and the payment
// ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateAgreement(ctx context.Context, agreement *models.CommissionAgreement) (*models.CommissionAgreement, error)
	FindAgreementByID(ctx context.Context, id uuid.UUID) (*models.CommissionAgreement, error)
	FindAgreementByIDLocked(ctx context.Context, id uuid.UUID) (*models.CommissionAgreement, error)
	ActiveAgreementForAssignment(ctx context.Context, assignmentID int64) (*models.CommissionAgreement, error)
	CurrentAgreementForAssignment(ctx context.Context, assignmentID int64) (*models.CommissionAgreement, error)
	UpdateAgreement(ctx context.Context, agreement *models.CommissionAgreement) error
	CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	FindPaymentByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	PaymentsForAgreement(ctx context.Context, agreementID uuid.UUID) ([]models.Payment, error)
	ReversalForPayment(ctx context.Context, paymentID uuid.UUID) (*models.Payment, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type candidateReader interface {
	FindByID(ctx context.Context, id int64) (*models.Candidate, error)
}

type assignmentReader interface {
	FindByID(ctx context.Context, id int64) (*models.Assignment, error)
}
