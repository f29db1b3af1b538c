package commission

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/roms-agency/roms-backend/pkg/db"
	"github.com/roms-agency/roms-backend/pkg/db/models"
	"github.com/roms-agency/roms-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a commission repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateAgreement(ctx context.Context, agreement *models.CommissionAgreement) (*models.CommissionAgreement, error) {
	if err := r.db.WithContext(ctx).Create(agreement).Error; err != nil {
		return nil, err
	}
	return agreement, nil
}

func (r *repository) FindAgreementByID(ctx context.Context, id uuid.UUID) (*models.CommissionAgreement, error) {
	var row models.CommissionAgreement
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) FindAgreementByIDLocked(ctx context.Context, id uuid.UUID) (*models.CommissionAgreement, error) {
	var row models.CommissionAgreement
	if err := db.Locked(r.db.WithContext(ctx)).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ActiveAgreementForAssignment returns the assignment's active agreement, or
// gorm.ErrRecordNotFound when none exists.
func (r *repository) ActiveAgreementForAssignment(ctx context.Context, assignmentID int64) (*models.CommissionAgreement, error) {
	var row models.CommissionAgreement
	err := r.db.WithContext(ctx).
		Where("assignment_id = ? AND status = ?", assignmentID, enums.AgreementStatusActive).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// CurrentAgreementForAssignment returns the assignment's latest non-cancelled
// agreement, active or completed, or gorm.ErrRecordNotFound when none exists.
func (r *repository) CurrentAgreementForAssignment(ctx context.Context, assignmentID int64) (*models.CommissionAgreement, error) {
	var row models.CommissionAgreement
	err := r.db.WithContext(ctx).
		Where("assignment_id = ? AND status IN ?", assignmentID,
			[]enums.AgreementStatus{enums.AgreementStatusActive, enums.AgreementStatusCompleted}).
		Order("created_at DESC").
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) UpdateAgreement(ctx context.Context, agreement *models.CommissionAgreement) error {
	return r.db.WithContext(ctx).Save(agreement).Error
}

// CreatePayment appends a ledger entry. The ledger is write-once; no update
// or delete methods exist.
func (r *repository) CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *repository) FindPaymentByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var row models.Payment
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) PaymentsForAgreement(ctx context.Context, agreementID uuid.UUID) ([]models.Payment, error) {
	var rows []models.Payment
	err := r.db.WithContext(ctx).
		Where("agreement_id = ?", agreementID).
		Order("payment_date ASC").Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ReversalForPayment returns the reversal back-linked to the payment, or
// gorm.ErrRecordNotFound when it has not been reversed.
func (r *repository) ReversalForPayment(ctx context.Context, paymentID uuid.UUID) (*models.Payment, error) {
	var row models.Payment
	err := r.db.WithContext(ctx).
		Where("reversal_of = ?", paymentID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}
