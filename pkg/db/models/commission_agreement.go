package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/roms-agency/roms-backend/pkg/enums"
)

// CommissionAgreement is the commission contract between the agency and an
// applicant, tied to exactly one assignment. Once Signed is set the two amount
// fields are immutable.
type CommissionAgreement struct {
	ID                        uuid.UUID             `gorm:"column:id;type:uuid;default:(gen_random_uuid());primaryKey"`
	CandidateID               int64                 `gorm:"column:candidate_id;not null;index"`
	AssignmentID              int64                 `gorm:"column:assignment_id;not null;index"`
	TotalCommissionAmount     decimal.Decimal       `gorm:"column:total_commission_amount;type:numeric(14,2);not null"`
	RequiredDownpaymentAmount decimal.Decimal       `gorm:"column:required_downpayment_amount;type:numeric(14,2);not null"`
	Currency                  string                `gorm:"column:currency;size:3;not null;default:'KES'"`
	Status                    enums.AgreementStatus `gorm:"column:status;type:text;not null;default:'active'"`
	Signed                    bool                  `gorm:"column:signed;not null;default:false"`
	SignedAt                  *time.Time            `gorm:"column:signed_at"`
	SignedDocumentURL         *string               `gorm:"column:signed_document_url"`
	CancellationReason        *string               `gorm:"column:cancellation_reason"`
	Notes                     *string               `gorm:"column:notes"`
	CreatedBy                 *int64                `gorm:"column:created_by"`
	CreatedAt                 time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt                 time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the ID when the dialect has no uuid default.
func (a *CommissionAgreement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
