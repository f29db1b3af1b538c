package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/roms-agency/roms-backend/pkg/enums"
)

// Payment is an immutable commission ledger entry. Rows are write-once: no
// update or delete path exists anywhere in the codebase. Corrections are made
// by appending a reversal entry whose ReversalOf points at the original.
// Amounts are stored pre-signed: a reversal carries the negated amount of its
// original, so a reversal pair sums to zero on the Amount column.
type Payment struct {
	ID              uuid.UUID              `gorm:"column:id;type:uuid;default:(gen_random_uuid());primaryKey"`
	AgreementID     uuid.UUID              `gorm:"column:agreement_id;type:uuid;not null;index"`
	AssignmentID    int64                  `gorm:"column:assignment_id;not null;index"`
	CandidateID     int64                  `gorm:"column:candidate_id;not null;index"`
	Amount          decimal.Decimal        `gorm:"column:amount;type:numeric(14,2);not null"`
	Direction       enums.PaymentDirection `gorm:"column:direction;type:text;not null"`
	TransactionType enums.TransactionType  `gorm:"column:transaction_type;type:text;not null"`
	PaymentMethod   *string                `gorm:"column:payment_method"`
	ExternalRef     *string                `gorm:"column:external_ref"`
	Description     *string                `gorm:"column:description"`
	IsReversal      bool                   `gorm:"column:is_reversal;not null;default:false"`
	ReversalOf      *uuid.UUID             `gorm:"column:reversal_of;type:uuid;index"`
	ReversalReason  *string                `gorm:"column:reversal_reason"`
	RecordedBy      *int64                 `gorm:"column:recorded_by"`
	PaymentDate     time.Time              `gorm:"column:payment_date;not null"`
	CreatedAt       time.Time              `gorm:"column:created_at;autoCreateTime"`
}

// BeforeCreate assigns the ID when the dialect has no uuid default.
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
