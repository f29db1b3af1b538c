package models

import (
	"time"

	"github.com/roms-agency/roms-backend/pkg/enums"
)

// Assignment binds one candidate to one job order. At most one assignment per
// candidate may be active at any time; the partial unique index
// idx_assignments_one_active_per_candidate enforces this under concurrent
// creates. Assignments are deactivated on cancellation, never deleted.
type Assignment struct {
	ID                   int64                  `gorm:"column:id;primaryKey;autoIncrement"`
	CandidateID          int64                  `gorm:"column:candidate_id;not null;index"`
	JobOrderID           int64                  `gorm:"column:job_order_id;not null;index"`
	Status               enums.AssignmentStatus `gorm:"column:status;type:text;not null;default:'assigned'"`
	IsActive             bool                   `gorm:"column:is_active;not null;default:true"`
	AssignedAt           time.Time              `gorm:"column:assigned_at;not null"`
	OfferIssuedAt        *time.Time             `gorm:"column:offer_issued_at"`
	PlacementConfirmedAt *time.Time             `gorm:"column:placement_confirmed_at"`
	CancelledAt          *time.Time             `gorm:"column:cancelled_at"`
	Notes                *string                `gorm:"column:notes"`
	CreatedAt            time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
