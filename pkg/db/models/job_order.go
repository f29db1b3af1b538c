package models

import (
	"time"

	"github.com/roms-agency/roms-backend/pkg/enums"
)

// JobOrder is an employer's request for a number of placements.
// HeadcountFilled is always recomputed from the count of active assignments,
// never incremented in place.
type JobOrder struct {
	ID                int64                `gorm:"column:id;primaryKey;autoIncrement"`
	JobOrderRef       string               `gorm:"column:job_order_ref;size:32;not null;uniqueIndex"`
	JobTitle          string               `gorm:"column:job_title;not null"`
	EmployerName      string               `gorm:"column:employer_name;not null"`
	Country           string               `gorm:"column:country"`
	Status            enums.JobOrderStatus `gorm:"column:status;type:text;not null;default:'pending_approval'"`
	HeadcountRequired int                  `gorm:"column:headcount_required;not null"`
	HeadcountFilled   int                  `gorm:"column:headcount_filled;not null;default:0"`
	RequiresInterview bool                 `gorm:"column:requires_interview;not null;default:true"`
	Description       *string              `gorm:"column:description"`
	CreatedAt         time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
