package models

import (
	"time"

	"github.com/roms-agency/roms-backend/pkg/enums"
)

// Candidate is a person moving through the recruitment pipeline. CurrentStatus
// is the authoritative lifecycle and is only mutated by the workflow service.
type Candidate struct {
	ID                int64                 `gorm:"column:id;primaryKey;autoIncrement"`
	InternalRefNo     string                `gorm:"column:internal_ref_no;size:32;not null;uniqueIndex"`
	FirstName         string                `gorm:"column:first_name;not null"`
	LastName          string                `gorm:"column:last_name;not null"`
	Email             string                `gorm:"column:email;not null"`
	Phone             string                `gorm:"column:phone"`
	PassportNumber    *string               `gorm:"column:passport_number"`
	PassportExpiry    *time.Time            `gorm:"column:passport_expiry"`
	MedicalStatus     *enums.MedicalStatus  `gorm:"column:medical_status;type:text"`
	MedicalExpiry     *time.Time            `gorm:"column:medical_expiry"`
	InterviewDate     *time.Time            `gorm:"column:interview_date"`
	CurrentStatus     enums.CandidateStatus `gorm:"column:current_status;type:text;not null;default:'application_submitted'"`
	ExpiryFlag        enums.ExpiryFlag      `gorm:"column:expiry_flag;type:text;not null;default:'none'"`
	IsActive          bool                  `gorm:"column:is_active;not null;default:true"`
	CreatedAt         time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// FullName joins the candidate's names for display.
func (c Candidate) FullName() string {
	return c.FirstName + " " + c.LastName
}
