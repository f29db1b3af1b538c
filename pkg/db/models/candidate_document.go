package models

import (
	"time"

	"github.com/roms-agency/roms-backend/pkg/enums"
)

// CandidateDocument stores type-tagged document metadata for a candidate. The
// bytes live in the external document store; StorageKey is the opaque id it
// hands back on upload.
type CandidateDocument struct {
	ID          int64              `gorm:"column:id;primaryKey;autoIncrement"`
	CandidateID int64              `gorm:"column:candidate_id;not null;index:idx_candidate_documents_candidate_type"`
	DocType     enums.DocumentType `gorm:"column:doc_type;type:text;not null;index:idx_candidate_documents_candidate_type"`
	StorageKey  string             `gorm:"column:storage_key;not null"`
	FileName    string             `gorm:"column:file_name;not null"`
	ExpiryDate  *time.Time         `gorm:"column:expiry_date"`
	UploadedBy  *int64             `gorm:"column:uploaded_by"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
