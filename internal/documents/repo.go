package documents

import (
	"context"

	"gorm.io/gorm"

	"github.com/roms-agency/roms-backend/pkg/db/models"
)

// Repository exposes candidate document metadata persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a document repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to the provided transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new document metadata row.
func (r *Repository) Create(ctx context.Context, doc *models.CandidateDocument) (*models.CandidateDocument, error) {
	if err := r.db.WithContext(ctx).Create(doc).Error; err != nil {
		return nil, err
	}
	return doc, nil
}

// ListByCandidate returns all document rows for a candidate, newest first.
func (r *Repository) ListByCandidate(ctx context.Context, candidateID int64) ([]models.CandidateDocument, error) {
	var rows []models.CandidateDocument
	err := r.db.WithContext(ctx).
		Where("candidate_id = ?", candidateID).
		Order("created_at DESC").Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID returns a single document row.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.CandidateDocument, error) {
	var row models.CandidateDocument
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// HasType reports whether the candidate has at least one document of the type.
// Delete removes a document metadata row. The stored bytes live in the
// external document store and are untouched here.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.CandidateDocument{}, "id = ?", id).Error
}
