package candidates

import (
	"context"

	"gorm.io/gorm"

	"github.com/roms-agency/roms-backend/pkg/db"
	"github.com/roms-agency/roms-backend/pkg/db/models"
	"github.com/roms-agency/roms-backend/pkg/enums"
)

// Repository exposes candidate persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a candidate repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to the provided transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new candidate row.
func (r *Repository) Create(ctx context.Context, candidate *models.Candidate) (*models.Candidate, error) {
	if err := r.db.WithContext(ctx).Create(candidate).Error; err != nil {
		return nil, err
	}
	return candidate, nil
}

// FindByID returns a candidate by primary key.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Candidate, error) {
	var row models.Candidate
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByIDLocked returns a candidate with a row lock held for the enclosing
// transaction. Callers must be inside WithTx.
func (r *Repository) FindByIDLocked(ctx context.Context, id int64) (*models.Candidate, error) {
	var row models.Candidate
	if err := db.Locked(r.db.WithContext(ctx)).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByIDLockedWithTx loads a row-locked candidate using the provided
// transaction.
func (r *Repository) FindByIDLockedWithTx(tx *gorm.DB, id int64) (*models.Candidate, error) {
	var row models.Candidate
	if err := db.Locked(tx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// UpdateWithTx persists the candidate using the provided transaction.
func (r *Repository) UpdateWithTx(tx *gorm.DB, candidate *models.Candidate) error {
	return tx.Save(candidate).Error
}

// FindByRef returns a candidate by internal reference number.
func (r *Repository) FindByRef(ctx context.Context, ref string) (*models.Candidate, error) {
	var row models.Candidate
	if err := r.db.WithContext(ctx).First(&row, "internal_ref_no = ?", ref).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ListQuery filters candidate listings.
type ListQuery struct {
	Status     *enums.CandidateStatus
	ActiveOnly bool
	Limit      int
	Offset     int
}

// List returns candidates matching the query, newest first.
func (r *Repository) List(ctx context.Context, query ListQuery) ([]models.Candidate, error) {
	q := r.db.WithContext(ctx).Model(&models.Candidate{})
	if query.Status != nil {
		q = q.Where("current_status = ?", *query.Status)
	}
	if query.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if query.Limit > 0 {
		q = q.Limit(query.Limit)
	}
	if query.Offset > 0 {
		q = q.Offset(query.Offset)
	}

	var rows []models.Candidate
	if err := q.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListActiveWithExpiries returns active candidates carrying at least one
// expiry date, for the expiry sweep.
func (r *Repository) ListActiveWithExpiries(ctx context.Context) ([]models.Candidate, error) {
	var rows []models.Candidate
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("passport_expiry IS NOT NULL OR medical_expiry IS NOT NULL").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Update persists the candidate row.
func (r *Repository) Update(ctx context.Context, candidate *models.Candidate) error {
	return r.db.WithContext(ctx).Save(candidate).Error
}
