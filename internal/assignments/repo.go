package assignments

import (
	"context"

	"gorm.io/gorm"

	"github.com/roms-agency/roms-backend/pkg/db"
	"github.com/roms-agency/roms-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an assignment repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, assignment *models.Assignment) (*models.Assignment, error) {
	if err := r.db.WithContext(ctx).Create(assignment).Error; err != nil {
		return nil, err
	}
	return assignment, nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.Assignment, error) {
	var row models.Assignment
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) FindByIDLocked(ctx context.Context, id int64) (*models.Assignment, error) {
	var row models.Assignment
	if err := db.Locked(r.db.WithContext(ctx)).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ActiveForCandidate returns the candidate's single active assignment, or
// gorm.ErrRecordNotFound when none exists.
func (r *repository) ActiveForCandidate(ctx context.Context, candidateID int64) (*models.Assignment, error) {
	var row models.Assignment
	err := r.db.WithContext(ctx).
		Where("candidate_id = ? AND is_active = ?", candidateID, true).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) CountActiveForJobOrder(ctx context.Context, jobOrderID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Assignment{}).
		Where("job_order_id = ? AND is_active = ?", jobOrderID, true).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ListQuery filters assignment listings.
type ListQuery struct {
	CandidateID *int64
	JobOrderID  *int64
	ActiveOnly  bool
	Limit       int
	Offset      int
}

func (r *repository) List(ctx context.Context, query ListQuery) ([]models.Assignment, error) {
	q := r.db.WithContext(ctx).Model(&models.Assignment{})
	if query.CandidateID != nil {
		q = q.Where("candidate_id = ?", *query.CandidateID)
	}
	if query.JobOrderID != nil {
		q = q.Where("job_order_id = ?", *query.JobOrderID)
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

	var rows []models.Assignment
	if err := q.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Update(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}
