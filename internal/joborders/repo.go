package joborders

import (
	"context"

	"gorm.io/gorm"

	"github.com/roms-agency/roms-backend/pkg/db"
	"github.com/roms-agency/roms-backend/pkg/db/models"
	"github.com/roms-agency/roms-backend/pkg/enums"
)

// Repository exposes job order persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a job order repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to the provided transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new job order row.
func (r *Repository) Create(ctx context.Context, order *models.JobOrder) (*models.JobOrder, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID returns a job order by primary key.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.JobOrder, error) {
	var row models.JobOrder
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByIDLocked returns a job order with a row lock held for the enclosing
// transaction. Capacity checks depend on this to serialize writers.
func (r *Repository) FindByIDLocked(ctx context.Context, id int64) (*models.JobOrder, error) {
	var row models.JobOrder
	if err := db.Locked(r.db.WithContext(ctx)).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByIDLockedWithTx loads a row-locked job order using the provided
// transaction.
func (r *Repository) FindByIDLockedWithTx(tx *gorm.DB, id int64) (*models.JobOrder, error) {
	var row models.JobOrder
	if err := db.Locked(tx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// UpdateWithTx persists the job order using the provided transaction.
func (r *Repository) UpdateWithTx(tx *gorm.DB, order *models.JobOrder) error {
	return tx.Save(order).Error
}

// ListQuery filters job order listings.
type ListQuery struct {
	Status *enums.JobOrderStatus
	Limit  int
	Offset int
}

// List returns job orders matching the query, newest first.
func (r *Repository) List(ctx context.Context, query ListQuery) ([]models.JobOrder, error) {
	q := r.db.WithContext(ctx).Model(&models.JobOrder{})
	if query.Status != nil {
		q = q.Where("status = ?", *query.Status)
	}
	if query.Limit > 0 {
		q = q.Limit(query.Limit)
	}
	if query.Offset > 0 {
		q = q.Offset(query.Offset)
	}

	var rows []models.JobOrder
	if err := q.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update persists the job order row.
func (r *Repository) Update(ctx context.Context, order *models.JobOrder) error {
	return r.db.WithContext(ctx).Save(order).Error
}
