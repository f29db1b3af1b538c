package assignments

import (
	"context"

	"gorm.io/gorm"

	"github.com/roms-agency/roms-backend/pkg/db/models"
)

// Repository defines persistence operations for the assignment ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, assignment *models.Assignment) (*models.Assignment, error)
	FindByID(ctx context.Context, id int64) (*models.Assignment, error)
	FindByIDLocked(ctx context.Context, id int64) (*models.Assignment, error)
	ActiveForCandidate(ctx context.Context, candidateID int64) (*models.Assignment, error)
	CountActiveForJobOrder(ctx context.Context, jobOrderID int64) (int64, error)
	List(ctx context.Context, query ListQuery) ([]models.Assignment, error)
	Update(ctx context.Context, assignment *models.Assignment) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type candidateReader interface {
	FindByID(ctx context.Context, id int64) (*models.Candidate, error)
}

type jobOrderTxStore interface {
	FindByIDLockedWithTx(tx *gorm.DB, id int64) (*models.JobOrder, error)
	UpdateWithTx(tx *gorm.DB, order *models.JobOrder) error
}
