package assignments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/roms-agency/roms-backend/pkg/db"
	"github.com/roms-agency/roms-backend/pkg/db/models"
	"github.com/roms-agency/roms-backend/pkg/enums"
	pkgerrors "github.com/roms-agency/roms-backend/pkg/errors"
)

// Service exposes the assignment ledger operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Assignment, error)
	Cancel(ctx context.Context, id int64) (*models.Assignment, error)
	IssueOffer(ctx context.Context, id int64) (*models.Assignment, error)
	ConfirmPlacement(ctx context.Context, id int64) (*models.Assignment, error)
	Get(ctx context.Context, id int64) (*models.Assignment, error)
	List(ctx context.Context, query ListQuery) ([]models.Assignment, error)
	ActiveForCandidate(ctx context.Context, candidateID int64) (*models.Assignment, error)
	HasActive(ctx context.Context, candidateID int64) (bool, error)
}

// CreateInput holds the fields for a new assignment.
type CreateInput struct {
	CandidateID int64
	JobOrderID  int64
	Notes       *string
}

type service struct {
	repo       Repository
	tx         txRunner
	candidates candidateReader
	jobOrders  jobOrderTxStore
	now        func() time.Time
}

// NewService builds an assignment service.
func NewService(repo Repository, tx txRunner, candidates candidateReader, jobOrders jobOrderTxStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("assignment repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if candidates == nil {
		return nil, fmt.Errorf("candidate repository required")
	}
	if jobOrders == nil {
		return nil, fmt.Errorf("job order repository required")
	}
	return &service{
		repo:       repo,
		tx:         tx,
		candidates: candidates,
		jobOrders:  jobOrders,
		now:        time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Assignment, error) {
	if input.CandidateID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "candidate_id is required")
	}
	if input.JobOrderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "job_order_id is required")
	}

	if _, err := s.candidates.FindByID(ctx, input.CandidateID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "candidate not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup candidate")
	}

	var created *models.Assignment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := s.jobOrders.FindByIDLockedWithTx(tx, input.JobOrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "job order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock job order")
		}
		if !order.Status.AcceptsAssignments() {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict,
				"job order is %s and does not accept assignments", order.Status)
		}

		if _, err := repo.ActiveForCandidate(ctx, input.CandidateID); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "candidate already has an active assignment")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check active assignment")
		}

		activeCount, err := repo.CountActiveForJobOrder(ctx, input.JobOrderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count active assignments")
		}
		if activeCount >= int64(order.HeadcountRequired) {
			return pkgerrors.Newf(pkgerrors.CodeConflict,
				"job order headcount %d already filled", order.HeadcountRequired)
		}

		assignment := &models.Assignment{
			CandidateID: input.CandidateID,
			JobOrderID:  input.JobOrderID,
			Status:      enums.AssignmentStatusAssigned,
			IsActive:    true,
			AssignedAt:  s.now(),
			Notes:       input.Notes,
		}
		if _, err := repo.Create(ctx, assignment); err != nil {
			if db.IsUniqueViolation(err, "idx_assignments_one_active_per_candidate") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "candidate already has an active assignment")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create assignment")
		}

		if err := s.recomputeHeadcount(ctx, tx, order); err != nil {
			return err
		}

		created = assignment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) Cancel(ctx context.Context, id int64) (*models.Assignment, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "assignment id is required")
	}

	var cancelled *models.Assignment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		assignment, err := repo.FindByIDLocked(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "assignment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock assignment")
		}
		if !assignment.IsActive {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "assignment is already inactive")
		}

		now := s.now()
		assignment.IsActive = false
		assignment.Status = enums.AssignmentStatusCancelled
		assignment.CancelledAt = &now
		if err := repo.Update(ctx, assignment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel assignment")
		}

		order, err := s.jobOrders.FindByIDLockedWithTx(tx, assignment.JobOrderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock job order")
		}
		if err := s.recomputeHeadcount(ctx, tx, order); err != nil {
			return err
		}

		cancelled = assignment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

func (s *service) IssueOffer(ctx context.Context, id int64) (*models.Assignment, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "assignment id is required")
	}

	var result *models.Assignment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		assignment, err := repo.FindByIDLocked(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "assignment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock assignment")
		}
		if !assignment.IsActive {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "assignment is not active")
		}
		if assignment.OfferIssuedAt != nil {
			result = assignment
			return nil
		}

		now := s.now()
		assignment.OfferIssuedAt = &now
		assignment.Status = enums.AssignmentStatusOffered
		if err := repo.Update(ctx, assignment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "issue offer")
		}
		result = assignment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) ConfirmPlacement(ctx context.Context, id int64) (*models.Assignment, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "assignment id is required")
	}

	var result *models.Assignment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		assignment, err := repo.FindByIDLocked(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "assignment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock assignment")
		}
		if !assignment.IsActive {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "assignment is not active")
		}
		if assignment.PlacementConfirmedAt != nil {
			result = assignment
			return nil
		}
		if assignment.OfferIssuedAt == nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "offer must be issued before placement is confirmed")
		}

		now := s.now()
		assignment.PlacementConfirmedAt = &now
		assignment.Status = enums.AssignmentStatusPlaced
		if err := repo.Update(ctx, assignment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm placement")
		}
		result = assignment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, id int64) (*models.Assignment, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "assignment id is required")
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "assignment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup assignment")
	}
	return row, nil
}

func (s *service) List(ctx context.Context, query ListQuery) ([]models.Assignment, error) {
	rows, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list assignments")
	}
	return rows, nil
}

// ActiveForCandidate returns the candidate's active assignment, or nil when
// none exists.
func (s *service) ActiveForCandidate(ctx context.Context, candidateID int64) (*models.Assignment, error) {
	if candidateID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "candidate id is required")
	}
	row, err := s.repo.ActiveForCandidate(ctx, candidateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup active assignment")
	}
	return row, nil
}

func (s *service) HasActive(ctx context.Context, candidateID int64) (bool, error) {
	row, err := s.ActiveForCandidate(ctx, candidateID)
	if err != nil {
		return false, err
	}
	return row != nil, nil
}

// recomputeHeadcount rewrites the job order's filled count from the active
// assignment count and flips the status between open and filled.
func (s *service) recomputeHeadcount(ctx context.Context, tx *gorm.DB, order *models.JobOrder) error {
	repo := s.repo.WithTx(tx)
	count, err := repo.CountActiveForJobOrder(ctx, order.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recount active assignments")
	}

	order.HeadcountFilled = int(count)
	switch {
	case order.Status == enums.JobOrderStatusOpen && count >= int64(order.HeadcountRequired):
		order.Status = enums.JobOrderStatusFilled
	case order.Status == enums.JobOrderStatusFilled && count < int64(order.HeadcountRequired):
		order.Status = enums.JobOrderStatusOpen
	}

	if err := s.jobOrders.UpdateWithTx(tx, order); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update job order headcount")
	}
	return nil
}
