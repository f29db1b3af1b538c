package joborders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/roms-agency/roms-backend/pkg/db"
	"github.com/roms-agency/roms-backend/pkg/db/models"
	"github.com/roms-agency/roms-backend/pkg/enums"
	pkgerrors "github.com/roms-agency/roms-backend/pkg/errors"
)

type jobOrdersRepository interface {
	Create(ctx context.Context, order *models.JobOrder) (*models.JobOrder, error)
	FindByID(ctx context.Context, id int64) (*models.JobOrder, error)
	List(ctx context.Context, query ListQuery) ([]models.JobOrder, error)
	Update(ctx context.Context, order *models.JobOrder) error
}

// Service exposes job order catalog operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.JobOrder, error)
	Get(ctx context.Context, id int64) (*models.JobOrder, error)
	List(ctx context.Context, query ListQuery) ([]models.JobOrder, error)
	UpdateStatus(ctx context.Context, id int64, status enums.JobOrderStatus) (*models.JobOrder, error)
}

// CreateInput holds the fields for a new job order.
type CreateInput struct {
	JobTitle          string
	EmployerName      string
	Country           string
	HeadcountRequired int
	RequiresInterview bool
	Description       *string
}

// statusTransitions maps each job order status to its allowed successors.
var statusTransitions = map[enums.JobOrderStatus][]enums.JobOrderStatus{
	enums.JobOrderStatusPendingApproval: {enums.JobOrderStatusOpen, enums.JobOrderStatusCancelled},
	enums.JobOrderStatusOpen:            {enums.JobOrderStatusInProgress, enums.JobOrderStatusFilled, enums.JobOrderStatusOnHold, enums.JobOrderStatusClosed, enums.JobOrderStatusCancelled},
	enums.JobOrderStatusInProgress:      {enums.JobOrderStatusOpen, enums.JobOrderStatusFilled, enums.JobOrderStatusOnHold, enums.JobOrderStatusClosed, enums.JobOrderStatusCancelled},
	enums.JobOrderStatusFilled:          {enums.JobOrderStatusOpen, enums.JobOrderStatusClosed},
	enums.JobOrderStatusOnHold:          {enums.JobOrderStatusOpen, enums.JobOrderStatusCancelled},
	enums.JobOrderStatusClosed:          {},
	enums.JobOrderStatusCancelled:       {},
}

type service struct {
	repo jobOrdersRepository
}

// NewService builds a job order service.
func NewService(repo jobOrdersRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("job order repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.JobOrder, error) {
	if strings.TrimSpace(input.JobTitle) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "job_title is required")
	}
	if strings.TrimSpace(input.EmployerName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "employer_name is required")
	}
	if input.HeadcountRequired <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "headcount_required must be positive")
	}

	order := &models.JobOrder{
		JobOrderRef:       newJobOrderRef(),
		JobTitle:          strings.TrimSpace(input.JobTitle),
		EmployerName:      strings.TrimSpace(input.EmployerName),
		Country:           strings.TrimSpace(input.Country),
		Status:            enums.JobOrderStatusPendingApproval,
		HeadcountRequired: input.HeadcountRequired,
		RequiresInterview: input.RequiresInterview,
		Description:       input.Description,
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "job order reference already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create job order")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id int64) (*models.JobOrder, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "job order id is required")
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "job order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup job order")
	}
	return row, nil
}

func (s *service) List(ctx context.Context, query ListQuery) ([]models.JobOrder, error) {
	if query.Status != nil && !query.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid job order status filter")
	}
	rows, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list job orders")
	}
	return rows, nil
}

func (s *service) UpdateStatus(ctx context.Context, id int64, status enums.JobOrderStatus) (*models.JobOrder, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid job order status")
	}
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == status {
		return order, nil
	}
	if !statusAllowed(order.Status, status) {
		return nil, pkgerrors.Newf(pkgerrors.CodeStateConflict,
			"job order cannot move from %s to %s", order.Status, status)
	}

	order.Status = status
	if err := s.repo.Update(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update job order status")
	}
	return order, nil
}

func statusAllowed(from, to enums.JobOrderStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func newJobOrderRef() string {
	return fmt.Sprintf("JO-%s", strings.ToUpper(uuid.NewString()[:8]))
}
