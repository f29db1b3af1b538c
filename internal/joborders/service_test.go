package joborders

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/roms-agency/roms-backend/pkg/db/models"
	"github.com/roms-agency/roms-backend/pkg/enums"
	pkgerrors "github.com/roms-agency/roms-backend/pkg/errors"
)

type stubJobOrdersRepo struct {
	created   *models.JobOrder
	createErr error
	rows      map[int64]*models.JobOrder
	updated   *models.JobOrder
	updateErr error
}

func (s *stubJobOrdersRepo) Create(ctx context.Context, order *models.JobOrder) (*models.JobOrder, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	order.ID = 1
	s.created = order
	return order, nil
}

func (s *stubJobOrdersRepo) FindByID(ctx context.Context, id int64) (*models.JobOrder, error) {
	if row, ok := s.rows[id]; ok {
		return row, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubJobOrdersRepo) List(ctx context.Context, query ListQuery) ([]models.JobOrder, error) {
	return nil, nil
}

func (s *stubJobOrdersRepo) Update(ctx context.Context, order *models.JobOrder) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updated = order
	return nil
}

func TestCreate_StartsPendingApproval(t *testing.T) {
	repo := &stubJobOrdersRepo{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	order, err := svc.Create(context.Background(), CreateInput{
		JobTitle:          "Household Manager",
		EmployerName:      "Al Noor Family",
		Country:           "UAE",
		HeadcountRequired: 3,
		RequiresInterview: true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if order.Status != enums.JobOrderStatusPendingApproval {
		t.Fatalf("expected pending_approval, got %s", order.Status)
	}
	if order.HeadcountFilled != 0 {
		t.Fatalf("expected zero filled, got %d", order.HeadcountFilled)
	}
}

func TestCreate_RejectsNonPositiveHeadcount(t *testing.T) {
	svc, err := NewService(&stubJobOrdersRepo{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Create(context.Background(), CreateInput{
		JobTitle:     "Driver",
		EmployerName: "Employer",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateStatus_AllowedEdge(t *testing.T) {
	repo := &stubJobOrdersRepo{rows: map[int64]*models.JobOrder{
		1: {ID: 1, Status: enums.JobOrderStatusPendingApproval},
	}}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	order, err := svc.UpdateStatus(context.Background(), 1, enums.JobOrderStatusOpen)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if order.Status != enums.JobOrderStatusOpen {
		t.Fatalf("expected open, got %s", order.Status)
	}
}

func TestUpdateStatus_RejectsIllegalEdge(t *testing.T) {
	repo := &stubJobOrdersRepo{rows: map[int64]*models.JobOrder{
		1: {ID: 1, Status: enums.JobOrderStatusClosed},
	}}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.UpdateStatus(context.Background(), 1, enums.JobOrderStatusOpen)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if repo.updated != nil {
		t.Fatal("rejected transition must not write")
	}
}
