package candidates

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/roms-agency/roms-backend/pkg/db"
	"github.com/roms-agency/roms-backend/pkg/db/models"
	"github.com/roms-agency/roms-backend/pkg/enums"
	pkgerrors "github.com/roms-agency/roms-backend/pkg/errors"
)

type candidatesRepository interface {
	Create(ctx context.Context, candidate *models.Candidate) (*models.Candidate, error)
	FindByID(ctx context.Context, id int64) (*models.Candidate, error)
	FindByRef(ctx context.Context, ref string) (*models.Candidate, error)
	List(ctx context.Context, query ListQuery) ([]models.Candidate, error)
	Update(ctx context.Context, candidate *models.Candidate) error
}

// Service exposes candidate intake and lookups.
type Service interface {
	Apply(ctx context.Context, input ApplyInput) (*models.Candidate, error)
	Get(ctx context.Context, id int64) (*models.Candidate, error)
	List(ctx context.Context, query ListQuery) ([]models.Candidate, error)
	UpdateProfile(ctx context.Context, id int64, input ProfileInput) (*models.Candidate, error)
}

// ApplyInput is the intake payload; the new candidate always starts in
// application_submitted.
type ApplyInput struct {
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	PassportNumber *string
	PassportExpiry *time.Time
}

// ProfileInput carries the mutable profile fields. The lifecycle status is
// owned by the workflow service and is not touchable here.
type ProfileInput struct {
	Phone          *string
	PassportNumber *string
	PassportExpiry *time.Time
	InterviewDate  *time.Time
}

type service struct {
	repo candidatesRepository
}

// NewService builds a candidate service.
func NewService(repo candidatesRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("candidate repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Apply(ctx context.Context, input ApplyInput) (*models.Candidate, error) {
	if strings.TrimSpace(input.FirstName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "first_name is required")
	}
	if strings.TrimSpace(input.LastName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "last_name is required")
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	candidate := &models.Candidate{
		InternalRefNo:  newInternalRef(),
		FirstName:      strings.TrimSpace(input.FirstName),
		LastName:       strings.TrimSpace(input.LastName),
		Email:          strings.TrimSpace(input.Email),
		Phone:          strings.TrimSpace(input.Phone),
		PassportNumber: input.PassportNumber,
		PassportExpiry: input.PassportExpiry,
		CurrentStatus:  enums.CandidateStatusApplicationSubmitted,
		ExpiryFlag:     enums.ExpiryFlagNone,
		IsActive:       true,
	}

	created, err := s.repo.Create(ctx, candidate)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "candidate reference already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create candidate")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id int64) (*models.Candidate, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "candidate id is required")
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "candidate not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup candidate")
	}
	return row, nil
}

func (s *service) List(ctx context.Context, query ListQuery) ([]models.Candidate, error) {
	if query.Status != nil && !query.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid candidate status filter")
	}
	rows, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list candidates")
	}
	return rows, nil
}

func (s *service) UpdateProfile(ctx context.Context, id int64, input ProfileInput) (*models.Candidate, error) {
	candidate, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Phone != nil {
		candidate.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.PassportNumber != nil {
		candidate.PassportNumber = input.PassportNumber
	}
	if input.PassportExpiry != nil {
		candidate.PassportExpiry = input.PassportExpiry
	}
	if input.InterviewDate != nil {
		candidate.InterviewDate = input.InterviewDate
	}

	if err := s.repo.Update(ctx, candidate); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update candidate")
	}
	return candidate, nil
}

func newInternalRef() string {
	return fmt.Sprintf("CND-%s", strings.ToUpper(uuid.NewString()[:8]))
}
