package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/roms-agency/roms-backend/pkg/db/models"
	"github.com/roms-agency/roms-backend/pkg/enums"
	pkgerrors "github.com/roms-agency/roms-backend/pkg/errors"
)

type documentsRepository interface {
	Create(ctx context.Context, doc *models.CandidateDocument) (*models.CandidateDocument, error)
	ListByCandidate(ctx context.Context, candidateID int64) ([]models.CandidateDocument, error)
	FindByID(ctx context.Context, id int64) (*models.CandidateDocument, error)
	Delete(ctx context.Context, id int64) error
}

type candidateFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Candidate, error)
}

// Service exposes document metadata upload, listing, and deletion.
type Service interface {
	UploadMetadata(ctx context.Context, input UploadInput) (*models.CandidateDocument, error)
	List(ctx context.Context, candidateID int64) ([]models.CandidateDocument, error)
	DeleteMetadata(ctx context.Context, documentID int64) error
}

// UploadInput holds the metadata recorded after the external store accepted
// the bytes.
type UploadInput struct {
	CandidateID int64
	DocType     enums.DocumentType
	StorageKey  string
	FileName    string
	ExpiryDate  *time.Time
	UploadedBy  *int64
}

type service struct {
	repo       documentsRepository
	candidates candidateFinder
}

// NewService builds a document service backed by the provided repositories.
func NewService(repo documentsRepository, candidates candidateFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("document repository required")
	}
	if candidates == nil {
		return nil, fmt.Errorf("candidate repository required")
	}
	return &service{repo: repo, candidates: candidates}, nil
}

func (s *service) UploadMetadata(ctx context.Context, input UploadInput) (*models.CandidateDocument, error) {
	if input.CandidateID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "candidate_id is required")
	}
	if !input.DocType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid document type")
	}
	if strings.TrimSpace(input.StorageKey) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "storage_key is required")
	}
	if strings.TrimSpace(input.FileName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file_name is required")
	}

	if _, err := s.candidates.FindByID(ctx, input.CandidateID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "candidate not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup candidate")
	}

	doc := &models.CandidateDocument{
		CandidateID: input.CandidateID,
		DocType:     input.DocType,
		StorageKey:  strings.TrimSpace(input.StorageKey),
		FileName:    strings.TrimSpace(input.FileName),
		ExpiryDate:  input.ExpiryDate,
		UploadedBy:  input.UploadedBy,
	}

	created, err := s.repo.Create(ctx, doc)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create document metadata")
	}
	return created, nil
}

func (s *service) List(ctx context.Context, candidateID int64) ([]models.CandidateDocument, error) {
	if candidateID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "candidate_id is required")
	}
	rows, err := s.repo.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list documents")
	}
	return rows, nil
}

func (s *service) DeleteMetadata(ctx context.Context, documentID int64) error {
	if documentID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "document id is required")
	}
	if _, err := s.repo.FindByID(ctx, documentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "document not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup document")
	}
	if err := s.repo.Delete(ctx, documentID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete document metadata")
	}
	return nil
}
