package documents

import (
	"context"
	"fmt"
	"time"

	pkgerrors "github.com/roms-agency/roms-backend/pkg/errors"

	"github.com/roms-agency/roms-backend/pkg/db/models"
	"github.com/roms-agency/roms-backend/pkg/enums"
)

// reviewRequiredTypes are the documents a candidate must have uploaded before
// review can conclude. Order fixes the order of Missing items.
var reviewRequiredTypes = []enums.DocumentType{
	enums.DocumentTypePassport,
	enums.DocumentTypeCV,
	enums.DocumentTypeEducationalCertificate,
}

// Evaluation is the sufficiency verdict for one candidate. Missing lists every
// unmet item; MissingDocuments is the subset that are absent uploads.
type Evaluation struct {
	Sufficient       bool
	Missing          []string
	MissingDocuments []string
	PassportValid    bool
}

type documentLister interface {
	ListByCandidate(ctx context.Context, candidateID int64) ([]models.CandidateDocument, error)
}

// Evaluator decides whether a candidate's uploaded documents are sufficient
// for document approval.
type Evaluator struct {
	repo              documentLister
	minValidityMonths int
	now               func() time.Time
}

// NewEvaluator builds an evaluator. minValidityMonths is the minimum remaining
// passport validity required for approval.
func NewEvaluator(repo documentLister, minValidityMonths int) (*Evaluator, error) {
	if repo == nil {
		return nil, fmt.Errorf("document repository required")
	}
	if minValidityMonths <= 0 {
		return nil, fmt.Errorf("minimum passport validity months must be positive")
	}
	return &Evaluator{
		repo:              repo,
		minValidityMonths: minValidityMonths,
		now:               time.Now,
	}, nil
}

// Evaluate returns the sufficiency verdict for the candidate. Missing lists
// every unmet item in a fixed, human-readable order.
func (e *Evaluator) Evaluate(ctx context.Context, candidate models.Candidate) (Evaluation, error) {
	docs, err := e.repo.ListByCandidate(ctx, candidate.ID)
	if err != nil {
		return Evaluation{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list candidate documents")
	}

	have := make(map[enums.DocumentType]struct{}, len(docs))
	for _, d := range docs {
		have[d.DocType] = struct{}{}
	}

	eval := Evaluation{}
	for _, required := range reviewRequiredTypes {
		if _, ok := have[required]; !ok {
			eval.MissingDocuments = append(eval.MissingDocuments, required.DisplayName())
		}
	}
	eval.Missing = append(eval.Missing, eval.MissingDocuments...)

	expiry := passportExpiry(candidate, docs)
	switch {
	case expiry == nil:
		eval.Missing = append(eval.Missing, "Passport expiry date")
	case expiry.After(e.now().AddDate(0, e.minValidityMonths, 0)):
		eval.PassportValid = true
	default:
		eval.Missing = append(eval.Missing,
			fmt.Sprintf("Passport valid for at least %d months", e.minValidityMonths))
	}

	eval.Sufficient = len(eval.Missing) == 0
	return eval, nil
}

// passportExpiry prefers the expiry recorded on the uploaded passport
// document; the intake-time candidate field is the fallback.
func passportExpiry(candidate models.Candidate, docs []models.CandidateDocument) *time.Time {
	for _, d := range docs {
		if d.DocType == enums.DocumentTypePassport && d.ExpiryDate != nil {
			return d.ExpiryDate
		}
	}
	return candidate.PassportExpiry
}
