package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/roms-agency/roms-backend/pkg/db/models"
	"github.com/roms-agency/roms-backend/pkg/enums"
	"github.com/roms-agency/roms-backend/pkg/logger"
)

const defaultWarningDays = 90

// ExpiryJobParams configures the document expiry sweep.
type ExpiryJobParams struct {
	Logger        *logger.Logger
	DB            txRunner
	CandidateRepo candidateExpiryRepository
	WarningDays   int
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type candidateExpiryRepository interface {
	ListActiveWithExpiries(ctx context.Context) ([]models.Candidate, error)
	FindByIDLockedWithTx(tx *gorm.DB, id int64) (*models.Candidate, error)
	UpdateWithTx(tx *gorm.DB, candidate *models.Candidate) error
}

// NewExpiryJob constructs the daily passport/medical expiry sweep.
func NewExpiryJob(params ExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.CandidateRepo == nil {
		return nil, fmt.Errorf("candidate repository required")
	}
	warningDays := params.WarningDays
	if warningDays <= 0 {
		warningDays = defaultWarningDays
	}
	return &expiryJob{
		logg:          params.Logger,
		db:            params.DB,
		candidateRepo: params.CandidateRepo,
		warningDays:   warningDays,
		now:           time.Now,
	}, nil
}

type expiryJob struct {
	logg          *logger.Logger
	db            txRunner
	candidateRepo candidateExpiryRepository
	warningDays   int
	now           func() time.Time
}

func (j *expiryJob) Name() string { return "expiry-monitor" }

// Run flags active candidates whose passport or medical certificate is expired
// or expiring within the warning window. Each candidate is re-read under a row
// lock so the sweep cannot race a concurrent workflow transition.
func (j *expiryJob) Run(ctx context.Context) error {
	candidates, err := j.candidateRepo.ListActiveWithExpiries(ctx)
	if err != nil {
		return fmt.Errorf("query candidates with expiries: %w", err)
	}

	now := j.now().UTC()
	flagged := 0
	var errs []error
	for _, candidate := range candidates {
		updated, err := j.sweepCandidate(ctx, candidate.ID, now)
		if err != nil {
			errs = append(errs, fmt.Errorf("candidate %d: %w", candidate.ID, err))
			continue
		}
		if updated {
			flagged++
		}
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"scanned": len(candidates),
		"flagged": flagged,
	})
	j.logg.Info(logCtx, "expiry sweep complete")
	return multierr.Combine(errs...)
}

func (j *expiryJob) sweepCandidate(ctx context.Context, id int64, now time.Time) (bool, error) {
	updated := false
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		candidate, err := j.candidateRepo.FindByIDLockedWithTx(tx, id)
		if err != nil {
			return err
		}
		flag := j.flagFor(*candidate, now)
		if flag == candidate.ExpiryFlag {
			return nil
		}
		candidate.ExpiryFlag = flag
		if err := j.candidateRepo.UpdateWithTx(tx, candidate); err != nil {
			return err
		}
		updated = true
		return nil
	})
	return updated, err
}

// flagFor grades the worst of the candidate's tracked expiry dates. Expired
// beats expiring_soon; dates outside the warning window clear the flag.
func (j *expiryJob) flagFor(candidate models.Candidate, now time.Time) enums.ExpiryFlag {
	cutoff := now.AddDate(0, 0, j.warningDays)
	flag := enums.ExpiryFlagNone
	for _, expiry := range []*time.Time{candidate.PassportExpiry, candidate.MedicalExpiry} {
		if expiry == nil {
			continue
		}
		switch {
		case !expiry.After(now):
			return enums.ExpiryFlagExpired
		case !expiry.After(cutoff):
			flag = enums.ExpiryFlagExpiringSoon
		}
	}
	return flag
}
