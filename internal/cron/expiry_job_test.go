package cron

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/roms-agency/roms-backend/internal/candidates"
	"github.com/roms-agency/roms-backend/pkg/db/models"
	"github.com/roms-agency/roms-backend/pkg/enums"
	"github.com/roms-agency/roms-backend/pkg/logger"
)

type sqliteTxRunner struct {
	db *gorm.DB
}

func (r *sqliteTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type expiryJobHelper struct {
	conn *gorm.DB
	job  *expiryJob
}

func createExpiryJobTest(t *testing.T) *expiryJobHelper {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Candidate{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	job, err := NewExpiryJob(ExpiryJobParams{
		Logger:        logger.New(logger.Options{ServiceName: "test"}),
		DB:            &sqliteTxRunner{db: conn},
		CandidateRepo: candidates.NewRepository(conn),
		WarningDays:   90,
	})
	if err != nil {
		t.Fatalf("new expiry job: %v", err)
	}
	return &expiryJobHelper{conn: conn, job: job.(*expiryJob)}
}

func (h *expiryJobHelper) seedCandidate(t *testing.T, idx int, passportExpiry, medicalExpiry *time.Time) *models.Candidate {
	t.Helper()
	candidate := &models.Candidate{
		InternalRefNo:  fmt.Sprintf("CND-SWEEP-%02d", idx),
		FirstName:      "Test",
		LastName:       "Candidate",
		Email:          fmt.Sprintf("sweep%02d@example.com", idx),
		CurrentStatus:  enums.CandidateStatusVisaProcessing,
		ExpiryFlag:     enums.ExpiryFlagNone,
		IsActive:       true,
		PassportExpiry: passportExpiry,
		MedicalExpiry:  medicalExpiry,
	}
	if err := h.conn.Create(candidate).Error; err != nil {
		t.Fatalf("seed candidate: %v", err)
	}
	return candidate
}

func (h *expiryJobHelper) reload(t *testing.T, id int64) models.Candidate {
	t.Helper()
	var row models.Candidate
	if err := h.conn.First(&row, "id = ?", id).Error; err != nil {
		t.Fatalf("reload candidate: %v", err)
	}
	return row
}

func ptrDate(base time.Time, days int) *time.Time {
	d := base.AddDate(0, 0, days)
	return &d
}

func TestExpiryJob_FlagsExpiredAndExpiringSoon(t *testing.T) {
	helper := createExpiryJobTest(t)
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	helper.job.now = func() time.Time { return now }

	expired := helper.seedCandidate(t, 1, ptrDate(now, -2), nil)
	soon := helper.seedCandidate(t, 2, ptrDate(now, 400), ptrDate(now, 30))
	fine := helper.seedCandidate(t, 3, ptrDate(now, 400), ptrDate(now, 200))

	if err := helper.job.Run(context.Background()); err != nil {
		t.Fatalf("run sweep: %v", err)
	}

	if got := helper.reload(t, expired.ID).ExpiryFlag; got != enums.ExpiryFlagExpired {
		t.Fatalf("expected expired flag, got %s", got)
	}
	if got := helper.reload(t, soon.ID).ExpiryFlag; got != enums.ExpiryFlagExpiringSoon {
		t.Fatalf("expected expiring_soon flag, got %s", got)
	}
	if got := helper.reload(t, fine.ID).ExpiryFlag; got != enums.ExpiryFlagNone {
		t.Fatalf("expected none flag, got %s", got)
	}
}

func TestExpiryJob_ExpiredOutranksExpiringSoon(t *testing.T) {
	helper := createExpiryJobTest(t)
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	helper.job.now = func() time.Time { return now }

	candidate := helper.seedCandidate(t, 1, ptrDate(now, 30), ptrDate(now, -5))

	if err := helper.job.Run(context.Background()); err != nil {
		t.Fatalf("run sweep: %v", err)
	}
	if got := helper.reload(t, candidate.ID).ExpiryFlag; got != enums.ExpiryFlagExpired {
		t.Fatalf("expired must outrank expiring_soon, got %s", got)
	}
}

func TestExpiryJob_ClearsStaleFlag(t *testing.T) {
	helper := createExpiryJobTest(t)
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	helper.job.now = func() time.Time { return now }

	candidate := helper.seedCandidate(t, 1, ptrDate(now, 400), nil)
	if err := helper.conn.Model(&models.Candidate{}).
		Where("id = ?", candidate.ID).
		Update("expiry_flag", enums.ExpiryFlagExpiringSoon).Error; err != nil {
		t.Fatalf("set stale flag: %v", err)
	}

	if err := helper.job.Run(context.Background()); err != nil {
		t.Fatalf("run sweep: %v", err)
	}
	if got := helper.reload(t, candidate.ID).ExpiryFlag; got != enums.ExpiryFlagNone {
		t.Fatalf("stale flag should clear after renewal, got %s", got)
	}
}

func TestExpiryJob_SkipsInactiveCandidates(t *testing.T) {
	helper := createExpiryJobTest(t)
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	helper.job.now = func() time.Time { return now }

	candidate := helper.seedCandidate(t, 1, ptrDate(now, -10), nil)
	if err := helper.conn.Model(&models.Candidate{}).
		Where("id = ?", candidate.ID).
		Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate candidate: %v", err)
	}

	if err := helper.job.Run(context.Background()); err != nil {
		t.Fatalf("run sweep: %v", err)
	}
	if got := helper.reload(t, candidate.ID).ExpiryFlag; got != enums.ExpiryFlagNone {
		t.Fatalf("inactive candidates must be skipped, got %s", got)
	}
}
