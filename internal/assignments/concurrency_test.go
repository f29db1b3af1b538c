package assignments

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	pkgerrors "github.com/roms-agency/roms-backend/pkg/errors"
	"github.com/roms-agency/roms-backend/pkg/migrate"
)

// The partial unique index on active assignments and the FOR UPDATE capacity
// check are Postgres behavior that sqlite cannot exercise. These tests run
// only when ROMS_TEST_POSTGRES_DSN points at a scratch database.
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("ROMS_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("ROMS_TEST_POSTGRES_DSN not set")
	}
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("unwrap sql db: %v", err)
	}
	if err := migrate.Run(context.Background(), sqlDB, "../../pkg/migrate/migrations", "up"); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	err = conn.Exec("TRUNCATE payments, commission_agreements, assignments, job_orders, candidates RESTART IDENTITY CASCADE").Error
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return conn
}

func TestConcurrentCreate_SingleActivePerCandidate(t *testing.T) {
	conn := newPostgresDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	candidate := seedCandidate(t, conn, "CND-PG1")

	// Distinct job orders so the contention is on the candidate, not the
	// job order row lock: the partial unique index is the last line.
	const workers = 4
	orderIDs := make([]int64, workers)
	for i := range orderIDs {
		orderIDs[i] = seedJobOrder(t, conn, fmt.Sprintf("JO-PG1-%d", i), 1).ID
	}

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(ctx, CreateInput{
				CandidateID: candidate.ID,
				JobOrderID:  orderIDs[i],
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
			t.Fatalf("losing writer should see a conflict, got %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly one active assignment, got %d successes", successes)
	}

	var active int64
	if err := conn.Table("assignments").
		Where("candidate_id = ? AND is_active", candidate.ID).Count(&active).Error; err != nil {
		t.Fatalf("count active: %v", err)
	}
	if active != 1 {
		t.Fatalf("expected one active row, got %d", active)
	}
}

func TestConcurrentCreate_CapacitySerializedOnJobOrder(t *testing.T) {
	conn := newPostgresDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	order := seedJobOrder(t, conn, "JO-PG2", 1)

	const workers = 4
	candidateIDs := make([]int64, workers)
	for i := range candidateIDs {
		candidateIDs[i] = seedCandidate(t, conn, fmt.Sprintf("CND-PG2-%d", i)).ID
	}

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(ctx, CreateInput{
				CandidateID: candidateIDs[i],
				JobOrderID:  order.ID,
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		}
	}
	if successes != 1 {
		t.Fatalf("headcount 1 must admit exactly one assignment, got %d", successes)
	}

	var status string
	if err := conn.Table("job_orders").Select("status").
		Where("id = ?", order.ID).Scan(&status).Error; err != nil {
		t.Fatalf("reload job order: %v", err)
	}
	if status != "filled" {
		t.Fatalf("job order should be filled at capacity, got %s", status)
	}
}
