package commission

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/roms-agency/roms-backend/pkg/migrate"
)

// Installment recorders serialize on the agreement row lock; sqlite cannot
// exercise that. Runs only when ROMS_TEST_POSTGRES_DSN points at a scratch
// database.
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

func TestConcurrentInstallments_NeverOverpay(t *testing.T) {
	conn := newPostgresDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	// Total 100000, downpayment 40000: 60000 outstanding admits exactly
	// three 20000 installments out of four concurrent attempts.
	agreement := seedAgreement(t, conn, svc, 100000, 40000)
	if _, err := svc.RecordDownpayment(ctx, PaymentInput{
		AgreementID: agreement.ID,
		Amount:      decimal.NewFromInt(40000),
	}); err != nil {
		t.Fatalf("record downpayment: %v", err)
	}

	const workers = 4
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.RecordInstallment(ctx, PaymentInput{
				AgreementID: agreement.ID,
				Amount:      decimal.NewFromInt(20000),
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
	if successes != 3 {
		t.Fatalf("expected three installments to land, got %d", successes)
	}

	statement, err := svc.Statement(ctx, agreement.CandidateID, agreement.ID)
	if err != nil {
		t.Fatalf("statement: %v", err)
	}
	if !statement.TotalPaid.Equal(decimal.NewFromInt(100000)) {
		t.Fatalf("ledger must sum to the total, got %s", statement.TotalPaid)
	}
	if !statement.OutstandingBalance.IsZero() {
		t.Fatalf("expected zero outstanding, got %s", statement.OutstandingBalance)
	}
	if !statement.FullyPaid {
		t.Fatalf("statement should report fully paid")
	}
}
