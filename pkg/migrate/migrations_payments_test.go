package migrate_test

import (
	"strings"
	"testing"
)

func TestPaymentsMigrationIsAppendOnly(t *testing.T) {
	content := readMigration(t, "*_create_payments.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS payments",
		"FOREIGN KEY (agreement_id) REFERENCES commission_agreements(id) ON DELETE RESTRICT",
		"FOREIGN KEY (reversal_of) REFERENCES payments(id) ON DELETE RESTRICT",
		"CHECK (is_reversal = (reversal_of IS NOT NULL))",
		"idx_payments_one_reversal_per_payment",
		"BEFORE UPDATE OR DELETE ON payments",
		"DROP TABLE IF EXISTS payments",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestAgreementsMigrationConstrainsAmounts(t *testing.T) {
	content := readMigration(t, "*_create_commission_agreements.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS commission_agreements",
		"CHECK (total_commission_amount > 0)",
		"CHECK (required_downpayment_amount <= total_commission_amount)",
		"idx_commission_agreements_one_active_per_assignment",
		"WHERE status = 'active'",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
