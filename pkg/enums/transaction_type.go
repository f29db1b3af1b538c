package enums

import "fmt"

// TransactionType categorizes immutable commission ledger entries.
type TransactionType string

const (
	// TransactionTypeDownpayment is the initial payment toward the agency
	// commission; it must be complete before visa processing can begin.
	TransactionTypeDownpayment TransactionType = "downpayment"
	// TransactionTypeInstallment is any payment toward the remaining balance
	// after the downpayment.
	TransactionTypeInstallment TransactionType = "installment"
	// TransactionTypeReversal is an equal-and-opposite correction entry linked
	// to an original payment. The original is never mutated.
	TransactionTypeReversal TransactionType = "reversal"
)

var validTransactionTypes = []TransactionType{
	TransactionTypeDownpayment,
	TransactionTypeInstallment,
	TransactionTypeReversal,
}

// String implements fmt.Stringer.
func (t TransactionType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TransactionType.
func (t TransactionType) IsValid() bool {
	for _, candidate := range validTransactionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTransactionType converts raw input into a TransactionType.
func ParseTransactionType(value string) (TransactionType, error) {
	for _, candidate := range validTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction type %q", value)
}
