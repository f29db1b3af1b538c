package enums

import "fmt"

// PaymentDirection records the signed side of a ledger entry. Debit entries
// add to the total paid, credit entries subtract.
type PaymentDirection string

const (
	PaymentDirectionDebit  PaymentDirection = "debit"
	PaymentDirectionCredit PaymentDirection = "credit"
)

var validPaymentDirections = []PaymentDirection{
	PaymentDirectionDebit,
	PaymentDirectionCredit,
}

// String implements fmt.Stringer.
func (d PaymentDirection) String() string {
	return string(d)
}

// IsValid reports whether the value is a known PaymentDirection.
func (d PaymentDirection) IsValid() bool {
	for _, candidate := range validPaymentDirections {
		if candidate == d {
			return true
		}
	}
	return false
}

// Opposite returns the other direction.
func (d PaymentDirection) Opposite() PaymentDirection {
	if d == PaymentDirectionDebit {
		return PaymentDirectionCredit
	}
	return PaymentDirectionDebit
}

// ParsePaymentDirection converts raw input into a PaymentDirection.
func ParsePaymentDirection(value string) (PaymentDirection, error) {
	for _, candidate := range validPaymentDirections {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment direction %q", value)
}
