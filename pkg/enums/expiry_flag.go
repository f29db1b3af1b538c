package enums

import "fmt"

// ExpiryFlag is set by the daily expiry sweep when a candidate's passport or
// medical certificate is near or past its expiry date.
type ExpiryFlag string

const (
	ExpiryFlagNone         ExpiryFlag = "none"
	ExpiryFlagExpiringSoon ExpiryFlag = "expiring_soon"
	ExpiryFlagExpired      ExpiryFlag = "expired"
)

var validExpiryFlags = []ExpiryFlag{
	ExpiryFlagNone,
	ExpiryFlagExpiringSoon,
	ExpiryFlagExpired,
}

// String implements fmt.Stringer.
func (f ExpiryFlag) String() string {
	return string(f)
}

// IsValid reports whether the value is a known ExpiryFlag.
func (f ExpiryFlag) IsValid() bool {
	for _, candidate := range validExpiryFlags {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseExpiryFlag converts raw input into an ExpiryFlag.
func ParseExpiryFlag(value string) (ExpiryFlag, error) {
	for _, candidate := range validExpiryFlags {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid expiry flag %q", value)
}
