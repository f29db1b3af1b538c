package enums

import "fmt"

// MemberRole identifies the actor role carried in access-token claims. Role
// enforcement happens at the HTTP layer; core services accept an
// already-authorized caller.
type MemberRole string

const (
	MemberRoleApplicant       MemberRole = "applicant"
	MemberRoleOperationsStaff MemberRole = "operations_staff"
	MemberRoleFinance         MemberRole = "finance"
	MemberRoleAdmin           MemberRole = "admin"
)

var validMemberRoles = []MemberRole{
	MemberRoleApplicant,
	MemberRoleOperationsStaff,
	MemberRoleFinance,
	MemberRoleAdmin,
}

// String implements fmt.Stringer.
func (r MemberRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known MemberRole.
func (r MemberRole) IsValid() bool {
	for _, candidate := range validMemberRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseMemberRole converts raw input into a MemberRole.
func ParseMemberRole(value string) (MemberRole, error) {
	for _, candidate := range validMemberRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid member role %q", value)
}
