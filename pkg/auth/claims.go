package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/roms-agency/roms-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID int64
	Role   enums.MemberRole
	// CandidateID is set for applicant tokens so self-access checks can
	// compare without a user lookup.
	CandidateID *int64
	JTI         string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID      int64            `json:"user_id"`
	Role        enums.MemberRole `json:"role"`
	CandidateID *int64           `json:"candidate_id,omitempty"`
	jwt.RegisteredClaims
}
