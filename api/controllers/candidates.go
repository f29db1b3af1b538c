package controllers

import (
	"net/http"
	"time"

	"github.com/roms-agency/roms-backend/api/middleware"
	"github.com/roms-agency/roms-backend/api/responses"
	"github.com/roms-agency/roms-backend/api/validators"
	"github.com/roms-agency/roms-backend/internal/candidates"
	"github.com/roms-agency/roms-backend/pkg/enums"
	pkgerrors "github.com/roms-agency/roms-backend/pkg/errors"
	"github.com/roms-agency/roms-backend/pkg/logger"
)

type candidateApplyRequest struct {
	FirstName      string     `json:"first_name" validate:"required,min=1"`
	LastName       string     `json:"last_name" validate:"required,min=1"`
	Email          string     `json:"email" validate:"required,email"`
	Phone          string     `json:"phone,omitempty"`
	PassportNumber *string    `json:"passport_number,omitempty"`
	PassportExpiry *time.Time `json:"passport_expiry,omitempty"`
}

// CandidateApply creates a new candidate from a job application.
func CandidateApply(svc candidates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload candidateApplyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		candidate, err := svc.Apply(r.Context(), candidates.ApplyInput{
			FirstName:      payload.FirstName,
			LastName:       payload.LastName,
			Email:          payload.Email,
			Phone:          payload.Phone,
			PassportNumber: payload.PassportNumber,
			PassportExpiry: payload.PassportExpiry,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, candidate)
	}
}

// CandidateGet returns one candidate. Applicant tokens may only read their
// own record.
func CandidateGet(svc candidates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "candidateID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := requireSelfOrStaff(r, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		candidate, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, candidate)
	}
}

// CandidateList returns candidates filtered by status and activity.
func CandidateList(svc candidates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := candidates.ListQuery{
			ActiveOnly: r.URL.Query().Get("active") == "true",
			Limit:      limit,
			Offset:     offset,
		}
		if raw := r.URL.Query().Get("status"); raw != "" {
			status, err := enums.ParseCandidateStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			query.Status = &status
		}

		rows, err := svc.List(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

type candidateProfileRequest struct {
	Phone          *string    `json:"phone,omitempty"`
	PassportNumber *string    `json:"passport_number,omitempty"`
	PassportExpiry *time.Time `json:"passport_expiry,omitempty"`
	InterviewDate  *time.Time `json:"interview_date,omitempty"`
}

// CandidateUpdateProfile mutates profile fields only; lifecycle status is
// owned by the workflow endpoints.
func CandidateUpdateProfile(svc candidates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "candidateID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := requireSelfOrStaff(r, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload candidateProfileRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		candidate, err := svc.UpdateProfile(r.Context(), id, candidates.ProfileInput{
			Phone:          payload.Phone,
			PassportNumber: payload.PassportNumber,
			PassportExpiry: payload.PassportExpiry,
			InterviewDate:  payload.InterviewDate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, candidate)
	}
}

// requireSelfOrStaff rejects applicant tokens that target another candidate.
func requireSelfOrStaff(r *http.Request, candidateID int64) error {
	role := middleware.RoleFromContext(r.Context())
	if role != string(enums.MemberRoleApplicant) {
		return nil
	}
	if middleware.CandidateIDFromContext(r.Context()) != candidateID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "applicants may only access their own record")
	}
	return nil
}
