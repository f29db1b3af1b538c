package controllers

import (
	"net/http"

	"github.com/roms-agency/roms-backend/api/responses"
	"github.com/roms-agency/roms-backend/api/validators"
	"github.com/roms-agency/roms-backend/internal/assignments"
	"github.com/roms-agency/roms-backend/pkg/logger"
)

type assignmentCreateRequest struct {
	CandidateID int64   `json:"candidate_id" validate:"required,gt=0"`
	JobOrderID  int64   `json:"job_order_id" validate:"required,gt=0"`
	Notes       *string `json:"notes,omitempty"`
}

// AssignmentCreate binds a candidate to a job order.
func AssignmentCreate(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload assignmentCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		assignment, err := svc.Create(r.Context(), assignments.CreateInput{
			CandidateID: payload.CandidateID,
			JobOrderID:  payload.JobOrderID,
			Notes:       payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, assignment)
	}
}

// AssignmentCancel deactivates an assignment and reopens its job order when
// the headcount drops below required.
func AssignmentCancel(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "assignmentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		assignment, err := svc.Cancel(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, assignment)
	}
}

// AssignmentIssueOffer stamps the offer timestamp.
func AssignmentIssueOffer(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "assignmentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		assignment, err := svc.IssueOffer(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, assignment)
	}
}

// AssignmentConfirmPlacement stamps placement after an offer was issued.
func AssignmentConfirmPlacement(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "assignmentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		assignment, err := svc.ConfirmPlacement(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, assignment)
	}
}

// AssignmentList returns assignments filtered by candidate, job order, and
// activity.
func AssignmentList(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
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

		query := assignments.ListQuery{
			ActiveOnly: r.URL.Query().Get("active") == "true",
			Limit:      limit,
			Offset:     offset,
		}
		if candidateID, err := validators.ParseQueryInt(r, "candidate_id", 0, 0, 1<<30); err == nil && candidateID > 0 {
			id := int64(candidateID)
			query.CandidateID = &id
		}
		if jobOrderID, err := validators.ParseQueryInt(r, "job_order_id", 0, 0, 1<<30); err == nil && jobOrderID > 0 {
			id := int64(jobOrderID)
			query.JobOrderID = &id
		}

		rows, err := svc.List(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
