package controllers

import (
	"net/http"

	"github.com/roms-agency/roms-backend/api/responses"
	"github.com/roms-agency/roms-backend/api/validators"
	"github.com/roms-agency/roms-backend/internal/joborders"
	"github.com/roms-agency/roms-backend/pkg/enums"
	pkgerrors "github.com/roms-agency/roms-backend/pkg/errors"
	"github.com/roms-agency/roms-backend/pkg/logger"
)

type jobOrderCreateRequest struct {
	JobTitle          string  `json:"job_title" validate:"required,min=1"`
	EmployerName      string  `json:"employer_name" validate:"required,min=1"`
	Country           string  `json:"country,omitempty"`
	HeadcountRequired int     `json:"headcount_required" validate:"required,gt=0"`
	RequiresInterview bool    `json:"requires_interview,omitempty"`
	Description       *string `json:"description,omitempty"`
}

// JobOrderCreate registers a new employer demand in pending_approval.
func JobOrderCreate(svc joborders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload jobOrderCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Create(r.Context(), joborders.CreateInput{
			JobTitle:          payload.JobTitle,
			EmployerName:      payload.EmployerName,
			Country:           payload.Country,
			HeadcountRequired: payload.HeadcountRequired,
			RequiresInterview: payload.RequiresInterview,
			Description:       payload.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// JobOrderGet returns one job order.
func JobOrderGet(svc joborders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "jobOrderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// JobOrderList returns job orders, optionally filtered by status.
func JobOrderList(svc joborders.Service, logg *logger.Logger) http.HandlerFunc {
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

		query := joborders.ListQuery{Limit: limit, Offset: offset}
		if raw := r.URL.Query().Get("status"); raw != "" {
			status, err := enums.ParseJobOrderStatus(raw)
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

type jobOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// JobOrderUpdateStatus moves a job order through its lifecycle.
func JobOrderUpdateStatus(svc joborders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "jobOrderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload jobOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseJobOrderStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		order, err := svc.UpdateStatus(r.Context(), id, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
