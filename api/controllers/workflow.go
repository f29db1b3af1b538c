package controllers

import (
	"net/http"

	"github.com/roms-agency/roms-backend/api/responses"
	"github.com/roms-agency/roms-backend/api/validators"
	"github.com/roms-agency/roms-backend/internal/workflow"
	"github.com/roms-agency/roms-backend/pkg/enums"
	pkgerrors "github.com/roms-agency/roms-backend/pkg/errors"
	"github.com/roms-agency/roms-backend/pkg/logger"
)

type transitionRequest struct {
	Target string `json:"target" validate:"required"`
}

// WorkflowTransition moves a candidate to the requested status.
func WorkflowTransition(svc workflow.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		candidateID, err := urlID(r, "candidateID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload transitionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		target, err := enums.ParseCandidateStatus(payload.Target)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid target status"))
			return
		}

		candidate, err := svc.Transition(r.Context(), candidateID, target)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, candidate)
	}
}

// WorkflowCheck answers whether a transition is currently allowed and, when it
// is not, why.
func WorkflowCheck(svc workflow.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		candidateID, err := urlID(r, "candidateID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		target, err := enums.ParseCandidateStatus(r.URL.Query().Get("target"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid target status"))
			return
		}

		reason, err := svc.BlockReason(r.Context(), candidateID, target)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"target":       target,
			"allowed":      reason == "",
			"block_reason": reason,
		})
	}
}

// WorkflowReviewDocuments concludes review per the sufficiency evaluator.
func WorkflowReviewDocuments(svc workflow.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		candidateID, err := urlID(r, "candidateID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		candidate, err := svc.ReviewDocuments(r.Context(), candidateID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, candidate)
	}
}

// WorkflowAcceptOffer records the candidate's acceptance of an issued offer.
func WorkflowAcceptOffer(svc workflow.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		candidateID, err := urlID(r, "candidateID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := requireSelfOrStaff(r, candidateID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		candidate, err := svc.AcceptOffer(r.Context(), candidateID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, candidate)
	}
}
