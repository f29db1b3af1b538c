package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/roms-agency/roms-backend/api/middleware"
	"github.com/roms-agency/roms-backend/api/responses"
	"github.com/roms-agency/roms-backend/api/validators"
	"github.com/roms-agency/roms-backend/internal/commission"
	"github.com/roms-agency/roms-backend/pkg/logger"
)

type agreementCreateRequest struct {
	CandidateID               int64           `json:"candidate_id" validate:"required,gt=0"`
	AssignmentID              int64           `json:"assignment_id" validate:"required,gt=0"`
	TotalCommissionAmount     decimal.Decimal `json:"total_commission_amount" validate:"required"`
	RequiredDownpaymentAmount decimal.Decimal `json:"required_downpayment_amount" validate:"required"`
	Currency                  string          `json:"currency,omitempty"`
	Notes                     *string         `json:"notes,omitempty"`
}

// AgreementCreate opens a commission agreement for an assignment.
func AgreementCreate(svc commission.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload agreementCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := commission.CreateAgreementInput{
			CandidateID:               payload.CandidateID,
			AssignmentID:              payload.AssignmentID,
			TotalCommissionAmount:     payload.TotalCommissionAmount,
			RequiredDownpaymentAmount: payload.RequiredDownpaymentAmount,
			Currency:                  payload.Currency,
			Notes:                     payload.Notes,
		}
		if userID := middleware.UserIDFromContext(r.Context()); userID > 0 {
			input.CreatedBy = &userID
		}

		agreement, err := svc.CreateAgreement(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, agreement)
	}
}

type agreementSignRequest struct {
	SignedDocumentURL *string `json:"signed_document_url,omitempty"`
}

// AgreementSign marks an agreement as signed by the candidate.
func AgreementSign(svc commission.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlUUID(r, "agreementID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload agreementSignRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		agreement, err := svc.Sign(r.Context(), id, payload.SignedDocumentURL)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, agreement)
	}
}

type agreementCancelRequest struct {
	Reason string `json:"reason" validate:"required,min=1"`
}

// AgreementCancel voids an agreement that has not been completed.
func AgreementCancel(svc commission.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlUUID(r, "agreementID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload agreementCancelRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		agreement, err := svc.Cancel(r.Context(), id, payload.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, agreement)
	}
}

type agreementAmountsRequest struct {
	TotalCommissionAmount     decimal.Decimal `json:"total_commission_amount" validate:"required"`
	RequiredDownpaymentAmount decimal.Decimal `json:"required_downpayment_amount" validate:"required"`
}

// AgreementUpdateAmounts adjusts the amounts on an unsigned agreement.
func AgreementUpdateAmounts(svc commission.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlUUID(r, "agreementID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload agreementAmountsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		agreement, err := svc.UpdateAmounts(r.Context(), id, payload.TotalCommissionAmount, payload.RequiredDownpaymentAmount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, agreement)
	}
}

type paymentRequest struct {
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	PaymentMethod *string         `json:"payment_method,omitempty"`
	ExternalRef   *string         `json:"external_ref,omitempty"`
	Description   *string         `json:"description,omitempty"`
	PaymentDate   *time.Time      `json:"payment_date,omitempty"`
}

func (p paymentRequest) toInput(r *http.Request, agreementID uuid.UUID) commission.PaymentInput {
	input := commission.PaymentInput{
		AgreementID:   agreementID,
		Amount:        p.Amount,
		PaymentMethod: p.PaymentMethod,
		ExternalRef:   p.ExternalRef,
		Description:   p.Description,
	}
	if p.PaymentDate != nil {
		input.PaymentDate = *p.PaymentDate
	}
	if userID := middleware.UserIDFromContext(r.Context()); userID > 0 {
		input.RecordedBy = &userID
	}
	return input
}

// PaymentRecordDownpayment appends a downpayment entry to the ledger.
func PaymentRecordDownpayment(svc commission.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlUUID(r, "agreementID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload paymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payment, err := svc.RecordDownpayment(r.Context(), payload.toInput(r, id))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, payment)
	}
}

// PaymentRecordInstallment appends an installment entry to the ledger.
func PaymentRecordInstallment(svc commission.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlUUID(r, "agreementID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload paymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payment, err := svc.RecordInstallment(r.Context(), payload.toInput(r, id))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, payment)
	}
}

type paymentReversalRequest struct {
	Reason string `json:"reason" validate:"required,min=1"`
}

// PaymentReverse records a compensating entry for a prior payment.
func PaymentReverse(svc commission.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlUUID(r, "paymentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload paymentReversalRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var recordedBy *int64
		if userID := middleware.UserIDFromContext(r.Context()); userID > 0 {
			recordedBy = &userID
		}

		reversal, err := svc.ReversePayment(r.Context(), id, payload.Reason, recordedBy)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, reversal)
	}
}

// AgreementStatement returns the agreement with its ledger totals. The
// candidate in the path must own the agreement.
func AgreementStatement(svc commission.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		candidateID, err := urlID(r, "candidateID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := urlUUID(r, "agreementID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		statement, err := svc.Statement(r.Context(), candidateID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, statement)
	}
}

// AssignmentPaymentStatus reports the downpayment and full-payment flags
// for an assignment's current agreement.
func AssignmentPaymentStatus(svc commission.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "assignmentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		downpaymentDone, err := svc.IsDownpaymentComplete(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		fullyPaid, err := svc.IsFullPaymentComplete(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"assignment_id":        id,
			"downpayment_complete": downpaymentDone,
			"fully_paid":           fullyPaid,
		})
	}
}
