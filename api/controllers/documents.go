package controllers

import (
	"net/http"
	"time"

	"github.com/roms-agency/roms-backend/api/middleware"
	"github.com/roms-agency/roms-backend/api/responses"
	"github.com/roms-agency/roms-backend/api/validators"
	"github.com/roms-agency/roms-backend/internal/documents"
	"github.com/roms-agency/roms-backend/pkg/enums"
	pkgerrors "github.com/roms-agency/roms-backend/pkg/errors"
	"github.com/roms-agency/roms-backend/pkg/logger"
)

type documentUploadRequest struct {
	DocType    string     `json:"doc_type" validate:"required"`
	StorageKey string     `json:"storage_key" validate:"required"`
	FileName   string     `json:"file_name" validate:"required"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
}

// DocumentUpload records metadata for a document the external store accepted.
func DocumentUpload(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
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

		var payload documentUploadRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		docType, err := enums.ParseDocumentType(payload.DocType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid doc_type"))
			return
		}

		var uploadedBy *int64
		if userID := middleware.UserIDFromContext(r.Context()); userID > 0 {
			uploadedBy = &userID
		}

		doc, err := svc.UploadMetadata(r.Context(), documents.UploadInput{
			CandidateID: candidateID,
			DocType:     docType,
			StorageKey:  payload.StorageKey,
			FileName:    payload.FileName,
			ExpiryDate:  payload.ExpiryDate,
			UploadedBy:  uploadedBy,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, doc)
	}
}

// DocumentList returns the candidate's document metadata, newest first.
func DocumentList(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
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

		docs, err := svc.List(r.Context(), candidateID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, docs)
	}
}

// DocumentDelete removes a document's metadata row. The external store keeps
// the bytes; reclaiming them is its concern.
func DocumentDelete(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		documentID, err := urlID(r, "documentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteMetadata(r.Context(), documentID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
