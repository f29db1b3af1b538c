package enums

import "fmt"

// DocumentType maps to the document_type_enum enum in Postgres.
type DocumentType string

const (
	DocumentTypePassport               DocumentType = "passport"
	DocumentTypeNationalID             DocumentType = "national_id"
	DocumentTypeBirthCertificate       DocumentType = "birth_certificate"
	DocumentTypeEducationalCertificate DocumentType = "educational_certificate"
	DocumentTypeMedicalReport          DocumentType = "medical_report"
	DocumentTypePoliceClearance        DocumentType = "police_clearance"
	DocumentTypePhoto                  DocumentType = "photo"
	DocumentTypeCV                     DocumentType = "cv"
	DocumentTypeOfferLetter            DocumentType = "offer_letter"
	DocumentTypeContract               DocumentType = "contract"
	DocumentTypeVisa                   DocumentType = "visa"
	DocumentTypeOther                  DocumentType = "other"
)

var validDocumentTypes = []DocumentType{
	DocumentTypePassport,
	DocumentTypeNationalID,
	DocumentTypeBirthCertificate,
	DocumentTypeEducationalCertificate,
	DocumentTypeMedicalReport,
	DocumentTypePoliceClearance,
	DocumentTypePhoto,
	DocumentTypeCV,
	DocumentTypeOfferLetter,
	DocumentTypeContract,
	DocumentTypeVisa,
	DocumentTypeOther,
}

// String implements fmt.Stringer.
func (t DocumentType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known DocumentType.
func (t DocumentType) IsValid() bool {
	for _, candidate := range validDocumentTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// DisplayName returns the human-readable label shown to applicants.
func (t DocumentType) DisplayName() string {
	switch t {
	case DocumentTypePassport:
		return "Passport bio page"
	case DocumentTypeCV:
		return "Curriculum Vitae (CV)"
	case DocumentTypeMedicalReport:
		return "Medical certificate"
	case DocumentTypePoliceClearance:
		return "Police clearance certificate"
	case DocumentTypePhoto:
		return "Passport-size photograph"
	case DocumentTypeNationalID:
		return "National ID card"
	case DocumentTypeBirthCertificate:
		return "Birth certificate"
	case DocumentTypeEducationalCertificate:
		return "Educational certificate"
	case DocumentTypeOfferLetter:
		return "Offer letter"
	case DocumentTypeContract:
		return "Employment contract"
	case DocumentTypeVisa:
		return "Visa document"
	default:
		return string(t)
	}
}

// ParseDocumentType converts raw input into a DocumentType.
func ParseDocumentType(value string) (DocumentType, error) {
	for _, candidate := range validDocumentTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid document type %q", value)
}
