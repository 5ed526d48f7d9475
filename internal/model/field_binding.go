package model

// Field types for template placeholders
const (
	FieldTypeText   = "text"
	FieldTypeNumber = "number"
	FieldTypeDate   = "date"
	FieldTypeFile   = "file"
)

// Field input sources
const (
	FieldInputCustom = "custom"
	FieldInputCSV    = "csv"
)

// Reserved field names with special substitution behavior
const (
	FieldCertificateName = "certificateName"
	FieldQRCode          = "qrCode"
	FieldBackgroundFrame = "backgroundFrame"
	FieldBackgroundURL   = "backgroundUrl"
	FieldUniqueID        = "uniqueId"
)

// FieldBinding is one typed placeholder binding inside a template or an
// issued certificate. Bindings stored on a certificate are the historical
// record of what was actually rendered and are never mutated afterwards.
type FieldBinding struct {
	FieldName string `json:"fieldName"`
	FieldType string `json:"fieldType"`
	Value     string `json:"value"`
}

// IsFile reports whether the binding substitutes into an attribute/url
// position rather than as literal text.
func (b FieldBinding) IsFile() bool {
	return b.FieldType == FieldTypeFile
}
