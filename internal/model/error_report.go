package model

// ErrorReport statuses. pending is the only entry state; confirmed_valid
// and resolved are terminal and permit a fresh report for the same
// certificate, pending and revoked block one.
const (
	ReportStatusPending        = "pending"
	ReportStatusConfirmedValid = "confirmed_valid"
	ReportStatusRevoked        = "revoked"
	ReportStatusResolved       = "resolved"
)

// Which physical store currently holds the referenced certificate identity.
const (
	LocationCertificate = "Certificate"
	LocationRevoked     = "RevokedCertificate"
)

// ErrorReport is a recipient-raised dispute against an issued certificate.
// IssuedBy is a snapshot taken at report time for filtering only;
// authorization on transitions is re-checked against the live certificate.
type ErrorReport struct {
	BaseModel
	CertificateRef      string `gorm:"type:char(36);index;not null" json:"certificateRef"`
	CertificateLocation string `gorm:"type:varchar(32);not null" json:"certificateModel"` // Certificate|RevokedCertificate
	ReportedBy          int    `gorm:"index;not null" json:"reportedBy"`
	IssuedBy            int    `gorm:"index;not null" json:"issuedBy"`
	ErrorMessage        string `gorm:"type:text;not null" json:"errorMessage"`
	AttachmentURL       string `gorm:"type:varchar(512)" json:"attachments"`
	Status              string `gorm:"type:varchar(16);default:'pending'" json:"status"`
}

// TableName specifies the table name for ErrorReport
func (ErrorReport) TableName() string {
	return "error_reports"
}

// LocationForStatus derives the store discriminator from a report status.
// The location is never written independently: while a report is pending or
// confirmed_valid the identity must be in the active store, once revoked or
// resolved it must be in the revoked store.
func LocationForStatus(status string) string {
	if status == ReportStatusPending || status == ReportStatusConfirmedValid {
		return LocationCertificate
	}
	return LocationRevoked
}
