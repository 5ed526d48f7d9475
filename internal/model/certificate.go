package model

import (
	"time"

	"gorm.io/datatypes"
)

// Certificate formats
const (
	FormatPNG  = "png"
	FormatJPG  = "jpg"
	FormatJPEG = "jpeg"
	FormatPDF  = "pdf"
)

// Certificate accessibility
const (
	AccessibilityShared    = "Shared"
	AccessibilityNotShared = "Not Shared"
)

// ValidFormat reports whether f is an accepted render format.
func ValidFormat(f string) bool {
	switch f {
	case FormatPNG, FormatJPG, FormatJPEG, FormatPDF:
		return true
	}
	return false
}

// Certificate is the active physical representation of a certificate
// identity. The primary key is allocated before rendering so the QR proof
// embedded in the artifact references this exact record; on revocation the
// row is copied into revoked_certificates under the same key and deleted
// here, never flagged in place.
type Certificate struct {
	ID            string                            `gorm:"type:char(36);primaryKey" json:"id"`
	Name          string                            `gorm:"type:varchar(255);not null" json:"name"`
	Format        string                            `gorm:"type:varchar(8);not null" json:"format"` // png|jpg|jpeg|pdf
	ArtifactURL   string                            `gorm:"type:varchar(512);not null" json:"filePath"`
	SizeBytes     int64                             `json:"size"`
	Accessibility string                            `gorm:"type:varchar(16);default:'Not Shared'" json:"accessibility"`
	IsFavorite    bool                              `gorm:"default:false" json:"isAddedToFavorite"`
	UserID        int                               `gorm:"index;not null" json:"user"`
	FolderID      *int                              `gorm:"index" json:"folder"`
	IssuerID      *int                              `gorm:"index" json:"issuedBy"` // nil if uploaded by the recipient
	RenderedHTML  string                            `gorm:"type:mediumtext" json:"issuedTemplateHTML"`
	TemplateID    *int                              `gorm:"index" json:"templateId"`
	CustomFields  datatypes.JSONSlice[FieldBinding] `gorm:"type:json" json:"customFields"`
	DataFields    datatypes.JSONSlice[FieldBinding] `gorm:"type:json" json:"csvFields"`
	UniqueCode    string                            `gorm:"type:varchar(32);uniqueIndex;not null" json:"uniqueId"`
	CreatedAt     time.Time                         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time                         `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for Certificate
func (Certificate) TableName() string {
	return "certificates"
}

// ToRevoked copies every field into a RevokedCertificate under the same
// primary key, so external references (QR payloads, dispute records) stay
// valid across the move.
func (cert Certificate) ToRevoked(revokedFrom string) RevokedCertificate {
	return RevokedCertificate{
		ID:            cert.ID,
		Name:          cert.Name,
		Format:        cert.Format,
		ArtifactURL:   cert.ArtifactURL,
		SizeBytes:     cert.SizeBytes,
		Accessibility: cert.Accessibility,
		IsFavorite:    cert.IsFavorite,
		UserID:        cert.UserID,
		FolderID:      cert.FolderID,
		IssuerID:      cert.IssuerID,
		RenderedHTML:  cert.RenderedHTML,
		TemplateID:    cert.TemplateID,
		CustomFields:  cert.CustomFields,
		DataFields:    cert.DataFields,
		UniqueCode:    cert.UniqueCode,
		RevokedFrom:   revokedFrom,
		IssuedAt:      cert.CreatedAt,
	}
}
