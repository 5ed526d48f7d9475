package model

import (
	"time"

	"gorm.io/datatypes"
)

// Origin of a revocation
const (
	RevokedFromIssuer      = "issuer"
	RevokedFromErrorReport = "error_report"
)

// RevokedCertificate is the revoked physical representation of a
// certificate identity. Created only by the revocation transition; a
// revoked identity never moves back to the active store.
type RevokedCertificate struct {
	ID            string                            `gorm:"type:char(36);primaryKey" json:"id"`
	Name          string                            `gorm:"type:varchar(255);not null" json:"name"`
	Format        string                            `gorm:"type:varchar(8);not null" json:"format"`
	ArtifactURL   string                            `gorm:"type:varchar(512);not null" json:"filePath"`
	SizeBytes     int64                             `json:"size"`
	Accessibility string                            `gorm:"type:varchar(16);default:'Not Shared'" json:"accessibility"`
	IsFavorite    bool                              `gorm:"default:false" json:"isAddedToFavorite"`
	UserID        int                               `gorm:"index;not null" json:"user"`
	FolderID      *int                              `gorm:"index" json:"folder"`
	IssuerID      *int                              `gorm:"index" json:"issuedBy"`
	RenderedHTML  string                            `gorm:"type:mediumtext" json:"issuedTemplateHTML"`
	TemplateID    *int                              `gorm:"index" json:"templateId"`
	CustomFields  datatypes.JSONSlice[FieldBinding] `gorm:"type:json" json:"customFields"`
	DataFields    datatypes.JSONSlice[FieldBinding] `gorm:"type:json" json:"csvFields"`
	UniqueCode    string                            `gorm:"type:varchar(32);uniqueIndex;not null" json:"uniqueId"`
	RevokedFrom   string                            `gorm:"type:varchar(16);default:'error_report'" json:"revokedFrom"` // issuer|error_report
	IssuedAt      time.Time                         `json:"issuedAt"`
	CreatedAt     time.Time                         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time                         `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for RevokedCertificate
func (RevokedCertificate) TableName() string {
	return "revoked_certificates"
}
