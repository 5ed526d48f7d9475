package model

import "gorm.io/datatypes"

// Template stores a reusable certificate layout: raw markup with {{field}}
// tokens plus the typed bindings used to render previews and certificates.
// Invariant: CustomFields always contains the reserved certificateName text
// field, injected server-side on create and edit.
type Template struct {
	BaseModel
	Name         string                               `gorm:"type:varchar(255)" json:"templateName"`
	MarkupHTML   string                               `gorm:"type:mediumtext" json:"templateHTML"`
	PreviewHTML  string                               `gorm:"type:mediumtext" json:"templatePreview"`
	PreviewURL   string                               `gorm:"type:varchar(512)" json:"templateUrl"`
	CustomFields datatypes.JSONSlice[FieldBinding]    `gorm:"type:json" json:"customFields"`
	DataFields   datatypes.JSONSlice[FieldBinding]    `gorm:"type:json" json:"csvFields"`
	CreatedBy    int                                  `gorm:"index;not null" json:"createdBy"`
}

// TableName specifies the table name for Template
func (Template) TableName() string {
	return "templates"
}
