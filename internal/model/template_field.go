package model

// TemplateField is a catalog entry: a named, typed placeholder definition
// with a default fill value, reusable across templates. File-type fields
// carry the stored asset URL as their default value.
type TemplateField struct {
	BaseModel
	FieldName       string `gorm:"type:varchar(128);not null" json:"fieldName"`
	HTMLPlaceholder string `gorm:"type:varchar(255)" json:"htmlPlaceholder"`
	DefaultValue    string `gorm:"type:varchar(512)" json:"placeHolder"`
	InputFrom       string `gorm:"type:varchar(16)" json:"inputFrom"` // custom|csv
	FieldType       string `gorm:"type:varchar(16)" json:"fieldType"` // text|file
	IsDeleted       bool   `gorm:"default:false" json:"-"`
}

// TableName specifies the table name for TemplateField
func (TemplateField) TableName() string {
	return "template_fields"
}
