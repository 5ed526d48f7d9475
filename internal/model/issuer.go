package model

// Issuer represents an organization authorized to generate and revoke
// certificates it created.
type Issuer struct {
	BaseModel
	OrganizationName    string `gorm:"type:varchar(255);not null" json:"organizationName"`
	OrganizationAddress string `gorm:"type:varchar(512);not null" json:"organizationAddress"`
	Email               string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	CACNumber           string `gorm:"type:varchar(64);not null" json:"cacNumber"`
	PasswordHash        string `gorm:"type:varchar(255);not null" json:"-"`
	CountryCode         string `gorm:"type:varchar(8)" json:"countryCode"`
	PhoneNumber         string `gorm:"type:varchar(32);not null" json:"phoneNumber"`
	Image               string `gorm:"type:varchar(512);default:'https://picsum.photos/200/300'" json:"image"`
	Active              bool   `gorm:"default:true" json:"active"`
}

// TableName specifies the table name for Issuer
func (Issuer) TableName() string {
	return "issuers"
}
