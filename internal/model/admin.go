package model

// Admin represents a platform administrator who authors templates and
// adjudicates disputes escalated past the issuer.
type Admin struct {
	BaseModel
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	CountryCode  string `gorm:"type:varchar(8)" json:"countryCode"`
	PhoneNumber  string `gorm:"type:varchar(32);not null" json:"phoneNumber"`
	ProfileImage string `gorm:"type:varchar(512);default:'https://picsum.photos/200/300'" json:"profileImage"`
}

// TableName specifies the table name for Admin
func (Admin) TableName() string {
	return "admins"
}
