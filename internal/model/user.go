package model

// User represents a certificate recipient. Recipients own an eLocker of
// folders and certificates.
type User struct {
	BaseModel
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	CountryCode  string `gorm:"type:varchar(8)" json:"countryCode"`
	PhoneNumber  string `gorm:"type:varchar(32)" json:"phoneNumber"`
	ProfileImage string `gorm:"type:varchar(512);default:'https://picsum.photos/100/100'" json:"profileImage"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
