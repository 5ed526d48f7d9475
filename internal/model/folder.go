package model

// Folder groups certificates inside a recipient's eLocker. Folder names are
// unique per user; the issuance pipeline relies on that constraint when two
// first-time issuances race to create the default folder.
type Folder struct {
	BaseModel
	UserID int    `gorm:"uniqueIndex:idx_folder_user_name;not null" json:"user"`
	Name   string `gorm:"type:varchar(255);uniqueIndex:idx_folder_user_name;not null" json:"name"`
}

// TableName specifies the table name for Folder
func (Folder) TableName() string {
	return "folders"
}
