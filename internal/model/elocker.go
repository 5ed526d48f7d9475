package model

// ELocker is a recipient's certificate locker, created lazily on first use.
// Folders and certificates reference their owner directly; the locker row
// anchors per-recipient locker state.
type ELocker struct {
	BaseModel
	UserID int `gorm:"uniqueIndex;not null" json:"user"`
}

// TableName specifies the table name for ELocker
func (ELocker) TableName() string {
	return "elockers"
}
