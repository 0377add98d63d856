package postgres

import "time"

// UserModel represents the database model for a bot account
type UserModel struct {
	ID        int64     `gorm:"primaryKey"`
	Username  string    `gorm:"size:255"`
	FirstName string    `gorm:"size:255"`
	Lang      string    `gorm:"size:5;not null;default:'fa'"`
	Credits   int       `gorm:"not null;default:3"`
	IsBanned  bool      `gorm:"not null;default:false"`
	IsAdmin   bool      `gorm:"not null;default:false"`
	TotalUsed int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName returns the table name for UserModel
func (UserModel) TableName() string {
	return "users"
}

// CredentialModel represents the database model for an encrypted session record
type CredentialModel struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     int64     `gorm:"uniqueIndex;not null"`
	Phone      string    `gorm:"size:50;not null"`
	EncSession string    `gorm:"type:text;not null"`
	CodeHash   string    `gorm:"size:255;not null;default:''"`
	Authorized bool      `gorm:"not null;default:false"`
	ExpiresAt  time.Time `gorm:"not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`

	User UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for CredentialModel
func (CredentialModel) TableName() string {
	return "credentials"
}
