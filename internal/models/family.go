package models

// Family is a named group of users sharing categories and expense records.
type Family struct {
	Base
	Name string `gorm:"not null;size:255" json:"name"`
}

// UserProfile links a user to exactly one family. There is at most one
// profile per user; it is created explicitly, never on registration.
type UserProfile struct {
	Base
	UserID   string `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	FamilyID string `gorm:"type:uuid;not null;index" json:"family_id"`

	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Family Family `gorm:"foreignKey:FamilyID;constraint:OnDelete:CASCADE" json:"-"`
}
