package models

// User represents the user model in the database
type User struct {
	Base
	Email            string `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Password         string `gorm:"not null" json:"-"`
	Name             string `gorm:"size:255" json:"name"`
	IsActive         bool   `gorm:"default:true" json:"is_active"`
	IsStaff          bool   `gorm:"default:false" json:"is_staff"`
	RefreshTokenHash string `gorm:"size:64" json:"-"`
}
