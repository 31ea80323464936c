package models

import (
	"time"

	"famledger/internal/money"
)

// DateLayout is the wire and query format of record dates.
const DateLayout = "2006-01-02"

// ExpenseRecord is a single expense owned by a user and optionally tagged
// with the user's family.
type ExpenseRecord struct {
	Base
	UserID     string       `gorm:"type:uuid;not null;index" json:"user_id"`
	FamilyID   *string      `gorm:"type:uuid;index" json:"family_id"`
	CategoryID string       `gorm:"type:uuid;not null;index" json:"category_id"`
	Date       time.Time    `gorm:"type:date;not null;index" json:"date"`
	Amount     money.Amount `gorm:"type:bigint;not null" json:"amount"`
	Notes      *string      `json:"notes"`
	Image      *string      `gorm:"size:255" json:"image"`

	// Relationships
	User     User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Family   *Family  `gorm:"foreignKey:FamilyID;constraint:OnDelete:CASCADE" json:"-"`
	Category Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`
}

// NormalizeDate truncates t to midnight UTC on its calendar day.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
