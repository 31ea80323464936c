package models

// Category represents an expense category.
//
// UserID and FamilyID are both nullable; which of them is set (together with
// IsPublic) decides the category's visibility regime. Use Ownership to read
// the regime instead of inspecting the columns directly.
type Category struct {
	Base
	Name     string  `gorm:"not null;size:255" json:"name"`
	IsPublic bool    `gorm:"not null;default:false" json:"is_public"`
	UserID   *string `gorm:"type:uuid;index" json:"user_id"`
	FamilyID *string `gorm:"type:uuid;index" json:"family_id"`

	// Relationships
	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Family *Family `gorm:"foreignKey:FamilyID;constraint:OnDelete:CASCADE" json:"family,omitempty"`
}

// Ownership returns the category's visibility regime. A public flag wins
// over any owner columns; a family tag wins over a personal owner.
func (c *Category) Ownership() Ownership {
	switch {
	case c.IsPublic:
		return PublicOwnership()
	case c.FamilyID != nil:
		return FamilyOwnership(*c.FamilyID)
	case c.UserID != nil:
		return PersonalOwnership(*c.UserID)
	default:
		// Neither owner set and not public: nobody can see it through the
		// visibility rule, which Ownership reports as an orphan.
		return Ownership{}
	}
}

// VisibleTo reports whether the category is visible to userID, whose family
// is familyID (empty when unknown). This is the in-memory form of the
// predicate the category service pushes down to SQL:
//
//	is_public OR user_id = userID OR family_id = familyID
func (c *Category) VisibleTo(userID, familyID string) bool {
	if c.IsPublic {
		return true
	}
	if c.UserID != nil && *c.UserID == userID {
		return true
	}
	return familyID != "" && c.FamilyID != nil && *c.FamilyID == familyID
}

// EditableBy reports whether userID may change or delete the category.
// Public categories are shared across families, so only their creator may
// edit one, and a public category without a creator is read-only. Any other
// category is editable by everyone who can see it.
func (c *Category) EditableBy(userID, familyID string) bool {
	if c.Ownership().Kind() == OwnershipPublic {
		return c.UserID != nil && *c.UserID == userID
	}
	return c.VisibleTo(userID, familyID)
}
