package models

// OwnershipKind enumerates the visibility regimes of categories.
type OwnershipKind string

const (
	OwnershipNone     OwnershipKind = ""
	OwnershipPublic   OwnershipKind = "public"
	OwnershipPersonal OwnershipKind = "personal"
	OwnershipFamily   OwnershipKind = "family"
)

// Ownership is a tagged value: Public, Personal(user) or Family(family).
// Only the constructor for a kind can set its owner id, so a public value
// never carries an owner and a personal value never carries a family.
type Ownership struct {
	kind    OwnershipKind
	ownerID string
}

// PublicOwnership is visible to every user.
func PublicOwnership() Ownership {
	return Ownership{kind: OwnershipPublic}
}

// PersonalOwnership is visible to one user.
func PersonalOwnership(userID string) Ownership {
	return Ownership{kind: OwnershipPersonal, ownerID: userID}
}

// FamilyOwnership is shared by every member of one family.
func FamilyOwnership(familyID string) Ownership {
	return Ownership{kind: OwnershipFamily, ownerID: familyID}
}

// Kind returns the regime.
func (o Ownership) Kind() OwnershipKind { return o.kind }

// UserID returns the owning user for personal ownership.
func (o Ownership) UserID() (string, bool) {
	return o.ownerID, o.kind == OwnershipPersonal
}

// FamilyID returns the owning family for family ownership.
func (o Ownership) FamilyID() (string, bool) {
	return o.ownerID, o.kind == OwnershipFamily
}

func (o Ownership) String() string {
	if o.ownerID == "" {
		return string(o.kind)
	}
	return string(o.kind) + ":" + o.ownerID
}
