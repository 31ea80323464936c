package handlers

import (
	"famledger/internal/models"
	"famledger/internal/money"
)

// Read endpoints nest related users, families and categories; write endpoints
// echo the row with bare IDs.

// UserRef is a user embedded in another resource.
type UserRef struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// FamilyRef is a family embedded in another resource.
type FamilyRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryRef is a category embedded in a record.
type CategoryRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsPublic bool   `json:"is_public"`
}

// CategoryDetail is the read shape of a category.
type CategoryDetail struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	IsPublic bool       `json:"is_public"`
	User     *UserRef   `json:"user"`
	Family   *FamilyRef `json:"family"`
}

// CategoryResponse is the write shape of a category.
type CategoryResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	IsPublic bool    `json:"is_public"`
	User     *string `json:"user"`
	Family   *string `json:"family"`
}

// RecordDetail is the read shape of an expense record.
type RecordDetail struct {
	ID       string       `json:"id"`
	User     UserRef      `json:"user"`
	Family   *FamilyRef   `json:"family"`
	Category CategoryRef  `json:"category"`
	Date     string       `json:"date"`
	Amount   money.Amount `json:"amount" swaggertype:"string" example:"12.50"`
	Notes    *string      `json:"notes"`
	Image    *string      `json:"image"`
}

// RecordResponse is the write shape of an expense record.
type RecordResponse struct {
	ID       string       `json:"id"`
	User     string       `json:"user"`
	Family   *string      `json:"family"`
	Category string       `json:"category"`
	Date     string       `json:"date"`
	Amount   money.Amount `json:"amount" swaggertype:"string" example:"12.50"`
	Notes    *string      `json:"notes"`
	Image    *string      `json:"image"`
}

func newUserRef(u *models.User) UserRef {
	return UserRef{ID: u.ID, Email: u.Email, Name: u.Name}
}

func newFamilyRef(f *models.Family) *FamilyRef {
	if f == nil {
		return nil
	}
	return &FamilyRef{ID: f.ID, Name: f.Name}
}

func newCategoryDetail(c *models.Category) CategoryDetail {
	d := CategoryDetail{
		ID:       c.ID,
		Name:     c.Name,
		IsPublic: c.IsPublic,
		Family:   newFamilyRef(c.Family),
	}
	if c.User != nil {
		ref := newUserRef(c.User)
		d.User = &ref
	}
	return d
}

func newCategoryResponse(c *models.Category) CategoryResponse {
	return CategoryResponse{
		ID:       c.ID,
		Name:     c.Name,
		IsPublic: c.IsPublic,
		User:     c.UserID,
		Family:   c.FamilyID,
	}
}

// imageURL maps a stored image key to the URL clients fetch it from.
type imageURL func(key string) string

func (u imageURL) of(key *string) *string {
	if key == nil {
		return nil
	}
	if u == nil {
		return key
	}
	url := u(*key)
	return &url
}

func newRecordDetail(r *models.ExpenseRecord, urlFor imageURL) RecordDetail {
	return RecordDetail{
		ID:     r.ID,
		User:   newUserRef(&r.User),
		Family: newFamilyRef(r.Family),
		Category: CategoryRef{
			ID:       r.Category.ID,
			Name:     r.Category.Name,
			IsPublic: r.Category.IsPublic,
		},
		Date:   r.Date.Format(models.DateLayout),
		Amount: r.Amount,
		Notes:  r.Notes,
		Image:  urlFor.of(r.Image),
	}
}

func newRecordResponse(r *models.ExpenseRecord, urlFor imageURL) RecordResponse {
	return RecordResponse{
		ID:       r.ID,
		User:     r.UserID,
		Family:   r.FamilyID,
		Category: r.CategoryID,
		Date:     r.Date.Format(models.DateLayout),
		Amount:   r.Amount,
		Notes:    r.Notes,
		Image:    urlFor.of(r.Image),
	}
}
