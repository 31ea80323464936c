package services

import (
	"context"
	"io"
	"time"

	"famledger/internal/models"
	"famledger/internal/money"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, name string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID string, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
	DeleteUser(userID string) error
}

// FamilyDetail is a family together with its members.
type FamilyDetail struct {
	Family  models.Family
	Members []models.User
}

// FamilyServicer resolves and manages the family a user belongs to.
type FamilyServicer interface {
	ResolveFamily(userID string) (string, error)
	LookupFamily(userID string) (*models.Family, error)
	CreateFamily(userID, name string) (*models.Family, error)
	JoinFamily(userID, familyID string) (*models.UserProfile, error)
	GetFamily(userID string) (*FamilyDetail, error)
	DeleteFamily(userID string) error
}

// CategoryInput carries the writable fields of a category. Nil pointers and
// unset Nullables are absent from the request.
type CategoryInput struct {
	Name     *string
	IsPublic *bool
	Family   Nullable[string]
}

// CategoryServicer defines the contract for category-related business logic.
// Every lookup is restricted to the categories visible to userID.
type CategoryServicer interface {
	ListVisible(userID string) ([]models.Category, error)
	Create(userID string, input CategoryInput) (*models.Category, error)
	Get(userID, categoryID string) (*models.Category, error)
	Update(userID, categoryID string, input CategoryInput, partial bool) (*models.Category, error)
	Delete(userID, categoryID string) error
}

// RecordInput carries the writable fields of an expense record.
type RecordInput struct {
	CategoryID *string
	Family     Nullable[string]
	Date       *time.Time
	Amount     *money.Amount
	Notes      Nullable[string]
}

// ImageUpload is an uploaded receipt image.
type ImageUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// RecordServicer defines the contract for expense record business logic.
type RecordServicer interface {
	List(userID string, query RecordQuery) ([]models.ExpenseRecord, error)
	Create(userID string, input RecordInput) (*models.ExpenseRecord, error)
	Get(userID, recordID string, scope RecordScope) (*models.ExpenseRecord, error)
	Update(userID, recordID string, scope RecordScope, input RecordInput, partial bool) (*models.ExpenseRecord, error)
	Delete(userID, recordID string, scope RecordScope) error
	AttachImage(ctx context.Context, userID, recordID string, scope RecordScope, upload ImageUpload) (*models.ExpenseRecord, error)
}

// CategoryTotal is one row of a summary.
type CategoryTotal struct {
	CategoryID   string       `json:"category_id"`
	CategoryName string       `json:"category_name"`
	TotalAmount  money.Amount `json:"total_amount"`
}

// SummaryServicer aggregates filtered records per category.
type SummaryServicer interface {
	Summarize(userID string, query RecordQuery) ([]CategoryTotal, error)
}
