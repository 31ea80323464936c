package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"famledger/internal/models"
	"famledger/internal/money"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// TestPassword is the plaintext password of every fixture user.
const TestPassword = "password123"

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Name:     "Test User",
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestFamily creates a family with a unique name.
func CreateTestFamily(t *testing.T, db *gorm.DB) *models.Family {
	t.Helper()

	family := &models.Family{Name: fmt.Sprintf("Family %d", nextID())}
	if err := db.Create(family).Error; err != nil {
		t.Fatalf("failed to create test family: %v", err)
	}
	return family
}

// CreateTestProfile joins userID to familyID.
func CreateTestProfile(t *testing.T, db *gorm.DB, userID, familyID string) *models.UserProfile {
	t.Helper()

	profile := &models.UserProfile{UserID: userID, FamilyID: familyID}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create test profile: %v", err)
	}
	return profile
}

// CreateTestMember creates a user who belongs to family.
func CreateTestMember(t *testing.T, db *gorm.DB, family *models.Family) *models.User {
	t.Helper()
	user := CreateTestUser(t, db)
	CreateTestProfile(t, db, user.ID, family.ID)
	return user
}

// CreateTestPublicCategory creates a category visible to everyone.
func CreateTestPublicCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()
	return createCategory(t, db, &models.Category{IsPublic: true})
}

// CreateTestPersonalCategory creates a category owned by userID only.
func CreateTestPersonalCategory(t *testing.T, db *gorm.DB, userID string) *models.Category {
	t.Helper()
	return createCategory(t, db, &models.Category{UserID: &userID})
}

// CreateTestFamilyCategory creates a category created by userID and shared
// with familyID.
func CreateTestFamilyCategory(t *testing.T, db *gorm.DB, userID, familyID string) *models.Category {
	t.Helper()
	return createCategory(t, db, &models.Category{UserID: &userID, FamilyID: &familyID})
}

func createCategory(t *testing.T, db *gorm.DB, category *models.Category) *models.Category {
	t.Helper()

	category.Name = fmt.Sprintf("Category %d", nextID())
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestRecord creates an expense record. familyID may be nil for a
// personal record; date is YYYY-MM-DD and amount a decimal string.
func CreateTestRecord(t *testing.T, db *gorm.DB, userID string, familyID *string, categoryID, date, amount string) *models.ExpenseRecord {
	t.Helper()

	d, err := time.Parse(models.DateLayout, date)
	if err != nil {
		t.Fatalf("invalid fixture date %q: %v", date, err)
	}

	record := &models.ExpenseRecord{
		UserID:     userID,
		FamilyID:   familyID,
		CategoryID: categoryID,
		Date:       d,
		Amount:     money.MustParse(amount),
	}
	if err := db.Create(record).Error; err != nil {
		t.Fatalf("failed to create test record: %v", err)
	}
	return record
}
