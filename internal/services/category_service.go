package services

import (
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	apperrors "famledger/internal/errors"
	"famledger/internal/models"
)

const maxCategoryNameLen = 255

// categoryService handles category-related business logic.
type categoryService struct {
	db       *gorm.DB
	families FamilyServicer
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB, families FamilyServicer) CategoryServicer {
	return &categoryService{db: db, families: families}
}

// visibleTo restricts a category query to the rows userID may see: public
// categories, categories the user created, and categories of the user's family.
func visibleTo(userID, familyID string) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		return q.Where("categories.is_public = ? OR categories.user_id = ? OR categories.family_id = ?",
			true, userID, familyID)
	}
}

// ListVisible returns every category visible to the user, ordered by ID.
func (s *categoryService) ListVisible(userID string) ([]models.Category, error) {
	familyID, err := s.families.ResolveFamily(userID)
	if err != nil {
		return nil, err
	}

	var categories []models.Category
	if err := s.db.Scopes(visibleTo(userID, familyID)).
		Preload("User").
		Preload("Family").
		Order("categories.id ASC").
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// Create creates a category owned by userID. A family, when given, must be
// the user's own.
func (s *categoryService) Create(userID string, input CategoryInput) (*models.Category, error) {
	if input.Name == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}

	category := &models.Category{UserID: &userID}
	if err := s.apply(userID, category, input); err != nil {
		return nil, err
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// Get retrieves a visible category by ID.
func (s *categoryService) Get(userID, categoryID string) (*models.Category, error) {
	familyID, err := s.families.ResolveFamily(userID)
	if err != nil {
		return nil, err
	}
	return s.get(userID, familyID, categoryID)
}

func (s *categoryService) get(userID, familyID, categoryID string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Scopes(visibleTo(userID, familyID)).
		Preload("User").
		Preload("Family").
		Where("categories.id = ?", categoryID).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// editable retrieves a visible category the user is allowed to change.
func (s *categoryService) editable(userID, categoryID string) (*models.Category, error) {
	familyID, err := s.families.ResolveFamily(userID)
	if err != nil {
		return nil, err
	}
	category, err := s.get(userID, familyID, categoryID)
	if err != nil {
		return nil, err
	}
	if !category.EditableBy(userID, familyID) {
		return nil, apperrors.ErrCategoryReadOnly
	}
	return category, nil
}

// Update replaces (partial=false) or patches (partial=true) a visible
// category. The owner is left unchanged. Public categories can only be
// changed by their creator.
func (s *categoryService) Update(userID, categoryID string, input CategoryInput, partial bool) (*models.Category, error) {
	if !partial && input.Name == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}

	category, err := s.editable(userID, categoryID)
	if err != nil {
		return nil, err
	}
	if err := s.apply(userID, category, input); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":      category.Name,
		"is_public": category.IsPublic,
		"family_id": category.FamilyID,
	}
	if err := s.db.Model(&models.Category{}).Where("id = ?", category.ID).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// Delete removes a category together with the records filed under it. The
// same edit rule as Update applies.
func (s *categoryService) Delete(userID, categoryID string) error {
	category, err := s.editable(userID, categoryID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		return runDeletes(
			func() error { return tx.Where("category_id = ?", category.ID).Delete(&models.ExpenseRecord{}).Error },
			func() error { return tx.Where("id = ?", category.ID).Delete(&models.Category{}).Error },
		)
	})
}

// apply validates the supplied fields of input and copies them onto category.
func (s *categoryService) apply(userID string, category *models.Category, input CategoryInput) error {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "name must not be empty")
		}
		if utf8.RuneCountInString(name) > maxCategoryNameLen {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "name must be at most 255 characters")
		}
		category.Name = name
	}
	if input.IsPublic != nil {
		category.IsPublic = *input.IsPublic
	}
	if input.Family.Set {
		if input.Family.Value != nil {
			if err := checkOwnFamily(s.families, userID, *input.Family.Value); err != nil {
				return err
			}
		}
		category.FamilyID = input.Family.Value
		category.Family = nil
	}
	// A category that is neither public nor owned is visible to nobody.
	if category.Ownership().Kind() == models.OwnershipNone {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category must be public or have an owner")
	}
	return nil
}

// checkOwnFamily rejects a family that is not the user's own.
func checkOwnFamily(families FamilyServicer, userID, familyID string) error {
	own, err := families.ResolveFamily(userID)
	if err != nil {
		return err
	}
	if own != familyID {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "family must be your own family")
	}
	return nil
}
