package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "famledger/internal/errors"
	"famledger/internal/models"
)

// familyService handles families and the user profiles that link users to them.
type familyService struct {
	db *gorm.DB
}

// NewFamilyService creates a new FamilyServicer.
func NewFamilyService(db *gorm.DB) FamilyServicer {
	return &familyService{db: db}
}

// ResolveFamily returns the family ID of userID. A user without a profile is
// a server-side inconsistency and reported as PROFILE_NOT_FOUND.
func (s *familyService) ResolveFamily(userID string) (string, error) {
	var profile models.UserProfile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrProfileNotFound
		}
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return profile.FamilyID, nil
}

// LookupFamily returns the user's family, or nil when the user has no profile.
func (s *familyService) LookupFamily(userID string) (*models.Family, error) {
	var profile models.UserProfile
	err := s.db.Preload("Family").Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &profile.Family, nil
}

// CreateFamily creates a family and makes the caller its first member.
// A caller who already belongs to a family gets ErrProfileExists.
func (s *familyService) CreateFamily(userID, name string) (*models.Family, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "family name is required")
	}

	family := &models.Family{Name: name}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.UserProfile{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return apperrors.ErrProfileExists
		}

		if err := tx.Create(family).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		profile := &models.UserProfile{UserID: userID, FamilyID: family.ID}
		if err := tx.Create(profile).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return family, nil
}

// JoinFamily creates the caller's profile pointing at familyID.
func (s *familyService) JoinFamily(userID, familyID string) (*models.UserProfile, error) {
	if familyID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "family_id is required")
	}

	var profile *models.UserProfile
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.UserProfile{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return apperrors.ErrProfileExists
		}

		var family models.Family
		if err := tx.Where("id = ?", familyID).First(&family).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrFamilyNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		profile = &models.UserProfile{UserID: userID, FamilyID: family.ID}
		if err := tx.Create(profile).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		profile.Family = family
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// GetFamily returns the caller's family with its members ordered by email.
func (s *familyService) GetFamily(userID string) (*FamilyDetail, error) {
	familyID, err := s.ResolveFamily(userID)
	if err != nil {
		return nil, err
	}

	detail := &FamilyDetail{}
	if err := s.db.Where("id = ?", familyID).First(&detail.Family).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFamilyNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(&models.User{}).
		Joins("JOIN user_profiles ON user_profiles.user_id = users.id").
		Where("user_profiles.family_id = ?", familyID).
		Order("users.email ASC").
		Find(&detail.Members).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return detail, nil
}

// DeleteFamily removes the caller's family along with everything shared in it.
func (s *familyService) DeleteFamily(userID string) error {
	familyID, err := s.ResolveFamily(userID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		return deleteFamilyTx(tx, familyID)
	})
}

// deleteFamilyTx deletes, in order: records tagged with the family, records
// using the family's categories, the family's categories, its profiles and
// the family itself.
func deleteFamilyTx(tx *gorm.DB, familyID string) error {
	familyCategories := tx.Model(&models.Category{}).Select("id").Where("family_id = ?", familyID)

	return runDeletes(
		func() error { return tx.Where("family_id = ?", familyID).Delete(&models.ExpenseRecord{}).Error },
		func() error { return tx.Where("category_id IN (?)", familyCategories).Delete(&models.ExpenseRecord{}).Error },
		func() error { return tx.Where("family_id = ?", familyID).Delete(&models.Category{}).Error },
		func() error { return tx.Where("family_id = ?", familyID).Delete(&models.UserProfile{}).Error },
		func() error { return tx.Where("id = ?", familyID).Delete(&models.Family{}).Error },
	)
}

// runDeletes executes steps in order and stops at the first failure.
func runDeletes(steps ...func() error) error {
	for _, step := range steps {
		if err := step(); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return nil
}
