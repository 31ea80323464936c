package services

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "famledger/internal/errors"
	"famledger/internal/logger"
	"famledger/internal/models"
	"famledger/internal/money"
	"famledger/internal/storage"
)

// ImagePrefix is the storage key prefix of receipt images.
const ImagePrefix = "uploads/record"

// recordService handles expense record business logic.
type recordService struct {
	db         *gorm.DB
	families   FamilyServicer
	categories CategoryServicer
	store      storage.Storage
}

// NewRecordService creates a new RecordServicer. store may be nil when image
// uploads are not needed.
func NewRecordService(db *gorm.DB, families FamilyServicer, categories CategoryServicer, store storage.Storage) RecordServicer {
	return &recordService{
		db:         db,
		families:   families,
		categories: categories,
		store:      store,
	}
}

// scoped returns a record query restricted to query's scope and filters.
func (s *recordService) scoped(userID string, query RecordQuery) (*gorm.DB, error) {
	var familyID string
	if query.Scope == ScopeFamily {
		var err error
		if familyID, err = s.families.ResolveFamily(userID); err != nil {
			return nil, err
		}
	}
	return applyRecordQuery(s.db.Model(&models.ExpenseRecord{}), userID, familyID, query), nil
}

// List returns the records selected by query, newest first.
func (s *recordService) List(userID string, query RecordQuery) ([]models.ExpenseRecord, error) {
	q, err := s.scoped(userID, query)
	if err != nil {
		return nil, err
	}

	var records []models.ExpenseRecord
	if err := q.
		Preload("User").
		Preload("Family").
		Preload("Category").
		Order("expense_records.date DESC, expense_records.id DESC").
		Find(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return records, nil
}

// Create records an expense for userID. The category must be visible to the
// user and the family, when given, must be the user's own.
func (s *recordService) Create(userID string, input RecordInput) (*models.ExpenseRecord, error) {
	if err := requireRecordFields(input); err != nil {
		return nil, err
	}

	record := &models.ExpenseRecord{UserID: userID}
	if err := s.apply(userID, record, input); err != nil {
		return nil, err
	}

	if err := s.db.Omit(clause.Associations).Create(record).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return record, nil
}

// Get retrieves a record within scope.
func (s *recordService) Get(userID, recordID string, scope RecordScope) (*models.ExpenseRecord, error) {
	q, err := s.scoped(userID, RecordQuery{Scope: scope})
	if err != nil {
		return nil, err
	}

	var record models.ExpenseRecord
	if err := q.
		Preload("User").
		Preload("Family").
		Preload("Category").
		Where("expense_records.id = ?", recordID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecordNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &record, nil
}

// Update replaces (partial=false) or patches (partial=true) a record within
// scope. The owner never changes.
func (s *recordService) Update(userID, recordID string, scope RecordScope, input RecordInput, partial bool) (*models.ExpenseRecord, error) {
	if !partial {
		if err := requireRecordFields(input); err != nil {
			return nil, err
		}
	}

	record, err := s.Get(userID, recordID, scope)
	if err != nil {
		return nil, err
	}
	if err := s.apply(userID, record, input); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"category_id": record.CategoryID,
		"family_id":   record.FamilyID,
		"date":        record.Date,
		"amount":      record.Amount,
		"notes":       record.Notes,
	}
	if err := s.db.Model(&models.ExpenseRecord{}).Where("id = ?", record.ID).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return record, nil
}

// Delete removes a record within scope.
func (s *recordService) Delete(userID, recordID string, scope RecordScope) error {
	record, err := s.Get(userID, recordID, scope)
	if err != nil {
		return err
	}

	if err := s.db.Where("id = ?", record.ID).Delete(&models.ExpenseRecord{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if record.Image != nil && s.store != nil {
		s.removeImage(context.Background(), *record.Image)
	}
	return nil
}

// AttachImage stores upload as the record's receipt image. The previous
// image, if any, is removed from storage afterwards.
func (s *recordService) AttachImage(ctx context.Context, userID, recordID string, scope RecordScope, upload ImageUpload) (*models.ExpenseRecord, error) {
	if s.store == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInternalServer, "image storage is not configured")
	}

	record, err := s.Get(userID, recordID, scope)
	if err != nil {
		return nil, err
	}

	content, contentType, err := storage.DetectImage(upload.Content)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidImage, err)
	}

	key := storage.ImageKey(ImagePrefix, upload.Filename)
	if err := s.store.Save(ctx, key, contentType, content); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(&models.ExpenseRecord{}).Where("id = ?", record.ID).Update("image", key).Error; err != nil {
		s.removeImage(ctx, key)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	previous := record.Image
	record.Image = &key
	if previous != nil && *previous != key {
		s.removeImage(ctx, *previous)
	}
	return record, nil
}

func (s *recordService) removeImage(ctx context.Context, key string) {
	if err := s.store.Delete(ctx, key); err != nil {
		logger.Get().Warnw("failed to delete stored image", "key", key, "error", err)
	}
}

// requireRecordFields checks the fields a create or full update must carry.
func requireRecordFields(input RecordInput) error {
	switch {
	case input.CategoryID == nil || *input.CategoryID == "":
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	case input.Date == nil:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	case input.Amount == nil:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount is required")
	}
	return nil
}

// apply validates the supplied fields of input and copies them onto record.
func (s *recordService) apply(userID string, record *models.ExpenseRecord, input RecordInput) error {
	if input.CategoryID != nil {
		if *input.CategoryID == "" {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "category must not be empty")
		}
		category, err := s.categories.Get(userID, *input.CategoryID)
		if err != nil {
			var appErr *apperrors.AppError
			if errors.As(err, &appErr) && appErr.Code == apperrors.ErrCategoryNotFound.Code {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, "category does not exist")
			}
			return err
		}
		record.CategoryID = category.ID
		record.Category = *category
	}
	if input.Family.Set {
		if input.Family.Value != nil {
			if err := checkOwnFamily(s.families, userID, *input.Family.Value); err != nil {
				return err
			}
		}
		record.FamilyID = input.Family.Value
		record.Family = nil
	}
	if input.Date != nil {
		record.Date = models.NormalizeDate(*input.Date)
	}
	if input.Amount != nil {
		if c := input.Amount.Cents(); c > money.MaxCents || c < -money.MaxCents {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, money.ErrOutOfRange.Error())
		}
		record.Amount = *input.Amount
	}
	if input.Notes.Set {
		record.Notes = input.Notes.Value
	}
	return nil
}
