package services

import (
	"gorm.io/gorm"

	apperrors "famledger/internal/errors"
)

// summaryService totals filtered records per category.
type summaryService struct {
	records *recordService
}

// NewSummaryService creates a new SummaryServicer sharing the record filters
// of the given FamilyServicer.
func NewSummaryService(db *gorm.DB, families FamilyServicer) SummaryServicer {
	return &summaryService{records: &recordService{db: db, families: families}}
}

// Summarize returns one row per category present in the filtered records,
// ordered by category ID. Sums are taken over integer cents, so they are exact.
func (s *summaryService) Summarize(userID string, query RecordQuery) ([]CategoryTotal, error) {
	q, err := s.records.scoped(userID, query)
	if err != nil {
		return nil, err
	}

	totals := []CategoryTotal{}
	if err := q.
		Select("expense_records.category_id AS category_id, categories.name AS category_name, " +
			"CAST(SUM(expense_records.amount) AS BIGINT) AS total_amount").
		Joins("JOIN categories ON categories.id = expense_records.category_id").
		Group("expense_records.category_id, categories.name").
		Order("expense_records.category_id ASC").
		Scan(&totals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return totals, nil
}
