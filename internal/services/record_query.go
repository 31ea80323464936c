package services

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "famledger/internal/errors"
	"famledger/internal/models"
	"famledger/internal/uuid"
)

// RecordScope selects the base set of records before dimension filters.
type RecordScope string

const (
	// ScopeOwned is every record the user created, tagged or not.
	ScopeOwned RecordScope = "owned"
	// ScopePersonal is the user's records without a family tag.
	ScopePersonal RecordScope = "personal"
	// ScopeFamily is every record tagged with the user's family.
	ScopeFamily RecordScope = "family"
)

// ParseRecordScope maps the "type" query parameter to a scope. Anything
// other than personal or family selects the owned scope.
func ParseRecordScope(s string) RecordScope {
	switch RecordScope(s) {
	case ScopePersonal:
		return ScopePersonal
	case ScopeFamily:
		return ScopeFamily
	default:
		return ScopeOwned
	}
}

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// RecordQuery describes which records a list or summary request selects.
// Every field except Scope is optional.
type RecordQuery struct {
	Scope      RecordScope
	DateRange  *DateRange
	Year       *int
	Month      *int
	Day        *int
	CategoryID *string
}

// ParseRecordQuery builds a RecordQuery from list query parameters.
//
// A date_range that does not split into exactly two parts is ignored. Two
// parts that are not both YYYY-MM-DD dates, or a non-integer year, month or
// day, are rejected with INVALID_INPUT.
func ParseRecordQuery(values url.Values) (RecordQuery, error) {
	q := RecordQuery{Scope: ParseRecordScope(values.Get("type"))}

	if raw := values.Get("date_range"); raw != "" {
		parts := strings.Split(raw, ",")
		if len(parts) == 2 {
			start, err := time.Parse(models.DateLayout, strings.TrimSpace(parts[0]))
			if err != nil {
				return RecordQuery{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "date_range start must be YYYY-MM-DD")
			}
			end, err := time.Parse(models.DateLayout, strings.TrimSpace(parts[1]))
			if err != nil {
				return RecordQuery{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "date_range end must be YYYY-MM-DD")
			}
			q.DateRange = &DateRange{Start: start, End: end}
		}
	}

	for _, p := range []struct {
		name string
		dst  **int
	}{
		{"year", &q.Year},
		{"month", &q.Month},
		{"day", &q.Day},
	} {
		raw := values.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return RecordQuery{}, apperrors.WithMessage(apperrors.ErrInvalidInput, p.name+" must be an integer")
		}
		*p.dst = &n
	}

	if raw := values.Get("category"); raw != "" {
		if !uuid.IsValid(raw) {
			return RecordQuery{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "category must be a valid id")
		}
		q.CategoryID = &raw
	}

	return q, nil
}

// calendarRange turns the year/month/day fields into a half-open date range
// using the most specific applicable combination. applied is false when no
// combination applies (no year). valid is false when the combination names
// no real date, in which case nothing matches.
func (q RecordQuery) calendarRange() (from, to time.Time, applied, valid bool) {
	if q.Year == nil {
		return time.Time{}, time.Time{}, false, false
	}
	y := *q.Year
	if y < 1 || y > 9999 {
		return time.Time{}, time.Time{}, true, false
	}

	switch {
	case q.Month != nil && q.Day != nil:
		m, d := *q.Month, *q.Day
		if m < 1 || m > 12 || d < 1 {
			return time.Time{}, time.Time{}, true, false
		}
		from = time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
		// time.Date normalizes Feb 30 into March.
		if from.Month() != time.Month(m) || from.Day() != d {
			return time.Time{}, time.Time{}, true, false
		}
		return from, from.AddDate(0, 0, 1), true, true
	case q.Month != nil:
		m := *q.Month
		if m < 1 || m > 12 {
			return time.Time{}, time.Time{}, true, false
		}
		from = time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 1, 0), true, true
	default:
		from = time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(1, 0, 0), true, true
	}
}

// applyRecordQuery narrows q to the records selected by query, in the order
// scope, date range, calendar, category. familyID must already be resolved
// when the scope is ScopeFamily.
//
// Dates are bound as YYYY-MM-DD strings: PostgreSQL coerces them to date and
// SQLite compares them lexically against its stored timestamps.
func applyRecordQuery(q *gorm.DB, userID, familyID string, query RecordQuery) *gorm.DB {
	switch query.Scope {
	case ScopePersonal:
		q = q.Where("expense_records.user_id = ? AND expense_records.family_id IS NULL", userID)
	case ScopeFamily:
		q = q.Where("expense_records.family_id = ?", familyID)
	default:
		q = q.Where("expense_records.user_id = ?", userID)
	}

	if r := query.DateRange; r != nil {
		q = q.Where("expense_records.date >= ? AND expense_records.date < ?",
			r.Start.Format(models.DateLayout), r.End.AddDate(0, 0, 1).Format(models.DateLayout))
	}

	if from, to, applied, valid := query.calendarRange(); applied {
		if !valid {
			q = q.Where("1 = 0")
		} else {
			q = q.Where("expense_records.date >= ? AND expense_records.date < ?",
				from.Format(models.DateLayout), to.Format(models.DateLayout))
		}
	}

	if query.CategoryID != nil {
		q = q.Where("expense_records.category_id = ?", *query.CategoryID)
	}
	return q
}
