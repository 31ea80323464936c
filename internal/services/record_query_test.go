package services

import (
	"net/url"
	"testing"
	"time"

	"famledger/internal/testutil"
)

func intPtr(n int) *int { return &n }

func TestParseRecordScope(t *testing.T) {
	tests := map[string]RecordScope{
		"personal": ScopePersonal,
		"family":   ScopeFamily,
		"":         ScopeOwned,
		"owned":    ScopeOwned,
		"FAMILY":   ScopeOwned,
		"anything": ScopeOwned,
	}
	for input, want := range tests {
		if got := ParseRecordScope(input); got != want {
			t.Errorf("ParseRecordScope(%q) = %s, want %s", input, got, want)
		}
	}
}

func TestParseRecordQuery(t *testing.T) {
	t.Run("all_fields", func(t *testing.T) {
		q, err := ParseRecordQuery(url.Values{
			"type":       {"family"},
			"date_range": {"2024-01-01, 2024-01-31"},
			"year":       {"2024"},
			"month":      {"1"},
			"day":        {"15"},
			"category":   {missingID},
		})
		testutil.AssertNoError(t, err)

		if q.Scope != ScopeFamily {
			t.Errorf("expected family scope, got %s", q.Scope)
		}
		if q.DateRange == nil ||
			!q.DateRange.Start.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) ||
			!q.DateRange.End.Equal(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected date range %+v", q.DateRange)
		}
		if *q.Year != 2024 || *q.Month != 1 || *q.Day != 15 {
			t.Errorf("unexpected calendar fields %d-%d-%d", *q.Year, *q.Month, *q.Day)
		}
		if q.CategoryID == nil || *q.CategoryID != missingID {
			t.Errorf("unexpected category %v", q.CategoryID)
		}
	})

	t.Run("empty", func(t *testing.T) {
		q, err := ParseRecordQuery(url.Values{})
		testutil.AssertNoError(t, err)
		if q.Scope != ScopeOwned || q.DateRange != nil || q.Year != nil || q.CategoryID != nil {
			t.Errorf("expected an empty owned query, got %+v", q)
		}
	})

	t.Run("date_range_wrong_part_count_ignored", func(t *testing.T) {
		for _, raw := range []string{"2024-01-01", "2024-01-01,2024-01-02,2024-01-03"} {
			q, err := ParseRecordQuery(url.Values{"date_range": {raw}})
			testutil.AssertNoError(t, err)
			if q.DateRange != nil {
				t.Errorf("%q: expected date range to be ignored", raw)
			}
		}
	})

	invalid := map[string]url.Values{
		"bad_range_start": {"date_range": {"yesterday,2024-01-01"}},
		"bad_range_end":   {"date_range": {"2024-01-01,2024-13-01"}},
		"year":            {"year": {"twenty"}},
		"month":           {"year": {"2024"}, "month": {"1.5"}},
		"day":             {"day": {"x"}},
		"category":        {"category": {"food"}},
	}
	for name, values := range invalid {
		t.Run("invalid_"+name, func(t *testing.T) {
			_, err := ParseRecordQuery(values)
			testutil.AssertAppError(t, err, "INVALID_INPUT")
		})
	}
}

func TestCalendarRange(t *testing.T) {
	day := func(y, m, d int) time.Time { return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name             string
		query            RecordQuery
		wantFrom, wantTo time.Time
		wantApplied      bool
		wantValid        bool
	}{
		{"none", RecordQuery{}, time.Time{}, time.Time{}, false, false},
		{"month_without_year", RecordQuery{Month: intPtr(3)}, time.Time{}, time.Time{}, false, false},
		{"year", RecordQuery{Year: intPtr(2021)}, day(2021, 1, 1), day(2022, 1, 1), true, true},
		{"year_month", RecordQuery{Year: intPtr(2021), Month: intPtr(12)}, day(2021, 12, 1), day(2022, 1, 1), true, true},
		{"exact_day", RecordQuery{Year: intPtr(2021), Month: intPtr(10), Day: intPtr(5)}, day(2021, 10, 5), day(2021, 10, 6), true, true},
		{"day_without_month", RecordQuery{Year: intPtr(2021), Day: intPtr(5)}, day(2021, 1, 1), day(2022, 1, 1), true, true},
		{"month_13", RecordQuery{Year: intPtr(2021), Month: intPtr(13)}, time.Time{}, time.Time{}, true, false},
		{"feb_30", RecordQuery{Year: intPtr(2021), Month: intPtr(2), Day: intPtr(30)}, time.Time{}, time.Time{}, true, false},
		{"leap_day", RecordQuery{Year: intPtr(2024), Month: intPtr(2), Day: intPtr(29)}, day(2024, 2, 29), day(2024, 3, 1), true, true},
		{"year_zero", RecordQuery{Year: intPtr(0)}, time.Time{}, time.Time{}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, applied, valid := tt.query.calendarRange()
			if applied != tt.wantApplied || valid != tt.wantValid {
				t.Fatalf("applied=%v valid=%v, want %v %v", applied, valid, tt.wantApplied, tt.wantValid)
			}
			if !from.Equal(tt.wantFrom) || !to.Equal(tt.wantTo) {
				t.Errorf("range [%s, %s), want [%s, %s)", from, to, tt.wantFrom, tt.wantTo)
			}
		})
	}
}
