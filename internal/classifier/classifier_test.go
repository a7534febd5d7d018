package classifier

import (
	"testing"
	"time"

	"fjacquet/toll-expense/internal/holiday"
	"fjacquet/toll-expense/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(y int, m time.Month, d int, tod models.TimeOfDay) models.TransactionRecord {
	return models.TransactionRecord{
		TransponderID: "3857335",
		Date:          time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Time:          tod,
		Location:      "Plaza A",
		Amount:        decimal.RequireFromString("5.00"),
		TollType:      "E",
	}
}

func TestClassify_Scenarios(t *testing.T) {
	c := New(nil, DefaultWorkWindow)

	tests := []struct {
		name        string
		rec         models.TransactionRecord
		category    models.Category
		reason      models.Reason
		holidayName string
	}{
		{"christmas wednesday in window", record(2024, time.December, 25, models.NewTimeOfDay(10, 0, 0)),
			models.NonExpensable, models.ReasonChristmas, holiday.ChristmasDay},
		{"new year wednesday", record(2025, time.January, 1, models.NewTimeOfDay(9, 0, 0)),
			models.NonExpensable, models.ReasonHoliday, holiday.NewYearsDay},
		{"saturday in window", record(2025, time.January, 4, models.NewTimeOfDay(12, 0, 0)),
			models.NonExpensable, models.ReasonWeekend, ""},
		{"sunday christmas is weekend", record(2022, time.December, 25, models.NewTimeOfDay(12, 0, 0)),
			models.NonExpensable, models.ReasonWeekend, ""},
		{"weekday early morning", record(2025, time.January, 6, models.NewTimeOfDay(6, 59, 59)),
			models.NonExpensable, models.ReasonOutsideWorkHours, ""},
		{"weekday late evening", record(2025, time.January, 6, models.NewTimeOfDay(21, 15, 0)),
			models.NonExpensable, models.ReasonOutsideWorkHours, ""},
		{"memorial day", record(2025, time.May, 26, models.NewTimeOfDay(12, 0, 0)),
			models.NonExpensable, models.ReasonHoliday, holiday.MemorialDay},
		{"plain workday", record(2025, time.January, 6, models.NewTimeOfDay(12, 0, 0)),
			models.Expensable, models.ReasonNone, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.rec)
			assert.Equal(t, tt.category, got.Category)
			assert.Equal(t, tt.reason, got.Reason)
			assert.Equal(t, tt.holidayName, got.HolidayName)
			assert.Equal(t, tt.rec, got.Record)
		})
	}
}

func TestClassify_WindowBoundariesInclusive(t *testing.T) {
	windows := []WorkWindow{
		DefaultWorkWindow,
		{Start: models.NewTimeOfDay(7, 30, 0), End: models.NewTimeOfDay(20, 0, 0)},
	}
	for _, w := range windows {
		t.Run(w.String(), func(t *testing.T) {
			c := New(nil, w)
			monday := func(tod models.TimeOfDay) models.ClassificationResult {
				return c.Classify(record(2025, time.January, 6, tod))
			}

			assert.Equal(t, models.Expensable, monday(w.Start).Category)
			assert.Equal(t, models.Expensable, monday(w.End).Category)

			before := monday(w.Start - 1)
			assert.Equal(t, models.NonExpensable, before.Category)
			assert.Equal(t, models.ReasonOutsideWorkHours, before.Reason)

			after := monday(w.End + 1)
			assert.Equal(t, models.NonExpensable, after.Category)
			assert.Equal(t, models.ReasonOutsideWorkHours, after.Reason)
		})
	}
}

func TestProperty_WeekendAlwaysWeekend(t *testing.T) {
	c := New(nil, DefaultWorkWindow)
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	for day := 0; day < 3*365; day++ {
		d := start.AddDate(0, 0, day)
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			continue
		}
		for _, tod := range []models.TimeOfDay{0, models.NewTimeOfDay(12, 0, 0), models.NewTimeOfDay(23, 59, 59)} {
			got := c.Classify(record(d.Year(), d.Month(), d.Day(), tod))
			require.Equal(t, models.ReasonWeekend, got.Reason, d.Format("2006-01-02"))
		}
	}
}

func TestProperty_WeekdayHolidaysNeverExpensable(t *testing.T) {
	c := New(nil, DefaultWorkWindow)
	noon := models.NewTimeOfDay(12, 0, 0)
	for year := 2000; year <= 2050; year++ {
		for _, e := range holiday.New(year).Entries() {
			if e.Date.Weekday() == time.Saturday || e.Date.Weekday() == time.Sunday {
				continue
			}
			got := c.Classify(record(year, e.Date.Month(), e.Date.Day(), noon))
			require.Equal(t, models.NonExpensable, got.Category)
			if e.Name == holiday.ChristmasDay {
				assert.Equal(t, models.ReasonChristmas, got.Reason)
			} else {
				assert.Equal(t, models.ReasonHoliday, got.Reason)
			}
			assert.Equal(t, e.Name, got.HolidayName)
			assert.False(t, c.IsExpensable(e.Date, noon))
		}
	}
}

func TestClassifyAll_YearBoundary(t *testing.T) {
	c := New(holiday.NewSet(), DefaultWorkWindow)
	results := c.ClassifyAll([]models.TransactionRecord{
		record(2024, time.December, 31, models.NewTimeOfDay(9, 0, 0)),
		record(2025, time.January, 1, models.NewTimeOfDay(9, 0, 0)),
		record(2025, time.January, 2, models.NewTimeOfDay(9, 0, 0)),
	})
	require.Len(t, results, 3)
	assert.Equal(t, models.Expensable, results[0].Category)
	assert.Equal(t, models.ReasonHoliday, results[1].Reason)
	assert.Equal(t, models.Expensable, results[2].Category)
}

func TestWorkWindow(t *testing.T) {
	w, err := ParseWorkWindow("07:30:00", "20:00:00")
	require.NoError(t, err)
	assert.Equal(t, "7:30AM-8PM", w.String())
	assert.Equal(t, "8AM-8PM", DefaultWorkWindow.String())

	_, err = ParseWorkWindow("20:00:00", "08:00:00")
	assert.Error(t, err)
	_, err = ParseWorkWindow("bad", "08:00:00")
	assert.Error(t, err)
	_, err = NewWorkWindow(-1, 10)
	assert.Error(t, err)

	midnight, err := NewWorkWindow(0, models.NewTimeOfDay(12, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, "12AM-12PM", midnight.String())
}
