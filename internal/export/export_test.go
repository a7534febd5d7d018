package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fjacquet/toll-expense/internal/classifier"
	"fjacquet/toll-expense/internal/models"
	"fjacquet/toll-expense/internal/report"
	"fjacquet/toll-expense/internal/tollparser"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(day, hour int, amount, location string) models.TransactionRecord {
	posting := time.Date(2025, time.January, day+1, 0, 0, 0, 0, time.UTC)
	return models.TransactionRecord{
		TransponderID: "38573350001",
		Date:          time.Date(2025, time.January, day, 0, 0, 0, 0, time.UTC),
		Time:          models.NewTimeOfDay(hour, 15, 30),
		PostingDate:   &posting,
		Location:      location,
		Amount:        decimal.RequireFromString(amount),
		TollType:      "Toll",
	}
}

func TestMarshalExpensable(t *testing.T) {
	data, err := MarshalExpensable([]models.TransactionRecord{
		record(6, 9, "2.5", "Route 9 North"),
		record(7, 10, "3.00", "Bridge, Plaza"),
	}, "TOTAL EXPENSABLE")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, tollparser.HeaderSignature+",Weekday", lines[0])
	assert.Equal(t, "38573350001,06-Jan-2025,09:15:30,07-Jan-2025,Route 9 North,2.50,Toll,Monday", lines[1])
	assert.Equal(t, `38573350001,07-Jan-2025,10:15:30,08-Jan-2025,"Bridge, Plaza",3.00,Toll,Tuesday`, lines[2])
	assert.Equal(t, ",,,,TOTAL EXPENSABLE,5.50,,", lines[3])
}

func TestWriteExpensableCSV_RoundTrip(t *testing.T) {
	c := classifier.New(nil, classifier.DefaultWorkWindow)
	records := []models.TransactionRecord{
		record(6, 9, "2.50", "Route 9 North"),
		record(7, 22, "1.00", "Late Exit"),
		record(8, 12, "3.00", "Bridge, Plaza"),
		record(11, 12, "4.00", "Saturday Plaza"),
	}
	r := report.Aggregate(c.ClassifyAll(records), report.UnknownLabel, c.Window())

	path := ExpensablePath(filepath.Join(t.TempDir(), "01_2025.csv"))
	assert.Equal(t, "expensable_01_2025.csv", filepath.Base(path))
	require.NoError(t, WriteExpensableCSV(path, r, "TOTAL EXPENSABLE"))

	res, err := tollparser.NewParser(nil).ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, r.ExpensableRecords(), res.Records)
	assert.Equal(t, 1, res.Dropped, "total row has no date")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestMarshalExpensable_Empty(t *testing.T) {
	data, err := MarshalExpensable(nil, "TOTAL")
	require.NoError(t, err)
	assert.Equal(t, tollparser.HeaderSignature+",Weekday\n,,,,TOTAL,0.00,,\n", string(data))
}
