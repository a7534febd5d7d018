package receipt

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/toll-expense/cmd/root"
	"fjacquet/toll-expense/internal/config"
	"fjacquet/toll-expense/internal/container"
	"fjacquet/toll-expense/internal/logging"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statement = `Account Activity
Date,Description,Amount
01-Jan-2025,Payment,-50.00
Vehicle Activity
Transponder Number,Date,Time,Posting Date,Location,Amount,Toll Type
38573350001,06-Jan-2025,09:00:00,07-Jan-2025,Route 9 North,2.50,Toll
38573350001,06-Jan-2025,22:00:00,07-Jan-2025,Late Exit,1.00,Toll
99999990001,07-Jan-2025,10:00:00,08-Jan-2025,Other Car,4.00,Toll
`

func setup(t *testing.T) string {
	t.Helper()
	cfg := config.Default()
	cfg.Receipt.TransponderPrefix = "3857335"
	c, err := container.NewContainerWithLogger(cfg, logging.NewRecorder(nil))
	require.NoError(t, err)

	prev := root.AppContainer
	root.SetContainer(c)
	t.Cleanup(func() {
		root.AppContainer = prev
		year, inputDir = 0, "."
	})

	d := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(d, "01_2025.csv"), []byte(statement), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(d, "02_2025.csv"), []byte("no sections\n"), 0o600))
	return d
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	err := runReceipt(cmd, args)
	return out.String(), err
}

func TestReceiptCommand_Metadata(t *testing.T) {
	assert.Equal(t, "receipt [file...]", Cmd.Use)
	assert.Contains(t, Cmd.Long, "Account Activity")
	assert.Contains(t, Cmd.Long, "Example")
	assert.NotNil(t, Cmd.Flags().Lookup("year"))
	assert.NotNil(t, Cmd.Flags().Lookup("dir"))
}

func TestReceipt_Files(t *testing.T) {
	d := setup(t)
	out, err := run(t, filepath.Join(d, "01_2025.csv"))
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote receipt_01_2025.csv: 1 rows kept, total $2.50")

	data, err := os.ReadFile(filepath.Join(d, "receipt_01_2025.csv"))
	require.NoError(t, err)
	assert.Equal(t, `Account Activity
Date,Description,Amount
01-Jan-2025,Payment,-50.00
Vehicle Activity
Transponder Number,Date,Time,Posting Date,Location,Amount,Toll Type
38573350001,06-Jan-2025,09:00:00,07-Jan-2025,Route 9 North,2.50,Toll
"","","","","TOTAL EXPENSABLE","2.50",""
`, string(data))
}

func TestReceipt_YearSkipsFilesWithoutSections(t *testing.T) {
	d := setup(t)
	year = 2025
	inputDir = d

	out, err := run(t)
	require.NoError(t, err)
	assert.Contains(t, out, "Skipping "+filepath.Join(d, "02_2025.csv"))
	assert.Contains(t, out, "Receipts written: 1 of 2, combined total $2.50")
}

func TestReceipt_NoInput(t *testing.T) {
	setup(t)
	_, err := run(t)
	assert.Error(t, err)
}

func TestReceipt_WarnsWithoutPrefix(t *testing.T) {
	d := setup(t)
	rec, ok := root.AppContainer.GetLogger().(*logging.Recorder)
	require.True(t, ok)
	_, err := run(t, filepath.Join(d, "01_2025.csv"))
	require.NoError(t, err)
	assert.Empty(t, rec.EntriesByLevel(logging.LevelWarn))

	rec = logging.NewRecorder(nil)
	c, err := container.NewContainerWithLogger(config.Default(), rec)
	require.NoError(t, err)
	root.SetContainer(c)

	out, err := run(t, filepath.Join(d, "01_2025.csv"))
	require.NoError(t, err)
	assert.True(t, rec.HasEntry(logging.LevelWarn, "No transponder prefix configured, rows of every transponder are kept"))
	assert.Contains(t, out, "2 rows kept", "rows of other transponders are kept")
}
