package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syedshahzad7/diabetes-visualization/internal/dataset"
)

func TestBalanceDataset(t *testing.T) {
	out := filepath.Join(t.TempDir(), "balanced.csv")

	runCtx, stdout, stderr := newRunContextForTest()
	require.NoError(t, balanceDataset(runCtx, "testdata/cohort.csv", 2, out))

	assert.Equal(t, "Total records: 4\nDiabetic (diabetes = 1): 2\nNon-diabetic (diabetes = 0): 2\n", stdout.String())
	assert.Contains(t, re.ReplaceAllString(stderr.String(), ""), "Wrote 4 records to "+out)

	balanced, err := dataset.Load(runCtx.Context, out)
	require.NoError(t, err)
	assert.Equal(t, []string{"gender", "age", "location", "smoking_history", "race:Asian", "race:Caucasian", "diabetes"}, balanced.Columns())

	ages, err := balanced.Frame.Col("age").Int()
	require.NoError(t, err)
	assert.Equal(t, []int{54, 72, 50, 33}, ages)
}

func TestBalanceDatasetWithoutOutput(t *testing.T) {
	runCtx, stdout, _ := newRunContextForTest()
	require.NoError(t, balanceDataset(runCtx, "testdata/cohort.csv", 8500, ""))

	assert.Equal(t, "Total records: 6\nDiabetic (diabetes = 1): 3\nNon-diabetic (diabetes = 0): 3\n", stdout.String())
}

func TestBalanceDatasetMissingLabel(t *testing.T) {
	runCtx, stdout, _ := newRunContextForTest()

	err := balanceDataset(runCtx, "testdata/count/missing_column/dataset.csv", 10, "")
	require.Error(t, err)
	assert.Empty(t, stdout.String())
}

func TestBalanceFlags(t *testing.T) {
	flag := balanceCmd.Flags().Lookup("cap")
	require.NotNil(t, flag)
	assert.Equal(t, "8500", flag.DefValue)

	flag = balanceCmd.Flags().Lookup("out")
	require.NotNil(t, flag)
	assert.Equal(t, "o", flag.Shorthand)
}

func TestBalanceDatasetWarnsWhenShortOfNegatives(t *testing.T) {
	runCtx, stdout, stderr := newRunContextForTest()
	require.NoError(t, balanceDataset(runCtx, "testdata/count/five_rows/dataset.csv", 8500, ""))

	assert.Equal(t, "Total records: 5\nDiabetic (diabetes = 1): 3\nNon-diabetic (diabetes = 0): 2\n", stdout.String())
	assert.Contains(t, re.ReplaceAllString(stderr.String(), ""), "Only 2 non-diabetic records for 3 diabetic records")
}

func TestBalanceDatasetBalancedHasNoWarning(t *testing.T) {
	runCtx, _, stderr := newRunContextForTest()
	require.NoError(t, balanceDataset(runCtx, "testdata/cohort.csv", 8500, ""))

	assert.NotContains(t, stderr.String(), "not balanced")
}
