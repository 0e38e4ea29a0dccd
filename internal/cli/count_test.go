package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stoewer/go-strcase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syedshahzad7/diabetes-visualization/internal/execcontext"
	"github.com/syedshahzad7/diabetes-visualization/internal/summary"
)

func Test_FiveRows(t *testing.T) {
	newSingleDirectoryCountTest(t)
}

func Test_HeaderOnly(t *testing.T) {
	newSingleDirectoryCountTest(t)
}

func Test_MissingColumn(t *testing.T) {
	newSingleDirectoryCountTest(t)
}

func Test_MissingValues(t *testing.T) {
	newSingleDirectoryCountTest(t)
}

func Test_FloatLabels(t *testing.T) {
	newSingleDirectoryCountTest(t)
}

func Test_TextLabels(t *testing.T) {
	newSingleDirectoryCountTest(t)
}

func Test_BoolLabels(t *testing.T) {
	newSingleDirectoryCountTest(t)
}

func Test_MixedBoolLabels(t *testing.T) {
	newSingleDirectoryCountTest(t)
}

func Test_RaggedRows(t *testing.T) {
	newSingleDirectoryCountTest(t)
}

func Test_MissingFile(t *testing.T) {
	newSingleDirectoryCountTest(t)
}

func newRunContextForTest() (execcontext.RunContext, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return execcontext.RunContext{
		Context: context.Background(),
		StdOut:  stdout,
		StdErr:  stderr,
	}, stdout, stderr
}

func newSingleDirectoryCountTest(t *testing.T) {
	t.Helper()

	// get the function name from the caller (i.e. the function that called this function)
	pc, _, _, _ := runtime.Caller(1)
	funcName := runtime.FuncForPC(pc).Name()
	if idx := strings.LastIndex(funcName, "."); idx != -1 {
		funcName = funcName[idx+1:]
	}

	funcName = strings.TrimPrefix(funcName, "Test_")
	directory := "testdata/count/" + strcase.SnakeCase(funcName)

	runCtx, stdout, stderr := newRunContextForTest()
	err := countLabels(runCtx, filepath.Join(directory, "dataset.csv"), nil)
	if err != nil {
		assert.Empty(t, stdout.String(), "no report may be written on failure")
	}

	assertGoldenFile(t, directory, stdout, stderr, err)
}

func assertGoldenFile(t *testing.T, directory string, stdout, stderr *bytes.Buffer, runErr error) {
	t.Helper()

	actual := re.ReplaceAllString(stdout.String(), "") + "\nSTDERR:\n" + re.ReplaceAllString(stderr.String(), "")
	if runErr != nil {
		actual += "\nERROR:\n" + runErr.Error() + "\n"
	}

	goldenFile := filepath.Join(directory, "golden.txt")
	if *rewriteGolden {
		require.NoError(t, os.WriteFile(goldenFile, []byte(actual), 0644))
		return
	}

	golden, err := os.ReadFile(goldenFile)
	require.NoError(t, err)

	if string(golden) != actual {
		dmp := diffmatchpatch.New()
		diffs := dmp.DiffMain(string(golden), actual, false)
		_ = os.WriteFile(filepath.Join(directory, "actual.txt"), []byte(actual), 0644)
		t.Errorf("output does not match %s:\n%s", goldenFile, dmp.DiffPrettyText(diffs))
	}
}

func TestCountLabelsIsRepeatable(t *testing.T) {
	path := "testdata/count/five_rows/dataset.csv"

	firstCtx, first, _ := newRunContextForTest()
	require.NoError(t, countLabels(firstCtx, path, nil))

	secondCtx, second, _ := newRunContextForTest()
	require.NoError(t, countLabels(secondCtx, path, nil))

	assert.NotEmpty(t, first.String())
	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestCountLabelsClassesCoverBinaryLabels(t *testing.T) {
	setViper(t, "output", "json")

	runCtx, stdout, _ := newRunContextForTest()
	require.NoError(t, countLabels(runCtx, "testdata/count/five_rows/dataset.csv", nil))

	var got summary.Summary
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	assert.Equal(t, 5, got.Total)
	assert.Equal(t, got.Total, got.Positive+got.Negative)
}

func TestCountLabelsWhere(t *testing.T) {
	tests := []struct {
		name  string
		where []string
		want  string
	}{
		{
			name:  "single filter",
			where: []string{"gender=Female"},
			want:  "Total records: 4\nDiabetic (diabetes = 1): 2\nNon-diabetic (diabetes = 0): 1\n",
		},
		{
			name:  "filters combine",
			where: []string{"location=Texas", "gender=Male"},
			want:  "Total records: 1\nDiabetic (diabetes = 1): 1\nNon-diabetic (diabetes = 0): 0\n",
		},
		{
			name:  "numeric column",
			where: []string{"age=54"},
			want:  "Total records: 1\nDiabetic (diabetes = 1): 1\nNon-diabetic (diabetes = 0): 0\n",
		},
		{
			name:  "no match",
			where: []string{"location=Ohio"},
			want:  "Total records: 0\nDiabetic (diabetes = 1): 0\nNon-diabetic (diabetes = 0): 0\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runCtx, stdout, _ := newRunContextForTest()
			require.NoError(t, countLabels(runCtx, "testdata/cohort.csv", tt.where))
			assert.Equal(t, tt.want, stdout.String())
		})
	}
}

func TestCountLabelsBadFilter(t *testing.T) {
	runCtx, stdout, stderr := newRunContextForTest()

	err := countLabels(runCtx, "testdata/cohort.csv", []string{"gender"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected column=value")
	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String(), "filters are checked before loading")
}

func TestCountLabelsUnknownFilterColumn(t *testing.T) {
	runCtx, stdout, _ := newRunContextForTest()

	err := countLabels(runCtx, "testdata/cohort.csv", []string{"state=Ohio"})
	require.Error(t, err)
	assert.Equal(t, "Column 'state' not found in the dataset.", err.Error())
	assert.Empty(t, stdout.String())
}

func TestCountLabelsJSON(t *testing.T) {
	setViper(t, "output", "json")

	runCtx, stdout, stderr := newRunContextForTest()
	require.NoError(t, countLabels(runCtx, "testdata/cohort.csv", nil))

	var got summary.Summary
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	assert.Equal(t, summary.Summary{File: "testdata/cohort.csv", Total: 8, Positive: 3, Negative: 4}, got)
	assert.Empty(t, stderr.String(), "no spinner for machine readable output")
}

func TestCountLabelsYAML(t *testing.T) {
	setViper(t, "output", "yaml")

	runCtx, stdout, _ := newRunContextForTest()
	require.NoError(t, countLabels(runCtx, "testdata/cohort.csv", nil))

	assert.Equal(t, "file: testdata/cohort.csv\ntotal: 8\npositive: 3\nnegative: 4\n", stdout.String())
}

func TestCountLabelsUnknownFormat(t *testing.T) {
	setViper(t, "output", "xml")

	runCtx, stdout, _ := newRunContextForTest()
	err := countLabels(runCtx, "testdata/cohort.csv", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown output format "xml"`)
	assert.Empty(t, stdout.String())
}

func TestCountLabelsQuiet(t *testing.T) {
	setViper(t, "quiet", true)

	runCtx, _, stderr := newRunContextForTest()
	require.NoError(t, countLabels(runCtx, "testdata/cohort.csv", nil))
	assert.Empty(t, stderr.String())
}
