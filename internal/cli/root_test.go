package cli

import (
	"bytes"
	"flag"
	"os"
	"regexp"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syedshahzad7/diabetes-visualization/internal/dataset"
	"github.com/syedshahzad7/diabetes-visualization/internal/style"
	_ "github.com/syedshahzad7/diabetes-visualization/internal/testhelper"
)

const ansi = "[\u001B\u009B][[\\]()#;?]*(?:(?:(?:[a-zA-Z\\d]*(?:;[a-zA-Z\\d]*)*)?\u0007)|(?:(?:\\d{1,4}(?:;\\d{0,4})*)?[\\dA-PRZcf-ntqry=><~]))"

var (
	// use the rewrite-golden flag to rewrite the golden files
	rewriteGolden = flag.Bool("rewrite-golden", false, "rewrite the golden files")

	re = regexp.MustCompile(ansi)
)

func TestMain(m *testing.M) {
	flag.Parse()
	_ = os.Setenv(style.TestEnv, "true")
	os.Exit(m.Run())
}

func TestGetVersion(t *testing.T) {
	version := getVersion()
	assert.Contains(t, version, "dev")
	assert.Contains(t, version, "unknown")
}

func TestInitLogging(t *testing.T) {
	require.NotPanics(t, func() {
		initLogging()
	})
}

func TestInitConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NotPanics(t, func() {
		initConfig()
	})
}

func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	// Create a copy of the root command to avoid modifying the global one
	cmd := &cobra.Command{
		Use:   root.Use,
		Short: root.Short,
		Long:  root.Long,
		Args:  root.Args,
		RunE:  root.RunE,
	}

	// Copy all subcommands
	for _, subCmd := range root.Commands() {
		cmd.AddCommand(subCmd)
	}

	// Copy flags
	cmd.Flags().AddFlagSet(root.Flags())
	cmd.PersistentFlags().AddFlagSet(root.PersistentFlags())

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return buf.String(), err
}

func TestRootCommand(t *testing.T) {
	output, err := executeCommand(rootCmd, "--help")
	assert.NoError(t, err)
	assert.Contains(t, output, "labelcount loads a CSV dataset")
	assert.Contains(t, output, "Available Commands:")
}

func TestRootCommandCountsDataset(t *testing.T) {
	output, err := executeCommand(rootCmd, "testdata/cohort.csv")
	require.NoError(t, err)
	assert.Contains(t, output, "Total records: 8\nDiabetic (diabetes = 1): 3\nNon-diabetic (diabetes = 0): 4\n")
}

func TestRootCommandTooManyArgs(t *testing.T) {
	_, err := executeCommand(rootCmd, "a.csv", "b.csv")
	assert.Error(t, err)
}

func TestGlobalFlags(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("config")
	assert.NotNil(t, flag)
	assert.Equal(t, "string", flag.Value.Type())

	flag = rootCmd.PersistentFlags().Lookup("log-level")
	assert.NotNil(t, flag)
	assert.Equal(t, "disabled", flag.DefValue)

	flag = rootCmd.PersistentFlags().Lookup("output")
	assert.NotNil(t, flag)
	assert.Equal(t, "text", flag.DefValue)

	flag = rootCmd.PersistentFlags().Lookup("quiet")
	assert.NotNil(t, flag)
	assert.Equal(t, "bool", flag.Value.Type())

	flag = rootCmd.PersistentFlags().Lookup("verbose")
	assert.NotNil(t, flag)
	assert.Equal(t, "bool", flag.Value.Type())

	flag = rootCmd.Flags().Lookup("where")
	assert.NotNil(t, flag)
	assert.Equal(t, "stringArray", flag.Value.Type())
}

func TestCommandAvailability(t *testing.T) {
	commands := []string{"breakdown", "balance", "serve", "schema", "version", "update"}

	for _, cmdName := range commands {
		cmd, _, err := rootCmd.Find([]string{cmdName})
		assert.NoError(t, err, "Command %s should be available", cmdName)
		assert.Equal(t, cmdName, cmd.Name(), "Command name should match")
	}
}

func TestDatasetPath(t *testing.T) {
	assert.Equal(t, "cohort.csv", datasetPath([]string{"cohort.csv"}))
	assert.Equal(t, dataset.DefaultPath, datasetPath(nil))

	setViper(t, "data", "s3://cohorts/diabetes.csv")
	assert.Equal(t, "s3://cohorts/diabetes.csv", datasetPath(nil))
	assert.Equal(t, "local.csv", datasetPath([]string{"local.csv"}))
}

// setViper overrides a config key for the duration of the test.
func setViper(t *testing.T, key string, value any) {
	t.Helper()

	original := viper.Get(key)
	viper.Set(key, value)
	t.Cleanup(func() {
		viper.Set(key, original)
	})
}
