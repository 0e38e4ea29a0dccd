package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/syedshahzad7/diabetes-visualization/internal/execcontext"
	"github.com/syedshahzad7/diabetes-visualization/internal/style"
	"github.com/syedshahzad7/diabetes-visualization/internal/summary"
)

var (
	balanceCap int
	balanceOut string
)

// balanceCmd represents the balance command
var balanceCmd = &cobra.Command{
	Use:   "balance [dataset.csv]",
	Short: "Build a class-balanced sample of the dataset",
	Long: `Keep the first --cap diabetic records and sample the same number of
non-diabetic records with a fixed pseudo-random score, so repeated runs select
the same rows. The counts of the balanced sample are printed; --out also writes
it as CSV.`,
	Example: `
  labelcount balance
  labelcount balance --cap 1000 --out balanced.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return balanceDataset(newRunContext(cmd), datasetPath(args), balanceCap, balanceOut)
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)

	balanceCmd.Flags().IntVar(&balanceCap, "cap", summary.DefaultBalanceCap, "maximum number of diabetic records to keep")
	balanceCmd.Flags().StringVarP(&balanceOut, "out", "o", "", "write the balanced records to this CSV file")
}

func balanceDataset(runCtx execcontext.RunContext, path string, limit int, out string) error {
	ds, err := loadDataset(runCtx, path)
	if err != nil {
		return err
	}

	balanced, err := summary.Balance(ds, limit)
	if err != nil {
		return err
	}

	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		if err := balanced.WriteCSV(f); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", out, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", out, err)
		}

		if !viper.GetBool("quiet") {
			style.Success(runCtx.StdErr, fmt.Sprintf("Wrote %d records to %s", balanced.Len(), style.FormatFilePath(out)))
		}
	}

	counts := summary.Summarize(balanced)
	if counts.Negative < counts.Positive && !viper.GetBool("quiet") {
		style.Warning(runCtx.StdErr, fmt.Sprintf("Only %d non-diabetic records for %d diabetic records; the sample is not balanced", counts.Negative, counts.Positive))
	}

	return writeSummary(runCtx, counts)
}
