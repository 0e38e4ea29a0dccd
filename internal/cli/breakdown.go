package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/syedshahzad7/diabetes-visualization/internal/dataset"
	"github.com/syedshahzad7/diabetes-visualization/internal/execcontext"
	"github.com/syedshahzad7/diabetes-visualization/internal/style"
	"github.com/syedshahzad7/diabetes-visualization/internal/summary"
)

var (
	breakdownBy         string
	breakdownIndicators string
	breakdownWhere      []string
)

// breakdownCmd represents the breakdown command
var breakdownCmd = &cobra.Command{
	Use:   "breakdown [dataset.csv]",
	Short: "Count label classes per group",
	Long: `Group records and report total, diabetic and non-diabetic counts plus the
diabetic rate for every group.

--by groups on the values of one column; records with a missing value are left
out. --indicators treats every column starting with the prefix as a one-hot
indicator and reports the records where it equals 1.`,
	Example: `
  labelcount breakdown --by gender
  labelcount breakdown --by location --output json
  labelcount breakdown --indicators race:
  labelcount breakdown --by smoking_history --where gender=Female`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return breakdownLabels(newRunContext(cmd), datasetPath(args), breakdownBy, breakdownIndicators, breakdownWhere)
	},
}

func init() {
	rootCmd.AddCommand(breakdownCmd)

	breakdownCmd.Flags().StringVar(&breakdownBy, "by", "", "column to group by")
	breakdownCmd.Flags().StringVar(&breakdownIndicators, "indicators", "", "prefix of one-hot indicator columns")
	breakdownCmd.Flags().StringArrayVarP(&breakdownWhere, "where", "w", nil, "only count records where column=value (repeatable)")
	breakdownCmd.MarkFlagsMutuallyExclusive("by", "indicators")
	breakdownCmd.MarkFlagsOneRequired("by", "indicators")
}

func breakdownLabels(runCtx execcontext.RunContext, path, by, indicators string, where []string) error {
	if (by == "") == (indicators == "") {
		return errors.New("exactly one of --by or --indicators is required")
	}

	conds, err := dataset.ParseConditions(where)
	if err != nil {
		return err
	}

	ds, err := loadDataset(runCtx, path)
	if err != nil {
		return err
	}

	ds, err = ds.Where(conds...)
	if err != nil {
		return err
	}

	var b summary.Breakdown
	if by != "" {
		b, err = summary.BreakdownBy(ds, by)
	} else {
		b, err = summary.IndicatorBreakdown(ds, indicators)
	}
	if err != nil {
		return err
	}

	switch format := viper.GetString("output"); format {
	case "json":
		return style.PrintJSON(runCtx.StdOut, b)
	case "yaml":
		return style.PrintYAML(runCtx.StdOut, b)
	case "text", "":
		printBreakdown(runCtx, b)
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}

func printBreakdown(runCtx execcontext.RunContext, b summary.Breakdown) {
	title := b.Column
	if title == "" {
		title = "indicator"
	}

	headers := []string{title, "Total", "Diabetic", "Non-diabetic", "Rate"}
	rows := make([][]string, len(b.Groups))
	for i, g := range b.Groups {
		rows[i] = []string{
			g.Key,
			strconv.Itoa(g.Total),
			strconv.Itoa(g.Positive),
			strconv.Itoa(g.Negative),
			fmt.Sprintf("%.1f%%", g.Rate*100),
		}
	}

	style.PrintTable(runCtx.StdOut, headers, rows)
}
