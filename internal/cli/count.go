package cli

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/syedshahzad7/diabetes-visualization/internal/dataset"
	"github.com/syedshahzad7/diabetes-visualization/internal/execcontext"
	"github.com/syedshahzad7/diabetes-visualization/internal/style"
	"github.com/syedshahzad7/diabetes-visualization/internal/summary"
)

// loader is shared by every command; tests swap in a fake S3 client.
var loader = &dataset.Loader{}

// countLabels runs load, validate, summarize and report. Nothing is written to
// stdout unless every step before the report succeeds.
func countLabels(runCtx execcontext.RunContext, path string, where []string) error {
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

	return writeSummary(runCtx, summary.Summarize(ds))
}

// loadDataset loads path and checks for the label column.
func loadDataset(runCtx execcontext.RunContext, path string) (*dataset.Dataset, error) {
	start := time.Now()

	if showProgress() {
		s := style.NewSpinner(runCtx.StdErr)
		s.SetSuffix(" Loading " + path)
		s.Start()
		defer s.Stop()
	}

	ds, err := loader.Load(runCtx.Context, path)
	if err != nil {
		return nil, err
	}

	if err := summary.Validate(ds); err != nil {
		return nil, err
	}

	log.Info().
		Str("path", path).
		Int("rows", ds.Len()).
		Dur("duration", time.Since(start)).
		Msg("Dataset ready")

	return ds, nil
}

func writeSummary(runCtx execcontext.RunContext, s summary.Summary) error {
	switch format := viper.GetString("output"); format {
	case "json":
		return style.PrintJSON(runCtx.StdOut, s)
	case "yaml":
		return style.PrintYAML(runCtx.StdOut, s)
	case "text", "":
		return summary.Report(runCtx.StdOut, s)
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}

func showProgress() bool {
	return !viper.GetBool("quiet") && viper.GetString("output") == "text"
}
