package cli

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/syedshahzad7/diabetes-visualization/internal/summary"
)

// SchemaOutput holds the JSON Schemas of the documents written with --output json.
type SchemaOutput struct {
	Summary   *jsonschema.Schema `json:"summary"`
	Breakdown *jsonschema.Schema `json:"breakdown"`
}

// schemaCmd represents the schema command
var schemaCmd = &cobra.Command{
	Use:    "schema",
	Short:  "Output JSON schemas of the JSON output",
	Long:   `Output the JSON Schemas describing the summary and breakdown documents produced with --output json.`,
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputBytes, err := json.MarshalIndent(outputSchemas(), "", "  ")
		if err != nil {
			return fmt.Errorf("marshal schema: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(outputBytes))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

func outputSchemas() SchemaOutput {
	reflector := &jsonschema.Reflector{
		DoNotReference: true,
	}

	return SchemaOutput{
		Summary:   reflector.Reflect(&summary.Summary{}),
		Breakdown: reflector.Reflect(&summary.Breakdown{}),
	}
}
