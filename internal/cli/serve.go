package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/syedshahzad7/diabetes-visualization/internal/execcontext"
	"github.com/syedshahzad7/diabetes-visualization/internal/server"
	"github.com/syedshahzad7/diabetes-visualization/internal/style"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve [dataset.csv]",
	Short: "Serve dataset summaries over HTTP",
	Long: `Load the dataset once and serve its label counts over a read-only JSON API.

Endpoints:
  GET /api/v1/summary               label counts (?where=column=value, repeatable)
  GET /api/v1/breakdown/{column}    counts per value of a column
  GET /api/v1/indicators/{prefix}   counts per one-hot indicator column
  GET /health                       liveness
  GET /metrics                      Prometheus metrics`,
	Example: `
  labelcount serve
  labelcount serve --port 9000 --host 0.0.0.0 cohort.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return startServer(newRunContext(cmd), datasetPath(args))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	defaults := server.DefaultConfig()
	serveCmd.Flags().IntP("port", "p", defaults.Port, "server port")
	serveCmd.Flags().String("host", defaults.Host, "server host")
	serveCmd.Flags().Bool("metrics", defaults.EnableMetrics, "enable Prometheus metrics endpoint")
	serveCmd.Flags().Bool("cors", defaults.EnableCORS, "enable CORS headers")
	serveCmd.Flags().Duration("shutdown-timeout", defaults.ShutdownTimeout, "grace period for in-flight requests")

	_ = viper.BindPFlag("serve.port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("serve.host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("serve.metrics", serveCmd.Flags().Lookup("metrics"))
	_ = viper.BindPFlag("serve.cors", serveCmd.Flags().Lookup("cors"))
	_ = viper.BindPFlag("serve.shutdown-timeout", serveCmd.Flags().Lookup("shutdown-timeout"))
}

// serverConfig builds the server configuration from viper.
func serverConfig() *server.Config {
	config := server.DefaultConfig()
	config.Host = viper.GetString("serve.host")
	config.Port = viper.GetInt("serve.port")
	config.EnableMetrics = viper.GetBool("serve.metrics")
	config.EnableCORS = viper.GetBool("serve.cors")
	if timeout := viper.GetDuration("serve.shutdown-timeout"); timeout > 0 {
		config.ShutdownTimeout = timeout
	}
	return config
}

func startServer(runCtx execcontext.RunContext, path string) error {
	ds, err := loadDataset(runCtx, path)
	if err != nil {
		return err
	}

	srv, err := server.New(serverConfig(), ds)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	if err := srv.Start(); err != nil {
		return err
	}

	if !viper.GetBool("quiet") {
		style.Success(runCtx.StdErr, fmt.Sprintf("Serving %s (%d records) at http://%s", style.FormatFilePath(path), ds.Len(), srv.GetAddr()))
		style.Info(runCtx.StdErr, fmt.Sprintf("API: http://%s/api/v1/summary", srv.GetAddr()))
		if viper.GetBool("serve.metrics") {
			style.Info(runCtx.StdErr, fmt.Sprintf("Metrics: http://%s/metrics", srv.GetAddr()))
		}
	}

	return srv.Wait(runCtx.Context)
}
