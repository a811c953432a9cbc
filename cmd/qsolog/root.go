package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/couchcryptid/qsolog/internal/merge"
	"github.com/couchcryptid/qsolog/internal/observability"
	"github.com/couchcryptid/qsolog/internal/pipeline"
)

const envPrefix = "QSOLOG"

// app carries state shared by every subcommand of one invocation.
type app struct {
	v       *viper.Viper
	logger  *slog.Logger
	metrics *observability.Metrics
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "qsolog",
		Short: "Merge and query amateur radio ADIF logs",
		Long: `qsolog reads one or more ADIF files, later files taking precedence,
and merges records of the same contact logged a few minutes apart.

Settings come from flags, QSOLOG_* environment variables (.env files are
loaded), or a .qsolog.yaml file in the working or home directory.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default .qsolog.yaml)")
	pf.String("log-level", "warn", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text or json")
	pf.Bool("all-calls", false, "admit callsigns from later files that the first file never logged")
	pf.Duration("fuzz-window", merge.DefaultFuzzWindow, "records on the same band closer than this are merged")

	root.AddCommand(
		newListCmd(a),
		newExportCmd(a),
		newStatsCmd(a),
		newValidateCmd(a),
		newPublishCmd(a),
	)
	return root
}

// setup loads configuration sources in order of precedence (flags, then
// environment and .env files, then the config file) and builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	for _, f := range []string{".env", ".env.local"} {
		_ = godotenv.Load(f)
	}

	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	a.v.AutomaticEnv()
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}

	if err := a.readConfigFile(); err != nil {
		return err
	}

	a.logger = observability.NewLoggerTo(cmd.ErrOrStderr(), a.v.GetString("log-level"), a.v.GetString("log-format"))
	a.metrics = observability.NewMetricsWith(prometheus.NewRegistry())
	return nil
}

func (a *app) readConfigFile() error {
	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		return nil
	}

	a.v.SetConfigName(".qsolog")
	a.v.SetConfigType("yaml")
	a.v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		a.v.AddConfigPath(home)
	}
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// load runs the pipeline over files with the configured options.
func (a *app) load(cmd *cobra.Command, files []string) (pipeline.Result, error) {
	window := a.v.GetDuration("fuzz-window")
	if window <= 0 {
		return pipeline.Result{}, fmt.Errorf("invalid fuzz window %s: must be positive", window)
	}
	p := pipeline.New(a.logger, a.metrics, pipeline.Options{
		KnownCallsOnly: !a.v.GetBool("all-calls"),
		FuzzWindow:     window,
	})
	return p.Run(cmd.Context(), files)
}
