package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/asakaida/tsunagi/internal/infrastructure/config"
	"github.com/asakaida/tsunagi/internal/infrastructure/logger"
	"github.com/asakaida/tsunagi/internal/infrastructure/metrics"
	"github.com/asakaida/tsunagi/internal/manifest"
	"github.com/asakaida/tsunagi/internal/services"
	"github.com/asakaida/tsunagi/pkg/registry"
	"github.com/asakaida/tsunagi/pkg/relationship"
)

// app carries what every subcommand needs after PersistentPreRunE
type app struct {
	env       string
	logLevel  string
	logFormat string

	cfg       *config.Config
	logger    *zap.Logger
	collector *metrics.Collector
	promReg   *prometheus.Registry
	exporter  *metrics.PrometheusExporter
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "tsunagi",
		Short: "Relationship registry tool",
		Long: `Relationship registry tool.
Loads relationship manifests into a registry to check them for duplicates
and to resolve relationships between entity types.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	// Global flags override the .env.{env} file and environment variables
	rootCmd.PersistentFlags().StringVarP(&a.env, "env", "e", "dev", "Environment to use (dev, test, prod)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error, none)")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "Log format (text, json)")

	rootCmd.AddCommand(newValidateCmd(a))
	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newLookupCmd(a))

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	if err := config.InitConfig(a.env); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}
	if a.logLevel != "" {
		viper.Set("LOG_LEVEL", a.logLevel)
	}
	if a.logFormat != "" {
		viper.Set("LOG_FORMAT", a.logFormat)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg

	a.logger, err = logger.NewLogger(cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	a.collector = metrics.NewCollector()

	a.logger.Debug("configuration loaded", zap.String("env", a.env))
	return nil
}

// loadRegistry builds a fresh registry and applies the manifest at path to it.
// A nil registry means the manifest could not be read. Otherwise the registry
// holds every accepted declaration, even when the error reports rejected ones.
func (a *app) loadRegistry(path string) (*registry.Registry, services.ApplyResult, error) {
	opts := []registry.Option{
		registry.WithLogger(a.logger),
		registry.WithPrincipalType(a.cfg.Registry.PrincipalType),
	}
	if a.cfg.Metrics.Enabled {
		a.promReg = prometheus.NewRegistry()
		a.exporter = metrics.NewPrometheusExporter(a.cfg.Metrics.Namespace, a.promReg)
		opts = append(opts, registry.WithMetrics(metrics.NewRecorder(a.collector, a.exporter)))
	}
	reg := registry.New(opts...)

	m, err := manifest.Load(path)
	if err != nil {
		return nil, services.ApplyResult{}, err
	}

	result, err := services.NewDefinitionService(reg, a.logger).Apply(m)
	if a.exporter != nil {
		a.exporter.Update(reg)
	}
	return reg, result, err
}

// rejectedErr wraps the apply error of a manifest that was only partly loaded
func rejectedErr(path string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("manifest %s has rejected declarations: %w", path, err)
}

// printMetrics writes the collector summary followed by the Prometheus text
// exposition when metrics are enabled.
func (a *app) printMetrics(cmd *cobra.Command) error {
	if !a.cfg.Metrics.Enabled {
		return nil
	}
	out := cmd.OutOrStdout()
	m := a.collector.GetRegistryMetrics()
	for _, c := range []relationship.Category{relationship.CategoryEntity, relationship.CategoryPrincipal} {
		name := c.String()
		fmt.Fprintf(out, "metrics %s: defines=%d duplicates=%d hits=%d misses=%d\n",
			name, m.Defines[name], m.Duplicates[name], m.LookupHits[name], m.LookupMisses[name])
	}

	if a.promReg == nil {
		return nil
	}
	families, err := a.promReg.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}
