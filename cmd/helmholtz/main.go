// Command helmholtz evaluates and checks fluid files from the command line.
//
// Usage:
//
//	helmholtz eval     fluid.yaml --tau 1.3 --delta 0.7
//	helmholtz check    fluid.yaml
//	helmholtz describe fluid.yaml
//	helmholtz serve    --port 8080
//
// Settings come from flags, a YAML file given with --config, and
// HELMHOLTZ_* environment variables, in that order of precedence.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	helmholtz "github.com/njchilds90/gohelmholtz"
)

var (
	configPath string
	logger     = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "helmholtz",
	Short: "Evaluate and check reduced Helmholtz energy terms",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		setupLogger(viper.GetString("log.level"))
		return nil
	},
	SilenceUsage: true,
}

var evalCmd = &cobra.Command{
	Use:   "eval FLUID",
	Short: "Print the ideal and residual aggregates of a fluid file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := helmholtz.LoadFluid(args[0])
		if err != nil {
			return err
		}
		tau, delta := viper.GetFloat64("check.tau"), viper.GetFloat64("check.delta")
		ideal, residual := f.Evaluate(tau, delta)
		logger.WithFields(logrus.Fields{"fluid": f.Name, "tau": tau, "delta": delta}).Debug("evaluated")
		return printJSON(map[string]interface{}{
			"name":   f.Name,
			"tau":    tau,
			"delta":  delta,
			"alpha0": ideal,
			"alphar": residual,
		})
	},
}

var checkCmd = &cobra.Command{
	Use:   "check FLUID",
	Short: "Compare every closed-form derivative with a finite difference",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := helmholtz.LoadFluid(args[0])
		if err != nil {
			return err
		}
		opts := checkOptions()
		reports, err := helmholtz.CheckTerms(cmd.Context(), f.Named(), opts)
		if err != nil {
			return err
		}
		failed := 0
		for _, rep := range reports {
			entry := logger.WithFields(logrus.Fields{"term": rep.Name, "type": rep.Kind})
			for _, res := range rep.Failures(opts.Tolerance) {
				failed++
				entry.WithFields(logrus.Fields{
					"derivative": res.Name,
					"numerical":  res.Numerical,
					"analytic":   res.Analytic,
					"error":      res.Error,
				}).Warn("inconsistent derivative")
			}
			if rep.Passed {
				entry.Info("consistent")
			}
		}
		if err := printJSON(reports); err != nil {
			return err
		}
		if failed > 0 {
			return fmt.Errorf("%d inconsistent derivatives", failed)
		}
		return nil
	},
}

var describeCmd = &cobra.Command{
	Use:   "describe FLUID",
	Short: "Print the canonical serialization of a fluid file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := helmholtz.LoadFluid(args[0])
		if err != nil {
			return err
		}
		alpha0, err := helmholtz.ToJSON(f.Alpha0)
		if err != nil {
			return err
		}
		alphar, err := helmholtz.ToJSON(f.AlphaR)
		if err != nil {
			return err
		}
		return printJSON(map[string]interface{}{
			"name":   f.Name,
			"alpha0": json.RawMessage(alpha0),
			"alphar": json.RawMessage(alphar),
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file path (YAML)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Float64("tau", 1.3, "Reciprocal reduced temperature")
	rootCmd.PersistentFlags().Float64("delta", 0.7, "Reduced density")
	checkCmd.Flags().Float64("step", 1e-7, "Central difference step")
	checkCmd.Flags().Float64("tolerance", 1e-6, "Largest accepted relative error")
	checkCmd.Flags().Int("workers", 0, "Concurrent terms, 0 for unbounded")
	serveCmd.Flags().Int("port", 8080, "Port to listen on")

	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("check.tau", rootCmd.PersistentFlags().Lookup("tau"))
	viper.BindPFlag("check.delta", rootCmd.PersistentFlags().Lookup("delta"))
	viper.BindPFlag("check.step", checkCmd.Flags().Lookup("step"))
	viper.BindPFlag("check.tolerance", checkCmd.Flags().Lookup("tolerance"))
	viper.BindPFlag("check.workers", checkCmd.Flags().Lookup("workers"))
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))

	viper.SetEnvPrefix("HELMHOLTZ")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(evalCmd, checkCmd, describeCmd, serveCmd)
}

func setDefaults() {
	def := helmholtz.DefaultCheckOptions()
	viper.SetDefault("log.level", "info")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("check.tau", def.Tau)
	viper.SetDefault("check.delta", def.Delta)
	viper.SetDefault("check.step", def.Step)
	viper.SetDefault("check.tolerance", def.Tolerance)
	viper.SetDefault("check.workers", 0)
}

func loadConfig() error {
	setDefaults()
	if configPath == "" {
		return nil
	}
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

func checkOptions() helmholtz.CheckOptions {
	return helmholtz.CheckOptions{
		Tau:       viper.GetFloat64("check.tau"),
		Delta:     viper.GetFloat64("check.delta"),
		Step:      viper.GetFloat64("check.step"),
		Tolerance: viper.GetFloat64("check.tolerance"),
		Workers:   viper.GetInt("check.workers"),
	}
}

func setupLogger(level string) {
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetOutput(os.Stderr)
	switch strings.ToLower(level) {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.WithError(err).Error("helmholtz failed")
		os.Exit(1)
	}
}
