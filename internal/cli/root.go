// Package perfcompare wires the cobra command tree for the perfcompare binary.
package perfcompare

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mengfei25/torch-xpu-ops/internal/appconfig"
	"github.com/mengfei25/torch-xpu-ops/internal/logging"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"

	// appFs backs every report read and write; tests swap in a memory fs.
	appFs afero.Fs = afero.NewOsFs()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "perfcompare",
	Short:        "Inductor benchmark comparison and op microbenchmarks",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfigLoaded(); err != nil {
			return err
		}

		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return errors.Wrap(err, "unmarshal config")
		}
		cfg = cfg.Normalize()
		cfg.ConfigPath = viper.ConfigFileUsed()
		currentConfig = &cfg

		logging.SetDebug(cfg.Debug)
		if err := logging.Init(cfg.LogFilePath()); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		logging.Debugf("config loaded from %q", cfg.ConfigPath)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = appVersion + " (commit: " + appCommit + ", built: " + appDate + ")"

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		_ = logging.Close()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("logFile", "", "also append log output to this file")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("logFile"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config and sets safe defaults. A missing file
// is not an error; a present JSON file must pass appconfig.Validate.
func ensureConfigLoaded() error {
	defaults := appconfig.Defaults()
	viper.SetDefault("output", defaults.OutputPath)
	viper.SetDefault("pattern", defaults.Pattern)
	viper.SetDefault("microbench.iterations", defaults.Microbench.Iterations)
	viper.SetDefault("microbench.warmup", defaults.Microbench.Warmup)
	viper.SetDefault("microbench.maxElements", defaults.Microbench.MaxElements)

	if cfgFile != "" && strings.EqualFold(filepath.Ext(cfgFile), ".json") {
		if _, err := appconfig.ReadValidated(cfgFile); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return errors.Wrapf(err, "config %s", cfgFile)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return errors.Wrap(err, "failed to load config")
	}
	return nil
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
