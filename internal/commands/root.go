// internal/commands/root.go
package textbench

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/mwiater/textbench/internal/appconfig"
	"github.com/mwiater/textbench/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

var (
	boolFlags   = []string{"debug", "metrics"}
	stringFlags = []string{"backend", "bridgeBinary", "export", "logFile"}
	intFlags    = []string{"iterations", "bridgeInitTimeout"}
)

// rootCmd runs the benchmark when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "textbench",
	Short: "Time CSV parsing and word joining through a native or bridged backend",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := ensureConfigLoaded()
		if err != nil {
			return err
		}

		for _, name := range boolFlags {
			if !cmd.Flags().Changed(name) {
				_ = cmd.Flags().Set(name, strconv.FormatBool(viper.GetBool(name)))
			}
		}
		for _, name := range stringFlags {
			if !cmd.Flags().Changed(name) {
				_ = cmd.Flags().Set(name, viper.GetString(name))
			}
		}
		for _, name := range intFlags {
			if !cmd.Flags().Changed(name) {
				_ = cmd.Flags().Set(name, strconv.Itoa(viper.GetInt(name)))
			}
		}

		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		if loaded {
			cfg.ConfigPath = cfgFile
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		currentConfig = &cfg

		if err := logging.Init(currentConfig.LogFilePath(), currentConfig.Debug); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBenchmark(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), GetConfig())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		_ = logging.Close()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	defaults := appconfig.Default()

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("metrics", false, "record per-call latency for each operation")
	rootCmd.PersistentFlags().Int("iterations", defaults.Iterations, "timed calls per benchmark loop")
	rootCmd.PersistentFlags().String("backend", defaults.Backend, "text-processing backend: native or bridge")
	rootCmd.PersistentFlags().String("bridgeBinary", "", "binary serving the bridge (defaults to this executable)")
	rootCmd.PersistentFlags().Int("bridgeInitTimeout", 0, "seconds to wait for the bridge handshake (0 = default)")
	rootCmd.PersistentFlags().String("export", "", "write the run report to this JSON file")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")

	for _, name := range append(append(append([]string{}, boolFlags...), stringFlags...), intFlags...) {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

// initConfig points viper at the config file if one was given.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config file, reporting whether one was found.
// A missing file is not an error; flags and defaults apply.
func ensureConfigLoaded() (bool, error) {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load config: %w", err)
	}
	return true, nil
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
