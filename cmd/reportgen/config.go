package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/clinseq/reportgen/internal/rules"
)

// Configuration keys.
const (
	keyCRCTable       = "rules.crc_table"
	keyAlasccaTable   = "rules.alascca_table"
	keyMsiMinSites    = "msi.min_total_sites"
	keyMsiLow         = "msi.low_threshold"
	keyMsiHigh        = "msi.high_threshold"
	keyArchivePath    = "archive.path"
	configFileName    = ".reportgen"
	configEnvPrefix   = "REPORTGEN"
	defaultConfigFile = configFileName + ".yaml"
)

// initConfig loads ~/.reportgen.yaml (or cfgFile) and REPORTGEN_* environment
// variables on top of the defaults. A missing default config file is not an
// error.
func initConfig(cfgFile string) error {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(configFileName)
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix(configEnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

func setDefaults() {
	th := rules.DefaultMsiThresholds()
	viper.SetDefault(keyMsiMinSites, th.MinTotalSites)
	viper.SetDefault(keyMsiLow, th.Low)
	viper.SetDefault(keyMsiHigh, th.High)
}

// msiThresholds returns the configured MSI cutoffs.
func msiThresholds() (rules.MsiThresholds, error) {
	th := rules.MsiThresholds{
		MinTotalSites: viper.GetFloat64(keyMsiMinSites),
		Low:           viper.GetFloat64(keyMsiLow),
		High:          viper.GetFloat64(keyMsiHigh),
	}
	if err := th.Validate(); err != nil {
		return th, fmt.Errorf("config: %w", err)
	}
	return th, nil
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage reportgen configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/.reportgen.yaml.",
		Example: `  reportgen config                                       # show all config
  reportgen config set rules.alascca_table /assets/alascca.xlsx  # set default ALASCCA table
  reportgen config get msi.high_threshold                # get a value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd.OutOrStdout(), args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(cmd.OutOrStdout(), args[0])
		},
	}
}

func runConfigShow(w io.Writer) error {
	settings := viper.AllSettings()
	if len(settings) == 0 {
		fmt.Fprintln(w, "# No configuration set. Config file: ~/"+defaultConfigFile)
		return nil
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Fprint(w, string(out))
	return nil
}

func runConfigSet(w io.Writer, key, value string) error {
	viper.Set(key, value)

	// Ensure config file exists
	cfgFile := viper.ConfigFileUsed()
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfgFile = filepath.Join(home, defaultConfigFile)
	}

	if err := viper.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(w, "Set %s = %s in %s\n", key, value, cfgFile)
	return nil
}

func runConfigGet(w io.Writer, key string) error {
	val := viper.Get(key)
	if val == nil {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Fprintln(w, val)
	return nil
}
