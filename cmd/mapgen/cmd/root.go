package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	jsonOut bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:          "ww-mapgen",
	Short:        "Generate and inspect freeserf-style maps",
	SilenceUsage: true,
	Long: `ww-mapgen generates freeserf-style hex maps and inspects the
pathfinding and resource layout of a generated map.

Examples:
  ww-mapgen generate --seed 8667715887436237 --size 3
  ww-mapgen road --from 10,10 --to 40,40
  ww-mapgen stats --seed 8667715887436237`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ww-mapgen.yaml)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "show detailed debug information")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "request JSON output (accepted; every command prints plain text)")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".ww-mapgen")
	}

	viper.SetEnvPrefix("WW_MAPGEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && isVerbose() {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// isVerbose returns whether verbose output is requested.
func isVerbose() bool { return viper.GetBool("verbose") }

// isJSONOutput returns whether JSON output is requested.
func isJSONOutput() bool { return viper.GetBool("json") }
