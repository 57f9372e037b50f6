// Package cli implements the logsift CLI commands.
package cli

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	// Import log source adapters to register them via init()
	_ "github.com/logsift/logsift/pkg/logs/file"
	_ "github.com/logsift/logsift/pkg/logs/httpapi"
)

var (
	cfgFile string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "logsift",
	Short: "Query, filter, and export structured logs",
	Long: `logsift queries structured log stores, narrows the results by time
window, severity, and subsystem, and exports them as plain text, JSON,
JSON Lines, or CSV, optionally gzip-compressed.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.logsift/config.yaml)")
	rootCmd.PersistentFlags().String("source", "file", "Log source type (file, http)")
	rootCmd.PersistentFlags().String("endpoint", "", "Log source endpoint (file path or base URL)")
	rootCmd.PersistentFlags().String("subsystem", "", "This application's subsystem identifier")
	rootCmd.PersistentFlags().String("debug-level", "info", "Debug log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("debug-log", "", "Write debug logs to this file instead of discarding them")

	// Bind to viper
	_ = viper.BindPFlag("source", rootCmd.PersistentFlags().Lookup("source"))
	_ = viper.BindPFlag("endpoint", rootCmd.PersistentFlags().Lookup("endpoint"))
	_ = viper.BindPFlag("subsystem", rootCmd.PersistentFlags().Lookup("subsystem"))
	_ = viper.BindPFlag("debug_level", rootCmd.PersistentFlags().Lookup("debug-level"))
	_ = viper.BindPFlag("debug_log", rootCmd.PersistentFlags().Lookup("debug-log"))
	viper.SetEnvPrefix("LOGSIFT")
	viper.AutomaticEnv()

	// Add subcommands
	rootCmd.AddCommand(newQueryCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newPresetsCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in home directory
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home + "/.logsift")
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	// Read config file if it exists
	_ = viper.ReadInConfig()
}
