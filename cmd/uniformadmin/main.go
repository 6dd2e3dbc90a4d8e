package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tn02103/uniformAdministrationApp-sub001/internal/config"
)

var (
	configPath string
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:           "uniformadmin",
	Short:         "Uniform administration server",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (default: defaults and environment only)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment is read")
	rootCmd.AddCommand(serveCmd, initCmd, migrateCmd)
}

// loadConfig reads the configuration and installs the logger. The returned
// function closes the log file, if any.
func loadConfig() (config.Config, func(), error) {
	cfg, err := config.Load(configPath, envFile)
	if err != nil {
		return cfg, nil, err
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return cfg, nil, err
	}
	closeLog, err := setupLogger(cfg.Log.Path, level)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, closeLog, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
