package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chriserin/ftorigin/internal/config"
	"github.com/chriserin/ftorigin/internal/logger"
)

var (
	configFlag  string
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:           "ftorigin",
	Short:         "Resolve feature file origins and test ids",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", config.DefaultFileName, "Path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Print diagnostic logs to stderr")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.Config{}, fmt.Errorf("run `ftorigin init` first")
	}
	return config.Load(path)
}
