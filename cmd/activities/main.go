package main

import (
	"fmt"
	"os"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/mergington/activities/server/config"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := createRootCmd()

	configManager := config.NewManager(rootCmd)

	rootCmd.AddCommand(createServeCmd(configManager))
	rootCmd.AddCommand(createConfigDumpCmd(configManager))
	rootCmd.AddCommand(createVersionCmd(configManager))

	if err := rootCmd.Execute(); err != nil {
		initFatal(err, "running root command")
	}
}

// initFatal prints an error message and exits with a non-zero status.
func initFatal(err error, message string) {
	fmt.Printf("Error %s: %v\n", message, err)
	os.Exit(1)
}

func createRootCmd() *cobra.Command {
	// rootCmd is the base command sans any subcommands
	rootCmd := &cobra.Command{
		Use:   "activities",
		Short: "School activity signups and rosters",
		Long: `
School activity signups and rosters

Configurable Options:

Options may be supplied in a yaml configuration file or via environment
variables. You only need to define the configuration values for which you
wish to override the default value.
`,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a configuration file")

	return rootCmd
}

// initLogger sets up a kitlog.Logger, writing to the appropriate destination
// and with the appropriate log level.
func initLogger(config config.MergingtonConfig) kitlog.Logger {
	var logger kitlog.Logger
	{
		output := os.Stderr
		if config.Logging.JSON {
			logger = kitlog.NewJSONLogger(output)
		} else {
			logger = kitlog.NewLogfmtLogger(output)
		}
		if config.Logging.Debug {
			logger = level.NewFilter(logger, level.AllowDebug())
		} else {
			logger = level.NewFilter(logger, level.AllowInfo())
		}
		logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)
	}
	return logger
}
