package main

import (
	"github.com/mergington/activities/server/config"
	"github.com/mergington/activities/server/version"
	"github.com/spf13/cobra"
)

func createVersionCmd(configManager config.Manager) *cobra.Command {
	var fullOutput bool

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print activities server version",
		Run: func(cmd *cobra.Command, args []string) {
			if fullOutput {
				version.PrintFull()
			} else {
				version.Print()
			}
		},
	}

	versionCmd.PersistentFlags().BoolVar(&fullOutput, "full", false, "Print full version information")

	return versionCmd
}
