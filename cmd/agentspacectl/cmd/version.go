package cmd

import (
	"github.com/spf13/cobra"

	"github.com/agenticsoc/agentspacectl/internal/constants"
	"github.com/agenticsoc/agentspacectl/internal/output"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the CLI version",
	Run: func(_ *cobra.Command, _ []string) {
		output.Info("%s %s", constants.ProjectName, constants.GetVersion())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
