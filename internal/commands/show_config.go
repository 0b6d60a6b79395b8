package textbench

import (
	"github.com/mwiater/textbench/internal/appconfig"
	"github.com/spf13/cobra"
)

// showCmd groups commands that display state.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show textbench settings",
}

// showConfigCmd implements the 'show config' command, which displays the current configuration settings.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON configs are loaded properly and overriden by flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		appconfig.ShowConfig(cmd.OutOrStdout(), GetConfig())
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.AddCommand(showConfigCmd)
}
